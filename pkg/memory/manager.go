package memory

import (
	"time"

	"github.com/jonboulle/clockwork"

	"kaede/pkg/llm"
)

// DefaultMaxHistory bounds the chat history when no limit is configured.
const DefaultMaxHistory = 10

// Manager holds the conversational working set: the recent chat
// history, long-lived memories about the user, and short-lived
// attention notes the character wants to keep in mind.
//
// Manager is not safe for concurrent use; the agent serializes access.
type Manager struct {
	maxHistory int
	history    []llm.Message
	memories   []string
	attentions []string

	clock clockwork.Clock
	loc   *time.Location

	persist *Persistence
}

func NewManager(maxHistory int, loc *time.Location, clock clockwork.Clock) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		maxHistory: maxHistory,
		clock:      clock,
		loc:        loc,
	}
}

// SetPersistence attaches a Redis-backed store so recent history
// survives restarts. Optional.
func (m *Manager) SetPersistence(p *Persistence) {
	m.persist = p
}

// ====== CHAT HISTORY ======

func (m *Manager) AddUserMessage(content string) {
	m.addMessage(llm.Message{Role: "user", Content: content})
}

func (m *Manager) AddAssistantMessage(content string) {
	m.addMessage(llm.Message{Role: "assistant", Content: content})
}

func (m *Manager) addMessage(msg llm.Message) {
	m.history = append(m.history, msg)
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}
	if m.persist != nil {
		m.persist.SaveMessage(msg, m.maxHistory)
	}
}

// History returns a copy of the recent messages, oldest first.
func (m *Manager) History() []llm.Message {
	out := make([]llm.Message, len(m.history))
	copy(out, m.history)
	return out
}

// Restore loads persisted history, replacing whatever is in memory.
// A missing or unreachable store is not an error; we just start fresh.
func (m *Manager) Restore() {
	if m.persist == nil {
		return
	}
	msgs := m.persist.LoadMessages(m.maxHistory)
	if len(msgs) > 0 {
		m.history = msgs
	}
}

func (m *Manager) ClearHistory() {
	m.history = nil
	if m.persist != nil {
		m.persist.Clear()
	}
}

// ====== MEMORIES AND ATTENTIONS ======

func (m *Manager) AddMemory(text string) {
	m.memories = appendUnique(m.memories, text)
}

func (m *Manager) RemoveMemory(text string) bool {
	var removed bool
	m.memories, removed = removeString(m.memories, text)
	return removed
}

func (m *Manager) Memories() []string {
	out := make([]string, len(m.memories))
	copy(out, m.memories)
	return out
}

func (m *Manager) AddAttention(text string) {
	m.attentions = appendUnique(m.attentions, text)
}

func (m *Manager) RemoveAttention(text string) bool {
	var removed bool
	m.attentions, removed = removeString(m.attentions, text)
	return removed
}

func (m *Manager) Attentions() []string {
	out := make([]string, len(m.attentions))
	copy(out, m.attentions)
	return out
}

// MemoriesText renders the memory list for the system prompt.
func (m *Manager) MemoriesText() string {
	return listText(m.memories)
}

// AttentionsText renders the attention list for the system prompt.
func (m *Manager) AttentionsText() string {
	return listText(m.attentions)
}

// CurrentDateTime returns the local date and time for the prompt.
func (m *Manager) CurrentDateTime() string {
	return m.clock.Now().In(m.loc).Format("2006-01-02 (Mon) 15:04")
}

// PromptContext bundles everything the system prompt pulls from memory.
type PromptContext struct {
	History    []llm.Message
	Memories   string
	Attentions string
	DateTime   string
}

func (m *Manager) PromptContext() PromptContext {
	return PromptContext{
		History:    m.History(),
		Memories:   m.MemoriesText(),
		Attentions: m.AttentionsText(),
		DateTime:   m.CurrentDateTime(),
	}
}

func listText(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	var out string
	for i, item := range items {
		if i > 0 {
			out += "\n"
		}
		out += "- " + item
	}
	return out
}

func appendUnique(items []string, text string) []string {
	for _, item := range items {
		if item == text {
			return items
		}
	}
	return append(items, text)
}

func removeString(items []string, text string) ([]string, bool) {
	for i, item := range items {
		if item == text {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}
