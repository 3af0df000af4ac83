package agent

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"kaede/pkg/emotion"
	"kaede/pkg/llm"
	"kaede/pkg/memory"
)

// chatter is the slice of the LLM client the agent needs.
type chatter interface {
	ChatCompletion(ctx context.Context, messages []llm.Message) (string, error)
}

// retriever returns character background relevant to a query.
type retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Options wires the agent's collaborators. Retriever and Extractor may
// be nil; the agent then runs without retrieval or emotion updates.
type Options struct {
	Name      string
	Persona   string
	LLM       chatter
	Extractor EventExtractor
	Emotions  *emotion.Manager
	Memory    *memory.Manager
	Retriever retriever
	Clock     clockwork.Clock
}

// Agent is the conversational core: it updates the character's
// emotional state from each message, assembles the system prompt and
// produces the in-character reply.
//
// All public methods are safe for concurrent use; a single mutex
// serializes turns against the decay loop.
type Agent struct {
	mu sync.Mutex

	name      string
	persona   string
	llm       chatter
	extractor EventExtractor
	emotions  *emotion.Manager
	memory    *memory.Manager
	retriever retriever
	clock     clockwork.Clock
}

func New(opts Options) (*Agent, error) {
	if opts.LLM == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if opts.Emotions == nil {
		return nil, fmt.Errorf("emotion manager is required")
	}
	if opts.Memory == nil {
		return nil, fmt.Errorf("memory manager is required")
	}
	if opts.Name == "" {
		opts.Name = "Unknown"
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Agent{
		name:      opts.Name,
		persona:   opts.Persona,
		llm:       opts.LLM,
		extractor: opts.Extractor,
		emotions:  opts.Emotions,
		memory:    opts.Memory,
		retriever: opts.Retriever,
		clock:     opts.Clock,
	}, nil
}

// ProcessInput runs one conversational turn: extract emotion events,
// update state, retrieve background, ask the model and record history.
func (a *Agent) ProcessInput(ctx context.Context, userName, input string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.extractor != nil {
		events, err := a.extractor.Extract(ctx, userName, input)
		if err != nil {
			// A failed extraction should not kill the turn.
			log.Printf("Emotion extraction failed: %v", err)
		} else {
			a.emotions.UpdateFromLLM(events)
		}
	}

	var background string
	if a.retriever != nil {
		var err error
		background, err = a.retriever.Retrieve(ctx, input)
		if err != nil {
			log.Printf("Background retrieval failed: %v", err)
		}
	}

	mem := a.memory.PromptContext()
	system := buildSystemPrompt(promptInput{
		Name:         a.name,
		Persona:      a.persona,
		Background:   background,
		EmotionState: a.emotions.GenerateOutput(),
		Memories:     mem.Memories,
		Attentions:   mem.Attentions,
		DateTime:     mem.DateTime,
	})

	messages := make([]llm.Message, 0, len(mem.History)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	messages = append(messages, mem.History...)
	messages = append(messages, llm.Message{Role: "user", Content: input})

	reply, err := a.llm.ChatCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	a.memory.AddUserMessage(input)
	a.memory.AddAssistantMessage(reply)

	return reply, nil
}

// StartDecayLoop fades emotions in the background until ctx is done.
// interval is how often decay runs; unitSeconds is the decay time unit.
func (a *Agent) StartDecayLoop(ctx context.Context, interval time.Duration, unitSeconds int) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := a.clock.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				a.mu.Lock()
				a.emotions.ApplyDecay(unitSeconds)
				a.mu.Unlock()
			}
		}
	}()
}

// State renders the current emotional state.
func (a *Agent) State() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.emotions.GenerateOutput()
}

// RememberAboutUser stores a long-lived fact about the user.
func (a *Agent) RememberAboutUser(fact string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory.AddMemory(fact)
}

// NoteAttention stores a short-lived point of attention.
func (a *Agent) NoteAttention(note string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory.AddAttention(note)
}
