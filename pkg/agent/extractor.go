package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"kaede/pkg/emotion"
)

// EventExtractor turns a user message into the emotion events it should
// trigger in the character.
type EventExtractor interface {
	Extract(ctx context.Context, userName, message string) ([]emotion.Event, error)
}

const extractorSystemPrompt = `You analyze how a message makes the character feel.
Given the user's message, list the emotion events it triggers in the character.

Respond with ONLY a JSON array, no prose:
[{"target": "<who or what the feeling is about>", "label": "<emotion>", "strength": "<strength>"}]

Rules:
- "label" must be one of: joy, anticipation, anger, disgust, sadness, surprise, fear, trust
- "strength" must be one of: weak, medium, strong
- "target" is the person or topic the feeling is directed at, e.g. the user's name
- Return [] when the message carries no emotional weight
- At most 3 events`

// LLMExtractor asks the chat model to classify the message.
type LLMExtractor struct {
	llm completer
}

type completer interface {
	Completion(ctx context.Context, system, user string) (string, error)
}

func NewLLMExtractor(llm completer) *LLMExtractor {
	return &LLMExtractor{llm: llm}
}

func (e *LLMExtractor) Extract(ctx context.Context, userName, message string) ([]emotion.Event, error) {
	user := fmt.Sprintf("Message from %s:\n%s", userName, message)

	resp, err := e.llm.Completion(ctx, extractorSystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("emotion extraction failed: %w", err)
	}

	jsonStr := stripCodeFence(resp)

	var events []emotion.Event
	if err := json.Unmarshal([]byte(jsonStr), &events); err != nil {
		return nil, fmt.Errorf("failed to parse emotion events: %w", err)
	}
	return events, nil
}

// stripCodeFence removes a surrounding markdown code fence, which
// models add despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			s = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	return strings.TrimSpace(s)
}
