package agent

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = `You are %s. Stay in character at all times and never mention being an AI.

# Character
%s

# Relevant background
%s

# Current emotional state
%s

Speak in a way that reflects this emotional state. Strong emotions color
your tone and word choice; a neutral state means a calm, everyday manner.
Do not name the emotions or their numbers explicitly.

# Things you remember about the user
%s

# Things you are currently paying attention to
%s

# Current date and time
%s`

// promptInput carries everything the system prompt is built from.
type promptInput struct {
	Name         string
	Persona      string
	Background   string
	EmotionState string
	Memories     string
	Attentions   string
	DateTime     string
}

func buildSystemPrompt(in promptInput) string {
	background := strings.TrimSpace(in.Background)
	if background == "" {
		background = "none"
	}
	return fmt.Sprintf(systemPromptTemplate,
		in.Name,
		strings.TrimSpace(in.Persona),
		background,
		strings.TrimSpace(in.EmotionState),
		in.Memories,
		in.Attentions,
		in.DateTime,
	)
}
