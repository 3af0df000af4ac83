package character

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sheet is a parsed character sheet: free-form YAML describing the
// persona (profile, background, speech style, relationships, ...).
type Sheet struct {
	data map[string]any
	raw  []byte
}

// Load reads and parses a character sheet from the given path.
func Load(path string) (*Sheet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read character sheet %s: %w", path, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse character sheet %s: %w", path, err)
	}

	return &Sheet{data: data, raw: raw}, nil
}

// Data returns the parsed sheet for structured access.
func (s *Sheet) Data() map[string]any {
	return s.data
}

// Text returns the sheet re-marshalled as YAML. Retrieval ingests this
// normalized text rather than the raw file so key order and formatting
// are stable.
func (s *Sheet) Text() (string, error) {
	out, err := yaml.Marshal(s.data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal character sheet: %w", err)
	}
	return string(out), nil
}

// Summary extracts the top-level "summary" section if present, used
// verbatim in the system prompt ahead of retrieved detail.
func (s *Sheet) Summary() string {
	if v, ok := s.data["summary"].(string); ok {
		return v
	}
	return ""
}

// Name extracts the character's name, defaulting when absent.
func (s *Sheet) Name() string {
	if v, ok := s.data["name"].(string); ok {
		return v
	}
	return "Unknown"
}
