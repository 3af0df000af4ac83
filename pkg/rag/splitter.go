package rag

import "strings"

// Splitter cuts a document into overlapping chunks along paragraph
// boundaries, so retrieval works on coherent slices of the character
// sheet instead of the whole document.
type Splitter struct {
	ChunkSize    int // target chunk length in runes
	ChunkOverlap int // runes carried over between adjacent chunks
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &Splitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// Split breaks text into chunks of at most ChunkSize runes. Paragraphs
// are packed together until the budget runs out; oversized paragraphs
// are hard-split with overlap.
func (s *Splitter) Split(text string) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current []rune

	flush := func() {
		if trimmed := strings.TrimSpace(string(current)); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		// Keep the tail as overlap for the next chunk.
		if s.ChunkOverlap > 0 && len(current) > s.ChunkOverlap {
			current = append([]rune(nil), current[len(current)-s.ChunkOverlap:]...)
		} else {
			current = nil
		}
	}

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		runes := []rune(p)

		// Oversized paragraph: hard-split it on its own.
		if len(runes) > s.ChunkSize {
			flush()
			current = nil
			for start := 0; start < len(runes); start += s.ChunkSize - s.ChunkOverlap {
				end := min(start+s.ChunkSize, len(runes))
				chunks = append(chunks, strings.TrimSpace(string(runes[start:end])))
				if end == len(runes) {
					break
				}
			}
			continue
		}

		// Only flush when current holds more than overlap residue,
		// otherwise we would emit the overlap as its own chunk.
		if len(current) > s.ChunkOverlap && len(current)+2+len(runes) > s.ChunkSize {
			flush()
		}
		if len(current) > 0 {
			current = append(current, '\n', '\n')
		}
		current = append(current, runes...)
	}

	if trimmed := strings.TrimSpace(string(current)); trimmed != "" {
		chunks = append(chunks, trimmed)
	}

	return chunks
}
