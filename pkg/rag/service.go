package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"kaede/pkg/embedding"
)

// CharacterService indexes the character sheet at startup and retrieves
// the most relevant passages for each user message.
type CharacterService struct {
	splitter *Splitter
	embedder embedding.Embedder
	store    Store
	topK     int
}

func NewCharacterService(splitter *Splitter, embedder embedding.Embedder, store Store, topK int) *CharacterService {
	if topK <= 0 {
		topK = 3
	}
	return &CharacterService{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		topK:     topK,
	}
}

// Initialize chunks the document, embeds every chunk and loads the
// store. Chunks that fail to embed are skipped so one flaky request
// does not lose the whole sheet.
func (s *CharacterService) Initialize(ctx context.Context, document string) error {
	chunks := s.splitter.Split(document)
	if len(chunks) == 0 {
		return fmt.Errorf("document produced no chunks")
	}

	stored := 0
	for _, chunk := range chunks {
		vector, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			log.Printf("Failed to embed chunk, skipping: %v", err)
			continue
		}
		if err := s.store.Add(chunk, vector); err != nil {
			return fmt.Errorf("failed to index chunk: %w", err)
		}
		stored++
	}

	if stored == 0 {
		return fmt.Errorf("no chunks could be embedded")
	}
	log.Printf("Indexed %d/%d character sheet chunks", stored, len(chunks))
	return nil
}

// Retrieve returns the chunks most relevant to the query joined into a
// single context block, or an empty string when nothing matches.
func (s *CharacterService) Retrieve(ctx context.Context, query string) (string, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	texts, err := s.store.Search(vector, s.topK)
	if err != nil {
		return "", fmt.Errorf("failed to search chunks: %w", err)
	}

	return strings.Join(texts, "\n\n"), nil
}
