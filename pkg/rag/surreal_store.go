package rag

import (
	"fmt"

	"kaede/pkg/surreal"
)

const chunkTable = "character_chunks"

// SurrealStore keeps the chunk index in SurrealDB and uses its
// vector::similarity::cosine function for retrieval.
type SurrealStore struct {
	client *surreal.Client
}

func NewSurrealStore(client *surreal.Client) (*SurrealStore, error) {
	if client == nil {
		return nil, fmt.Errorf("nil surreal client")
	}
	return &SurrealStore{client: client}, nil
}

func (s *SurrealStore) Add(text string, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector")
	}

	_, err := s.client.Query(
		fmt.Sprintf("CREATE %s SET text = $text, embedding = $embedding;", chunkTable),
		map[string]interface{}{
			"text":      text,
			"embedding": vector,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to store chunk: %w", err)
	}
	return nil
}

func (s *SurrealStore) Search(queryVector []float32, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}

	rows, err := s.client.VectorSearch(chunkTable, "embedding", queryVector, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		m, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		if text, ok := m["text"].(string); ok {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// Reset drops all stored chunks so the sheet can be re-indexed.
func (s *SurrealStore) Reset() error {
	_, err := s.client.Query(fmt.Sprintf("DELETE %s;", chunkTable), nil)
	if err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	return nil
}
