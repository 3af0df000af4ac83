package rag

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Store holds embedded chunks and finds the nearest ones to a query
// vector. The default backend is in-process; a SurrealDB backend is
// available for deployments that want the index outside the process.
type Store interface {
	Add(text string, vector []float32) error
	Search(queryVector []float32, limit int) ([]string, error)
}

type memoryItem struct {
	text   string
	vector []float32
}

// MemoryStore is an in-process cosine-similarity store. The character
// sheet produces a handful of chunks, so a linear scan is plenty.
type MemoryStore struct {
	mu    sync.RWMutex
	items []memoryItem
	dim   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(text string, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(vector)
	} else if len(vector) != s.dim {
		return fmt.Errorf("vector dimension %d does not match store dimension %d", len(vector), s.dim)
	}

	s.items = append(s.items, memoryItem{text: text, vector: vector})
	return nil
}

func (s *MemoryStore) Search(queryVector []float32, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.items) == 0 {
		return nil, nil
	}
	if len(queryVector) != s.dim {
		return nil, fmt.Errorf("query dimension %d does not match store dimension %d", len(queryVector), s.dim)
	}
	if limit <= 0 {
		limit = 3
	}

	type scored struct {
		text  string
		score float64
	}
	results := make([]scored, 0, len(s.items))
	for _, item := range s.items {
		results = append(results, scored{item.text, cosineSimilarity(queryVector, item.vector)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if limit > len(results) {
		limit = len(results)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = results[i].text
	}
	return out, nil
}

// Len returns the number of stored chunks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
