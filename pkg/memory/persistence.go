package memory

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"kaede/pkg/cache"
	"kaede/pkg/llm"
)

const persistTimeout = 3 * time.Second

// Persistence keeps the recent chat history in a Redis list so a
// restart does not reset the conversation. Failures are logged and
// swallowed; the in-memory history is the source of truth.
type Persistence struct {
	cache *cache.Cache
	key   string
}

func NewPersistence(c *cache.Cache, sessionID string) *Persistence {
	return &Persistence{
		cache: c,
		key:   c.Key("history", sessionID),
	}
}

func (p *Persistence) SaveMessage(msg llm.Message, maxHistory int) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal history message: %v", err)
		return
	}
	if err := p.cache.LPush(ctx, p.key, string(data)); err != nil {
		log.Printf("Failed to persist history message: %v", err)
		return
	}
	if err := p.cache.LTrim(ctx, p.key, 0, int64(maxHistory)-1); err != nil {
		log.Printf("Failed to trim history: %v", err)
	}
	if err := p.cache.Expire(ctx, p.key, cache.RecentMessagesTTL); err != nil {
		log.Printf("Failed to set history TTL: %v", err)
	}
}

// LoadMessages returns up to maxHistory persisted messages, oldest
// first. The list is stored newest first, so the order is reversed.
func (p *Persistence) LoadMessages(maxHistory int) []llm.Message {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	raw, err := p.cache.LRange(ctx, p.key, 0, int64(maxHistory)-1)
	if err != nil {
		log.Printf("Failed to load persisted history: %v", err)
		return nil
	}

	msgs := make([]llm.Message, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var msg llm.Message
		if err := json.Unmarshal([]byte(raw[i]), &msg); err != nil {
			log.Printf("Skipping corrupt history entry: %v", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func (p *Persistence) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := p.cache.Delete(ctx, p.key); err != nil {
		log.Printf("Failed to clear persisted history: %v", err)
	}
}
