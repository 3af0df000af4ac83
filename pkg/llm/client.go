package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelConfig defines a model ID and its completion budget for the
// prioritized fallback list.
type ModelConfig struct {
	ID        string
	MaxTokens int
}

// KeyState tracks the health of an API key.
type KeyState struct {
	Key          string
	FailureCount int
	LastUsed     time.Time
	LastSuccess  time.Time
}

type Client struct {
	keys        []*KeyState
	keyMu       sync.RWMutex
	clients     map[string]openai.Client
	clientsMu   sync.RWMutex
	baseURL     string
	temperature float64
	topP        float64
	models      []ModelConfig
	timeout     time.Duration
}

// NewClient creates a client with support for multiple API keys
// (comma-separated). Keys are rotated based on failure count, least
// failures first. An empty baseURL targets the OpenAI API.
func NewClient(apiKeys, baseURL, model string, temperature, topP float64) *Client {
	keyStrings := strings.Split(apiKeys, ",")
	keys := make([]*KeyState, 0, len(keyStrings))
	for _, k := range keyStrings {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, &KeyState{Key: k})
		}
	}

	if len(keys) == 0 {
		log.Println("Warning: No LLM API keys provided")
	} else {
		log.Printf("Loaded %d LLM API key(s)", len(keys))
	}

	return &Client{
		keys:        keys,
		clients:     make(map[string]openai.Client),
		baseURL:     baseURL,
		temperature: temperature,
		topP:        topP,
		models: []ModelConfig{
			{ID: model, MaxTokens: 4096},
		},
		timeout: 120 * time.Second,
	}
}

// SetFallbackModels appends models tried in order when the primary fails.
func (c *Client) SetFallbackModels(models []ModelConfig) {
	c.models = append(c.models[:1], models...)
}

func (c *Client) getClient(key string) openai.Client {
	c.clientsMu.RLock()
	if client, ok := c.clients[key]; ok {
		c.clientsMu.RUnlock()
		return client
	}
	c.clientsMu.RUnlock()

	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()

	// Retries are handled by our own key/model fallback, not the SDK.
	opts := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)
	c.clients[key] = client
	return client
}

func (c *Client) getBestKey() *KeyState {
	c.keyMu.RLock()
	defer c.keyMu.RUnlock()

	if len(c.keys) == 0 {
		return nil
	}

	best := c.keys[0]
	for _, k := range c.keys[1:] {
		if k.FailureCount < best.FailureCount {
			best = k
		}
	}
	return best
}

func (c *Client) recordSuccess(key *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	key.LastSuccess = time.Now()
	key.LastUsed = time.Now()
	if key.FailureCount > 0 {
		key.FailureCount--
	}
}

func (c *Client) recordFailure(key *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	key.FailureCount++
	key.LastUsed = time.Now()
}

func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	chatMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			chatMessages[i] = openai.SystemMessage(msg.Content)
		case "assistant":
			chatMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			chatMessages[i] = openai.UserMessage(msg.Content)
		}
	}
	return chatMessages
}

// ChatCompletion sends the messages to the first healthy model/key
// combination and returns the assistant's reply.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	keyState := c.getBestKey()
	if keyState == nil {
		return "", fmt.Errorf("no API keys configured")
	}

	var lastErr error
	for _, modelConf := range c.models {
		client := c.getClient(keyState.Key)

		params := openai.ChatCompletionNewParams{
			Model:       shared.ChatModel(modelConf.ID),
			Messages:    toParams(messages),
			Temperature: openai.Float(c.temperature),
			TopP:        openai.Float(c.topP),
			MaxTokens:   openai.Int(int64(modelConf.MaxTokens)),
		}

		resp, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			log.Printf("Model %s error: %v", modelConf.ID, err)
			lastErr = err
			c.recordFailure(keyState)
			if next := c.getBestKey(); next != nil && next != keyState {
				keyState = next
			}
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty response from %s", modelConf.ID)
			continue
		}

		c.recordSuccess(keyState)
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("all models failed: %w", lastErr)
}

// Completion is a convenience wrapper for one system + one user message.
func (c *Client) Completion(ctx context.Context, system, user string) (string, error) {
	return c.ChatCompletion(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
}
