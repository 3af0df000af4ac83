package discord

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	replyTimeout    = 2 * time.Minute
	maxMessageChars = 2000
)

// Session abstracts discordgo.Session for testing.
type Session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) (err error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// DiscordSession adapts discordgo.Session to the Session interface.
type DiscordSession struct {
	*discordgo.Session
}

func (s *DiscordSession) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return s.Session.Channel(channelID, options...)
}

// Responder produces an in-character reply to a user message.
type Responder interface {
	ProcessInput(ctx context.Context, userName, input string) (string, error)
}

// Handler routes Discord messages to the agent. The character replies
// in DMs and when mentioned; everything else is ignored.
type Handler struct {
	agent Responder
	botID string
}

func NewHandler(agent Responder, botID string) *Handler {
	return &Handler{agent: agent, botID: botID}
}

func (h *Handler) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	h.HandleMessage(&DiscordSession{s}, m)
}

func (h *Handler) HandleMessage(s Session, m *discordgo.MessageCreate) {
	// Ignore own messages and other bots
	if m.Author.ID == h.botID || m.Author.Bot {
		return
	}

	channel, err := s.Channel(m.ChannelID)
	isDM := err == nil && channel.Type == discordgo.ChannelTypeDM

	isMentioned := false
	for _, user := range m.Mentions {
		if user.ID == h.botID {
			isMentioned = true
			break
		}
	}

	if !isDM && !isMentioned {
		return
	}

	content := stripMention(m.Content, h.botID)
	if content == "" {
		return
	}

	displayName := m.Author.Username
	if m.Author.GlobalName != "" {
		displayName = m.Author.GlobalName
	}

	s.ChannelTyping(m.ChannelID)

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	reply, err := h.agent.ProcessInput(ctx, displayName, content)
	if err != nil {
		log.Printf("Failed to process message from %s: %v", displayName, err)
		return
	}

	h.sendSplitMessage(s, m.ChannelID, reply)
}

func stripMention(content, botID string) string {
	content = strings.ReplaceAll(content, "<@"+botID+">", "")
	content = strings.ReplaceAll(content, "<@!"+botID+">", "")
	return strings.TrimSpace(content)
}

// sendSplitMessage sends content in chunks under the Discord limit.
func (h *Handler) sendSplitMessage(s Session, channelID, content string) {
	runes := []rune(content)
	for len(runes) > 0 {
		end := min(maxMessageChars, len(runes))
		if _, err := s.ChannelMessageSend(channelID, string(runes[:end])); err != nil {
			log.Printf("Failed to send message: %v", err)
			return
		}
		runes = runes[end:]
	}
}
