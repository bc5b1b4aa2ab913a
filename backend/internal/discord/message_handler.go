package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// TurnHandler runs one dialogue turn and returns the reply text. Internal
// failures still produce a user-facing reply.
type TurnHandler interface {
	HandleTurn(ctx context.Context, userID, text string) (string, error)
}

// Handler handles Discord message processing
type Handler struct {
	turns  TurnHandler
	logger *zap.Logger
}

// NewHandler creates a new Discord message handler
func NewHandler(turns TurnHandler, logger *zap.Logger) *Handler {
	return &Handler{
		turns:  turns,
		logger: logger,
	}
}

// HandleMessage processes a Discord message
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore messages from the bot itself and from other bots
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	// Check if message is a DM or mentions the bot
	isDM := m.GuildID == ""
	isMentioned := false

	for _, mention := range m.Mentions {
		if mention.ID == s.State.User.ID {
			isMentioned = true
			break
		}
	}

	// Strip a leading bot mention so the dialogue service sees clean text
	content := strings.TrimSpace(m.Content)
	for _, prefix := range []string{"<@" + s.State.User.ID + ">", "<@!" + s.State.User.ID + ">"} {
		if strings.HasPrefix(content, prefix) {
			isMentioned = true
			content = strings.TrimSpace(strings.TrimPrefix(content, prefix))
		}
	}

	// Only respond to DMs or mentions
	if !isDM && !isMentioned {
		return
	}

	if content == "" {
		return
	}

	h.logger.Info("Processing Discord message",
		zap.String("user_id", m.Author.ID),
		zap.String("channel_id", m.ChannelID),
		zap.Bool("is_dm", isDM),
	)

	ctx := context.Background()

	reply, err := h.turns.HandleTurn(ctx, m.Author.ID, content)
	if err != nil {
		// The turn handler already resolved the failure into reply text;
		// the error is logged here with transport context only.
		h.logger.Error("Turn failed",
			zap.String("user_id", m.Author.ID),
			zap.String("channel_id", m.ChannelID),
			zap.Error(err),
		)
	}

	if reply == "" {
		return
	}

	h.sendLongMessage(s, m.ChannelID, reply)
}
