package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"sous-chef/backend/internal/constants"
)

// sendLongMessage splits a message into chunks if it exceeds Discord's
// character limit. A long list of recipe steps can go well past the limit.
func (h *Handler) sendLongMessage(s *discordgo.Session, channelID, content string) {
	maxLength := constants.DiscordMaxMessageLength

	if len(content) <= maxLength {
		if _, err := s.ChannelMessageSend(channelID, content); err != nil {
			h.logger.Error("Failed to send message",
				zap.Error(err),
				zap.String("channel_id", channelID),
			)
		}
		return
	}

	// Reserve space for the part indicator, "*(Part X/Y)*" plus a newline
	const partIndicatorReserve = 20
	chunks := splitMessage(content, maxLength-partIndicatorReserve)

	for i, chunk := range chunks {
		message := chunk
		if len(chunks) > 1 {
			message = chunk + "\n" + fmt.Sprintf("*(Part %d/%d)*", i+1, len(chunks))
		}

		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			h.logger.Error("Failed to send message chunk",
				zap.Error(err),
				zap.String("channel_id", channelID),
				zap.Int("chunk", i+1),
				zap.Int("total_chunks", len(chunks)),
			)
			break
		}

		// Brief pause between chunks to avoid rate limiting
		if i < len(chunks)-1 {
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// splitMessage splits content into chunks of at most maxLength, preferring
// line boundaries so numbered steps stay intact.
func splitMessage(content string, maxLength int) []string {
	if len(content) <= maxLength {
		return []string{content}
	}

	var chunks []string
	current := ""

	for _, line := range strings.Split(content, "\n") {
		// A single oversized line is cut at word boundaries
		for len(line) > maxLength {
			splitIdx := strings.LastIndex(line[:maxLength], " ")
			if splitIdx < maxLength/2 {
				splitIdx = maxLength
			}
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			chunks = append(chunks, line[:splitIdx])
			line = strings.TrimLeft(line[splitIdx:], " ")
		}

		if current == "" {
			current = line
			continue
		}
		if len(current)+1+len(line) > maxLength {
			chunks = append(chunks, current)
			current = line
			continue
		}
		current += "\n" + line
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
