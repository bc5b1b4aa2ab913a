package main

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestMessageFiltering(t *testing.T) {
	botUserID := "bot-123"
	otherUserID := "user-456"

	tests := []struct {
		name        string
		message     *discordgo.MessageCreate
		shouldReact bool
	}{
		{
			name: "Bot's own message - should ignore",
			message: &discordgo.MessageCreate{
				Message: &discordgo.Message{
					Author:  &discordgo.User{ID: botUserID},
					Content: "pasta",
				},
			},
			shouldReact: false,
		},
		{
			name: "Other bot's message - should ignore",
			message: &discordgo.MessageCreate{
				Message: &discordgo.Message{
					Author:  &discordgo.User{ID: otherUserID, Bot: true},
					Content: "pasta",
					GuildID: "",
				},
			},
			shouldReact: false,
		},
		{
			name: "DM message - should react",
			message: &discordgo.MessageCreate{
				Message: &discordgo.Message{
					Author:  &discordgo.User{ID: otherUserID},
					Content: "pasta",
					GuildID: "",
				},
			},
			shouldReact: true,
		},
		{
			name: "Guild message without mention - should ignore",
			message: &discordgo.MessageCreate{
				Message: &discordgo.Message{
					Author:  &discordgo.User{ID: otherUserID},
					Content: "pasta",
					GuildID: "guild-789",
				},
			},
			shouldReact: false,
		},
		{
			name: "Guild message with mention - should react",
			message: &discordgo.MessageCreate{
				Message: &discordgo.Message{
					Author:   &discordgo.User{ID: otherUserID},
					Content:  "<@bot-123> pasta",
					GuildID:  "guild-789",
					Mentions: []*discordgo.User{{ID: botUserID}},
				},
			},
			shouldReact: true,
		},
		{
			name: "Empty DM - should ignore",
			message: &discordgo.MessageCreate{
				Message: &discordgo.Message{
					Author:  &discordgo.User{ID: otherUserID},
					Content: "   ",
					GuildID: "",
				},
			},
			shouldReact: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.message

			reacts := true
			if m.Author.ID == botUserID || m.Author.Bot {
				reacts = false
			}

			isDM := m.GuildID == ""
			isMentioned := false
			for _, mention := range m.Mentions {
				if mention.ID == botUserID {
					isMentioned = true
				}
			}
			if !isDM && !isMentioned {
				reacts = false
			}
			if strings.TrimSpace(m.Content) == "" {
				reacts = false
			}

			assert.Equal(t, tt.shouldReact, reacts)
		})
	}
}
