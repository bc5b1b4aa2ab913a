package discord

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage(t *testing.T) {
	t.Run("short content stays whole", func(t *testing.T) {
		chunks := splitMessage("hello", 100)
		assert.Equal(t, []string{"hello"}, chunks)
	})

	t.Run("splits at line boundaries", func(t *testing.T) {
		var lines []string
		for i := 1; i <= 40; i++ {
			lines = append(lines, fmt.Sprintf("**Step %d**: stir the pot for a while", i))
		}
		content := strings.Join(lines, "\n")

		chunks := splitMessage(content, 200)
		require.Greater(t, len(chunks), 1)

		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), 200)
			// Every chunk starts at a step boundary, no step is torn apart
			assert.True(t, strings.HasPrefix(chunk, "**Step "))
		}
		assert.Equal(t, content, strings.Join(chunks, "\n"))
	})

	t.Run("oversized single line is cut at word boundaries", func(t *testing.T) {
		content := strings.Repeat("chop the onions finely ", 30)

		chunks := splitMessage(content, 100)
		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), 100)
			assert.NotEmpty(t, chunk)
		}
	})

	t.Run("unbreakable run is hard cut", func(t *testing.T) {
		content := strings.Repeat("a", 250)

		chunks := splitMessage(content, 100)
		require.Len(t, chunks, 3)
		assert.Equal(t, 100, len(chunks[0]))
		assert.Equal(t, 100, len(chunks[1]))
		assert.Equal(t, 50, len(chunks[2]))
	})
}
