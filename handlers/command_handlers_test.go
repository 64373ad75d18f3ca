package handlers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
)

func TestNormalizeSubreddit(t *testing.T) {
	assert.Equal(t, "golang", normalizeSubreddit("golang"))
	assert.Equal(t, "golang", normalizeSubreddit("r/golang"))
	assert.Equal(t, "golang", normalizeSubreddit("/r/golang"))
	assert.Equal(t, "golang", normalizeSubreddit("  r/golang  "))
	assert.Equal(t, "", normalizeSubreddit("   "))
}

func TestSplitMessage_ShortContent(t *testing.T) {
	chunks := splitMessage("hello", 2000)
	assert.Equal(t, []string{"hello"}, chunks)
}

func TestSplitMessage_BreaksOnLines(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf("- r/subreddit_number_%02d", i))
	}
	content := strings.Join(lines, "\n")

	chunks := splitMessage(content, 200)
	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200)
	}
	assert.Equal(t, content, strings.Join(chunks, "\n"))
}

func TestSplitMessage_KeepsLineTogether(t *testing.T) {
	chunks := splitMessage("first line\nsecond line", 2000)
	assert.Equal(t, []string{"first line\nsecond line"}, chunks)
}

func TestSubredditErrorMessage_NotFound(t *testing.T) {
	err := &reddit.APIError{StatusCode: 404, Message: "Not Found"}
	assert.Equal(t, "r/missing does not exist or is not accessible.", subredditErrorMessage("missing", err))
}

func TestSubredditErrorMessage_Forbidden(t *testing.T) {
	err := &reddit.APIError{StatusCode: 403, Message: "Forbidden"}
	assert.Equal(t, "r/private does not exist or is not accessible.", subredditErrorMessage("private", err))
}

func TestSubredditErrorMessage_WrappedAPIError(t *testing.T) {
	err := fmt.Errorf("fetching listing: %w", &reddit.APIError{StatusCode: 404, Message: "Not Found"})
	assert.Equal(t, "r/gone does not exist or is not accessible.", subredditErrorMessage("gone", err))
}

func TestSubredditErrorMessage_Transient(t *testing.T) {
	serverErr := &reddit.APIError{StatusCode: 503, Message: "Service Unavailable"}
	assert.Equal(t, "Could not reach Reddit to verify r/golang. Please try again later.",
		subredditErrorMessage("golang", serverErr))
	assert.Equal(t, "Could not reach Reddit to verify r/golang. Please try again later.",
		subredditErrorMessage("golang", fmt.Errorf("connection refused")))
}

func TestCommandOptions(t *testing.T) {
	i := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "subscribe",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "subreddit", Type: discordgo.ApplicationCommandOptionString, Value: "golang"},
				},
			},
		},
	}

	optionMap := commandOptions(i)
	assert.Len(t, optionMap, 1)
	assert.Equal(t, "golang", optionMap["subreddit"].StringValue())
}
