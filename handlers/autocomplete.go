package handlers

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/bot"
	"github.com/Trai60/Reddit-to-Discord-Bot/database"
)

// maxAutocompleteChoices is the upper bound Discord accepts per response.
const maxAutocompleteChoices = 25

// HandleAutocomplete handles all autocomplete interactions.
func HandleAutocomplete(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case "unsubscribe", "unsubscribe_forum", "unsubscribe_forum_individual":
		for _, opt := range data.Options {
			if opt.Name == "subreddit" && opt.Focused {
				handleSubredditAutocomplete(b, s, i, data.Name, opt.StringValue())
			}
		}
	}
}

// subscribedSubreddits collects the distinct subreddits known to the
// subscription table backing the given command.
func subscribedSubreddits(b *bot.Bot, command string) ([]string, error) {
	var names []string
	seen := make(map[string]bool)

	add := func(subreddit string) {
		key := strings.ToLower(subreddit)
		if !seen[key] {
			seen[key] = true
			names = append(names, subreddit)
		}
	}

	switch command {
	case "unsubscribe_forum":
		subs, err := database.GetAllForumSubscriptions(b.DB)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			add(sub.Subreddit)
		}
	case "unsubscribe_forum_individual":
		subs, err := database.GetAllIndividualForumSubscriptions(b.DB)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			add(sub.Subreddit)
		}
	default:
		subs, err := database.GetAllSubscriptions(b.DB)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			add(sub.Subreddit)
		}
	}

	return names, nil
}

func handleSubredditAutocomplete(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, command, typed string) {
	names, err := subscribedSubreddits(b, command)
	if err != nil {
		slog.Warn("failed to load subreddits for autocomplete", "command", command, "error", err)
		return
	}

	prefix := strings.ToLower(normalizeSubreddit(typed))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxAutocompleteChoices)
	for _, name := range names {
		if prefix != "" && !strings.HasPrefix(strings.ToLower(name), prefix) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  "r/" + name,
			Value: name,
		})
		if len(choices) == maxAutocompleteChoices {
			break
		}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
	if err != nil {
		slog.Warn("failed to respond to autocomplete interaction", "error", err)
	}
}
