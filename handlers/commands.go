package handlers

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/bot"
	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

// commandPermissions maps each command to the level it requires. Database
// maintenance commands are restricted to the server owner and the debug role.
var commandPermissions = map[string]string{
	"subscribe":                    "guest",
	"unsubscribe":                  "guest",
	"list_subscriptions":           "guest",
	"set_button_visibility":        "guest",
	"get_button_visibility":        "guest",
	"subscribe_forum":              "guest",
	"subscribe_forum_individual":   "guest",
	"unsubscribe_forum":            "guest",
	"unsubscribe_forum_individual": "guest",
	"list_forum_subscriptions":     "guest",
	"manage_flairs":                "guest",
	"check_database":               "debug",
	"vacuum_database":              "debug",
	"database_stats":               "debug",
}

// CommandDispatcher is the central handler for all application command interactions.
// It performs permission checks and then dispatches the interaction to the appropriate handler.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	auth := utils.NewAuth()

	commandName := i.ApplicationCommandData().Name
	requiredLevel, ok := commandPermissions[commandName]

	if ok {
		if !auth.CheckPermission(s, i, requiredLevel) {
			s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "You do not have permission to use this command.",
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
			return
		}
	}

	switch commandName {
	case "subscribe":
		HandleSubscribe(b, s, i)
	case "unsubscribe":
		HandleUnsubscribe(b, s, i)
	case "list_subscriptions":
		HandleListSubscriptions(b, s, i)
	case "set_button_visibility":
		HandleSetButtonVisibility(b, s, i)
	case "get_button_visibility":
		HandleGetButtonVisibility(b, s, i)
	case "subscribe_forum":
		HandleSubscribeForum(b, s, i)
	case "subscribe_forum_individual":
		HandleSubscribeForumIndividual(b, s, i)
	case "unsubscribe_forum":
		HandleUnsubscribeForum(b, s, i)
	case "unsubscribe_forum_individual":
		HandleUnsubscribeForumIndividual(b, s, i)
	case "list_forum_subscriptions":
		HandleListForumSubscriptions(b, s, i)
	case "manage_flairs":
		HandleManageFlairs(b, s, i)
	case "check_database":
		HandleCheckDatabase(b, s, i)
	case "vacuum_database":
		HandleVacuumDatabase(b, s, i)
	case "database_stats":
		HandleDatabaseStats(b, s, i)
	default:
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Unknown command.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}
}
