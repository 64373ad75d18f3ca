package command

import "github.com/bwmarrin/discordgo"

// SubscribeCommand defines the structure for the /subscribe command.
type SubscribeCommand struct{}

// Definition returns the application command definition.
func (c *SubscribeCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "subscribe",
		Description: "Subscribe to a subreddit for a specific channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "subreddit",
				Description: "The name of the subreddit to subscribe to",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
			{
				Name:        "channel",
				Description: "The channel to post updates in",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildText,
				},
			},
		},
	}
}

// UnsubscribeCommand defines the structure for the /unsubscribe command.
type UnsubscribeCommand struct{}

// Definition returns the application command definition.
func (c *UnsubscribeCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "unsubscribe",
		Description: "Unsubscribe from a subreddit for a specific channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:         "subreddit",
				Description:  "The name of the subreddit to unsubscribe from",
				Type:         discordgo.ApplicationCommandOptionString,
				Required:     true,
				Autocomplete: true,
			},
			{
				Name:        "channel",
				Description: "The channel to unsubscribe from",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildText,
				},
			},
		},
	}
}

// ListSubscriptionsCommand defines the structure for the /list_subscriptions command.
type ListSubscriptionsCommand struct{}

// Definition returns the application command definition.
func (c *ListSubscriptionsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "list_subscriptions",
		Description: "List all subreddit subscriptions",
	}
}

// SetButtonVisibilityCommand defines the structure for the /set_button_visibility command.
type SetButtonVisibilityCommand struct{}

// Definition returns the application command definition.
func (c *SetButtonVisibilityCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "set_button_visibility",
		Description: "Set visibility for message buttons",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "button",
				Description: "The button to set visibility for",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "All Buttons", Value: "all"},
					{Name: "Reddit Post", Value: "Reddit Post"},
					{Name: "Watch Video", Value: "Watch Video"},
					{Name: "RedGIFs", Value: "RedGIFs"},
					{Name: "YouTube Link", Value: "YouTube Link"},
					{Name: "Image Gallery", Value: "Image Gallery"},
					{Name: "Web Link", Value: "Web Link"},
				},
			},
			{
				Name:        "visible",
				Description: "Whether the button should be visible or not",
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Required:    true,
			},
		},
	}
}

// GetButtonVisibilityCommand defines the structure for the /get_button_visibility command.
type GetButtonVisibilityCommand struct{}

// Definition returns the application command definition.
func (c *GetButtonVisibilityCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "get_button_visibility",
		Description: "Get current visibility settings for message buttons",
	}
}

// SubscribeForumCommand defines the structure for the /subscribe_forum command.
type SubscribeForumCommand struct{}

// Definition returns the application command definition.
func (c *SubscribeForumCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "subscribe_forum",
		Description: "Subscribe to a subreddit and post updates to a forum thread",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "subreddit",
				Description: "The subreddit to subscribe to",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
			{
				Name:        "forum",
				Description: "The forum channel to post updates in",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildForum,
				},
			},
			{
				Name:        "thread",
				Description: "The thread to post updates in (optional)",
				Type:        discordgo.ApplicationCommandOptionChannel,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildPublicThread,
				},
			},
			{
				Name:        "enable_flairs",
				Description: "Enable or disable flair creation (default: True)",
				Type:        discordgo.ApplicationCommandOptionBoolean,
			},
			{
				Name:        "max_flairs",
				Description: "Maximum number of flairs to create (default: 20)",
				Type:        discordgo.ApplicationCommandOptionInteger,
			},
			{
				Name:        "blacklisted_flairs",
				Description: "Comma-separated list of flairs to blacklist (optional)",
				Type:        discordgo.ApplicationCommandOptionString,
			},
		},
	}
}

// SubscribeForumIndividualCommand defines the structure for the
// /subscribe_forum_individual command.
type SubscribeForumIndividualCommand struct{}

// Definition returns the application command definition.
func (c *SubscribeForumIndividualCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "subscribe_forum_individual",
		Description: "Subscribe to a subreddit and create individual threads for each new post",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "subreddit",
				Description: "The name of the subreddit to subscribe to",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
			{
				Name:        "forum",
				Description: "The forum channel to create threads in",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildForum,
				},
			},
			{
				Name:        "enable_flairs",
				Description: "Enable flair-to-tag conversion (default: True)",
				Type:        discordgo.ApplicationCommandOptionBoolean,
			},
			{
				Name:        "max_flairs",
				Description: "Maximum number of flairs to convert to tags (1-20, default: 20)",
				Type:        discordgo.ApplicationCommandOptionInteger,
			},
			{
				Name:        "blacklisted_flairs",
				Description: "Comma-separated list of flairs to blacklist (optional)",
				Type:        discordgo.ApplicationCommandOptionString,
			},
		},
	}
}

// UnsubscribeForumCommand defines the structure for the /unsubscribe_forum command.
type UnsubscribeForumCommand struct{}

// Definition returns the application command definition.
func (c *UnsubscribeForumCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "unsubscribe_forum",
		Description: "Unsubscribe from a subreddit for a specific forum thread",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:         "subreddit",
				Description:  "The name of the subreddit to unsubscribe from",
				Type:         discordgo.ApplicationCommandOptionString,
				Required:     true,
				Autocomplete: true,
			},
			{
				Name:        "forum",
				Description: "The forum channel to unsubscribe from",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildForum,
				},
			},
			{
				Name:        "thread",
				Description: "The thread to unsubscribe from",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildPublicThread,
				},
			},
		},
	}
}

// UnsubscribeForumIndividualCommand defines the structure for the
// /unsubscribe_forum_individual command.
type UnsubscribeForumIndividualCommand struct{}

// Definition returns the application command definition.
func (c *UnsubscribeForumIndividualCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "unsubscribe_forum_individual",
		Description: "Unsubscribe from a subreddit that creates individual threads for each new post",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:         "subreddit",
				Description:  "The name of the subreddit to unsubscribe from",
				Type:         discordgo.ApplicationCommandOptionString,
				Required:     true,
				Autocomplete: true,
			},
			{
				Name:        "forum",
				Description: "The forum channel to unsubscribe from",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildForum,
				},
			},
		},
	}
}

// ListForumSubscriptionsCommand defines the structure for the
// /list_forum_subscriptions command.
type ListForumSubscriptionsCommand struct{}

// Definition returns the application command definition.
func (c *ListForumSubscriptionsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "list_forum_subscriptions",
		Description: "List all forum subreddit subscriptions",
	}
}

// ManageFlairsCommand defines the structure for the /manage_flairs command.
type ManageFlairsCommand struct{}

// Definition returns the application command definition.
func (c *ManageFlairsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "manage_flairs",
		Description: "Manage flair settings for a forum",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "forum",
				Description: "The forum channel to manage flair settings for",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildForum,
				},
			},
			{
				Name:        "enable_flairs",
				Description: "Enable or disable flair-to-tag conversion",
				Type:        discordgo.ApplicationCommandOptionBoolean,
			},
			{
				Name:        "max_flairs",
				Description: "Maximum number of flairs to convert to tags (1-20)",
				Type:        discordgo.ApplicationCommandOptionInteger,
			},
			{
				Name:        "add_blacklist",
				Description: "Add a flair to the blacklist (comma-separated for multiple)",
				Type:        discordgo.ApplicationCommandOptionString,
			},
			{
				Name:        "remove_blacklist",
				Description: "Remove a flair from the blacklist (comma-separated for multiple)",
				Type:        discordgo.ApplicationCommandOptionString,
			},
		},
	}
}

// CheckDatabaseCommand defines the structure for the /check_database command.
type CheckDatabaseCommand struct{}

// Definition returns the application command definition.
func (c *CheckDatabaseCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "check_database",
		Description: "Check the integrity of the database",
	}
}

// VacuumDatabaseCommand defines the structure for the /vacuum_database command.
type VacuumDatabaseCommand struct{}

// Definition returns the application command definition.
func (c *VacuumDatabaseCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "vacuum_database",
		Description: "Perform VACUUM on the database",
	}
}

// DatabaseStatsCommand defines the structure for the /database_stats command.
type DatabaseStatsCommand struct{}

// Definition returns the application command definition.
func (c *DatabaseStatsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "database_stats",
		Description: "Show row counts and the size of the database file",
	}
}
