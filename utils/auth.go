package utils

import (
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Auth answers permission checks for commands.
type Auth struct {
	debugRoleName string
}

// NewAuth creates an Auth using the configured debug role name.
func NewAuth() *Auth {
	roleName := viper.GetString("bot.debugRoleName")
	if roleName == "" {
		roleName = "Debug"
	}
	return &Auth{debugRoleName: roleName}
}

func (a *Auth) guild(s *discordgo.Session, guildID string) (*discordgo.Guild, error) {
	guild, err := s.State.Guild(guildID)
	if err == nil {
		return guild, nil
	}
	return s.Guild(guildID)
}

// IsServerOwner checks if the invoking member owns the guild.
func (a *Auth) IsServerOwner(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil || i.Member.User == nil {
		return false
	}

	guild, err := a.guild(s, i.GuildID)
	if err != nil {
		return false
	}
	return guild.OwnerID == i.Member.User.ID
}

// HasDebugRole checks if the invoking member carries the debug role.
func (a *Auth) HasDebugRole(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}

	guild, err := a.guild(s, i.GuildID)
	if err != nil {
		return false
	}

	debugRoles := make(map[string]bool)
	for _, role := range guild.Roles {
		if role.Name == a.debugRoleName {
			debugRoles[role.ID] = true
		}
	}

	for _, roleID := range i.Member.Roles {
		if debugRoles[roleID] {
			return true
		}
	}
	return false
}

// CheckPermission checks if the invoking member has the required permission
// level. Debug commands are open to the server owner and holders of the
// debug role only.
func (a *Auth) CheckPermission(s *discordgo.Session, i *discordgo.InteractionCreate, requiredLevel string) bool {
	switch requiredLevel {
	case "debug":
		return a.IsServerOwner(s, i) || a.HasDebugRole(s, i)
	case "guest":
		return true
	default:
		return false
	}
}
