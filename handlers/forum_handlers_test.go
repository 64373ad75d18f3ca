package handlers

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestClampFlairs(t *testing.T) {
	assert.Equal(t, 1, clampFlairs(0))
	assert.Equal(t, 1, clampFlairs(-5))
	assert.Equal(t, 10, clampFlairs(10))
	assert.Equal(t, 20, clampFlairs(20))
	assert.Equal(t, 20, clampFlairs(50))
}

func TestSplitFlairList(t *testing.T) {
	assert.Equal(t, []string{"OC", "Meta", "News"}, splitFlairList("OC, Meta ,,News"))
	assert.Nil(t, splitFlairList(""))
	assert.Nil(t, splitFlairList(" , "))
}

func TestContainsFold(t *testing.T) {
	flairs := []string{"OC", "Meta"}
	assert.True(t, containsFold(flairs, "oc"))
	assert.True(t, containsFold(flairs, "META"))
	assert.False(t, containsFold(flairs, "News"))
}

func TestRemoveFold(t *testing.T) {
	flairs := []string{"OC", "Meta", "News"}
	assert.Equal(t, []string{"OC", "News"}, removeFold(flairs, "meta"))
	assert.Equal(t, []string{"OC", "News"}, removeFold([]string{"OC", "News"}, "missing"))
}

func TestFlairSettingsFromOptions_Defaults(t *testing.T) {
	settings := flairSettingsFromOptions("forum-1", nil)
	assert.Equal(t, "forum-1", settings.ChannelID)
	assert.Equal(t, 20, settings.MaxFlairs)
	assert.True(t, settings.FlairEnabled)
	assert.Empty(t, settings.BlacklistedFlairs)
}

func TestFlairSettingsFromOptions_Explicit(t *testing.T) {
	optionMap := map[string]*discordgo.ApplicationCommandInteractionDataOption{
		"enable_flairs":      {Name: "enable_flairs", Type: discordgo.ApplicationCommandOptionBoolean, Value: false},
		"max_flairs":         {Name: "max_flairs", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(50)},
		"blacklisted_flairs": {Name: "blacklisted_flairs", Type: discordgo.ApplicationCommandOptionString, Value: "OC, Spoiler"},
	}

	settings := flairSettingsFromOptions("forum-2", optionMap)
	assert.False(t, settings.FlairEnabled)
	assert.Equal(t, 20, settings.MaxFlairs)
	assert.Equal(t, []string{"OC", "Spoiler"}, settings.BlacklistedFlairs)
}
