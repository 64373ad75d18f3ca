package publisher

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

// button returns a link button for the label, or nil when the label has been
// toggled off. Labels missing from the visibility map default to visible.
func button(label, rawURL string, visibility map[string]bool) *discordgo.Button {
	if visible, ok := visibility[label]; ok && !visible {
		return nil
	}
	return &discordgo.Button{
		Label: label,
		Style: discordgo.LinkButton,
		URL:   utils.EnsureValidURL(rawURL),
	}
}

// buttonRow packs the non-nil buttons into a single action row. It returns
// nil when every button was hidden, so the message goes out bare.
func buttonRow(buttons ...*discordgo.Button) []discordgo.MessageComponent {
	row := discordgo.ActionsRow{}
	for _, b := range buttons {
		if b == nil {
			continue
		}
		row.Components = append(row.Components, *b)
	}

	if len(row.Components) == 0 {
		return nil
	}
	return []discordgo.MessageComponent{row}
}
