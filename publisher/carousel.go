package publisher

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// attachmentLimit is Discord's cap on files per message.
const attachmentLimit = 10

// sendImages splits oversized GIFs from uploadable images and delivers both.
// Oversized GIFs embed by URL individually, everything else is re-uploaded in
// attachment batches. The buttons ride the last message sent.
func (p *Publisher) sendImages(channelID string, imageURLs []string, buttons ...*discordgo.Button) error {
	var oversized, remaining []string
	for _, imageURL := range imageURLs {
		if strings.HasSuffix(strings.ToLower(stripQuery(imageURL)), ".gif") {
			if size, err := p.contentLength(imageURL); err == nil && size > maxUploadSize {
				oversized = append(oversized, imageURL)
				continue
			}
		}
		remaining = append(remaining, imageURL)
	}

	for i, gifURL := range oversized {
		var components []discordgo.MessageComponent
		if i == len(oversized)-1 && len(remaining) == 0 {
			components = buttonRow(buttons...)
		}
		if err := p.sendOversizedGIF(channelID, gifURL, components); err != nil {
			return err
		}
	}

	if len(remaining) == 0 {
		return nil
	}
	return p.sendImageCarousel(channelID, remaining, buttonRow(buttons...))
}

// sendImageCarousel downloads the images and posts them as attachment batches
// of up to ten, attaching the components to the final batch. Images that fail
// to fetch or exceed the ceiling are dropped.
func (p *Publisher) sendImageCarousel(channelID string, imageURLs []string, components []discordgo.MessageComponent) error {
	var files []*discordgo.File
	for _, imageURL := range imageURLs {
		fetchURL := strings.ReplaceAll(imageURL, "preview.redd.it", "i.redd.it")

		data, err := p.download(fetchURL)
		if err != nil {
			slog.Info("skipping carousel image", "url", fetchURL, "error", err)
			continue
		}

		files = append(files, &discordgo.File{
			Name:   "image." + fileExtension(fetchURL),
			Reader: bytes.NewReader(data),
		})
	}

	for i := 0; i < len(files); i += attachmentLimit {
		end := min(i+attachmentLimit, len(files))
		message := &discordgo.MessageSend{Files: files[i:end]}
		if end == len(files) {
			message.Components = components
		}
		if err := p.send(channelID, message); err != nil {
			return err
		}
	}
	return nil
}

// sendOversizedGIF embeds a GIF by URL because it is too large to re-upload.
// If Discord rejects the embed, a second attempt carries the link as a field.
func (p *Publisher) sendOversizedGIF(channelID, gifURL string, components []discordgo.MessageComponent) error {
	embed := &discordgo.MessageEmbed{
		Color: colorGreen,
		Image: &discordgo.MessageEmbedImage{URL: gifURL},
	}

	err := p.send(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err == nil {
		return nil
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Oversized GIF",
		Value: "This GIF may have exceeded the upload size limit, but should be viewable via this link if the direct embed does not work:\n" + gifURL,
	})
	return p.send(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
}
