package publisher

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/database"
	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

const (
	// forumTagLimit is Discord's cap on available tags per forum channel.
	forumTagLimit = 20

	// forumTagNameLimit is Discord's cap on a tag name's length.
	forumTagNameLimit = 20

	// appliedTagLimit is Discord's cap on tags applied to one thread.
	appliedTagLimit = 5
)

// PublishToNewThread opens a forum thread named after the submission and
// publishes the full message layout into it. When flair tagging is enabled
// for the forum, the thread is tagged after the submission's flair. Returns
// the new thread's ID.
func (p *Publisher) PublishToNewThread(post *reddit.Post, forumID string) (string, error) {
	tagIDs := p.flairTagIDs(post, forumID)
	if len(tagIDs) > appliedTagLimit {
		tagIDs = tagIDs[:appliedTagLimit]
	}

	starter := &discordgo.MessageSend{
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}
	if imageURL := p.primaryImageURL(post); imageURL != "" {
		starter.Content = imageURL
	} else {
		starter.Content = "New post from r/" + post.Subreddit
		starter.Embeds = []*discordgo.MessageEmbed{p.simpleEmbed(post)}
	}

	thread, err := p.session.ForumThreadStartComplex(forumID, &discordgo.ThreadStart{
		Name:        utils.Truncate(post.Title, threadNameLimit),
		AppliedTags: tagIDs,
	}, starter)
	if err != nil {
		return "", fmt.Errorf("failed to create thread in forum %s: %w", forumID, err)
	}

	if err := p.Publish(post, thread.ID); err != nil {
		return thread.ID, err
	}
	return thread.ID, nil
}

// flairTagIDs maps the submission's flair to a forum tag, creating the tag
// when the forum still has room. Failures only cost the tag, never the
// thread, so they are logged and swallowed.
func (p *Publisher) flairTagIDs(post *reddit.Post, forumID string) []string {
	flair := post.LinkFlairText
	if flair == "" {
		return nil
	}

	settings, err := database.GetFlairSettings(p.db, forumID)
	if err != nil {
		slog.Warn("failed to load flair settings", "forum_id", forumID, "error", err)
		return nil
	}
	if !settings.FlairEnabled {
		return nil
	}
	for _, blocked := range settings.BlacklistedFlairs {
		if strings.EqualFold(blocked, flair) {
			return nil
		}
	}

	// Tag names are capped at 20 characters.
	name := flair
	if runes := []rune(name); len(runes) > forumTagNameLimit {
		name = string(runes[:forumTagNameLimit])
	}

	channel, err := p.session.Channel(forumID)
	if err != nil {
		slog.Warn("failed to look up forum channel", "forum_id", forumID, "error", err)
		return nil
	}

	for _, tag := range channel.AvailableTags {
		if strings.EqualFold(tag.Name, name) {
			return []string{tag.ID}
		}
	}

	limit := settings.MaxFlairs
	if limit > forumTagLimit {
		limit = forumTagLimit
	}
	if len(channel.AvailableTags) >= limit {
		return nil
	}

	updated := append(channel.AvailableTags, discordgo.ForumTag{Name: name})
	edited, err := p.session.ChannelEditComplex(forumID, &discordgo.ChannelEdit{AvailableTags: &updated})
	if err != nil {
		slog.Warn("failed to create forum tag", "forum_id", forumID, "tag", name, "error", err)
		return nil
	}

	for _, tag := range edited.AvailableTags {
		if strings.EqualFold(tag.Name, name) {
			return []string{tag.ID}
		}
	}
	return nil
}

// TagThread applies the submission's flair tag to an existing thread,
// keeping only the five most recent tags. Tag failures never cost the post,
// so they are logged and swallowed.
func (p *Publisher) TagThread(post *reddit.Post, forumID, threadID string) {
	tagIDs := p.flairTagIDs(post, forumID)
	if len(tagIDs) == 0 {
		return
	}

	thread, err := p.session.Channel(threadID)
	if err != nil {
		slog.Warn("failed to look up thread for tagging", "thread_id", threadID, "error", err)
		return
	}
	for _, applied := range thread.AppliedTags {
		if applied == tagIDs[0] {
			return
		}
	}

	tags := append(thread.AppliedTags, tagIDs[0])
	if len(tags) > appliedTagLimit {
		tags = tags[len(tags)-appliedTagLimit:]
	}
	if _, err := p.session.ChannelEditComplex(threadID, &discordgo.ChannelEdit{AppliedTags: &tags}); err != nil {
		slog.Warn("failed to tag thread", "thread_id", threadID, "tag", tagIDs[0], "error", err)
	}
}

// SyncForumTags removes forum tags whose names are on the channel's flair
// blacklist and returns the names it removed.
func (p *Publisher) SyncForumTags(forumID string) ([]string, error) {
	settings, err := database.GetFlairSettings(p.db, forumID)
	if err != nil {
		return nil, err
	}
	if len(settings.BlacklistedFlairs) == 0 {
		return nil, nil
	}

	channel, err := p.session.Channel(forumID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up forum channel %s: %w", forumID, err)
	}

	blocked := make(map[string]bool, len(settings.BlacklistedFlairs))
	for _, name := range settings.BlacklistedFlairs {
		blocked[strings.ToLower(name)] = true
	}

	kept := make([]discordgo.ForumTag, 0, len(channel.AvailableTags))
	var removed []string
	for _, tag := range channel.AvailableTags {
		if blocked[strings.ToLower(tag.Name)] {
			removed = append(removed, tag.Name)
			continue
		}
		kept = append(kept, tag)
	}
	if len(removed) == 0 {
		return nil, nil
	}

	if _, err := p.session.ChannelEditComplex(forumID, &discordgo.ChannelEdit{AvailableTags: &kept}); err != nil {
		return nil, fmt.Errorf("failed to update tags for forum %s: %w", forumID, err)
	}
	return removed, nil
}

// primaryImageURL picks a directly embeddable image link for a thread's
// starter message, or "" when the submission has none.
func (p *Publisher) primaryImageURL(post *reddit.Post) string {
	if hasImageExtension(post.URL) {
		return post.URL
	}

	if post.IsGallery {
		if urls := post.GalleryImageURLs(); len(urls) > 0 {
			return urls[0]
		}
	}

	for _, id := range sortedMetadataIDs(post) {
		meta := post.MediaMetadata[id]
		if meta == nil || meta.Source == nil {
			continue
		}
		if meta.Source.URL != "" {
			return html.UnescapeString(meta.Source.URL)
		}
	}

	return post.PreviewImageURL()
}
