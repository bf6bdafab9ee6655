package slides

import (
	"fmt"

	"github.com/rewired-gh/teamwrapped/internal/config"
	"github.com/rewired-gh/teamwrapped/internal/layout"
	"github.com/rewired-gh/teamwrapped/internal/logger"
	"github.com/rewired-gh/teamwrapped/internal/models"
	"github.com/rewired-gh/teamwrapped/internal/ranking"
)

type namedChannel struct {
	name string
	models.ChannelActivity
}

// BuildChannels recaps Slack activity for the configured channels.
// With many channels each one gets its own story; otherwise the deck shows
// an emoji chart, a bufo chart and a summary slide per channel.
func BuildChannels(snap *models.Snapshot, cfg *config.DeckConfig) ([]Slide, error) {
	sc := cfg.Slack
	if !sc.Enabled || len(sc.Channels) == 0 {
		return nil, nil
	}
	activity, ok := snap.Slack.Get()
	if !ok {
		return nil, nil
	}

	variant := layout.Select(len(sc.Channels), sc.OneStoryPerChannel, sc.ChannelThreshold)
	logger.Debug("Channels layout: %s (%d configured channels)", variant, len(sc.Channels))

	channels := make([]namedChannel, 0, len(sc.Channels))
	for _, name := range sc.Channels {
		ch, ok := activity.Channel(name)
		if !ok {
			logger.Warn("No data for channel %s", name)
			continue
		}
		channels = append(channels, namedChannel{name: name, ChannelActivity: ch})
	}

	if variant == layout.Expanded {
		return channelStories(channels, cfg), nil
	}

	var out []Slide
	if chart, ok := emojiChart(channels, cfg); ok {
		out = append(out, newSlide(chart, 0))
	}
	if chart, ok := bufoChart(channels, cfg); ok {
		out = append(out, newSlide(chart, 0))
	}
	for _, ch := range channels {
		out = append(out, newSlide(ChannelSummary{
			Channel:        ch.name,
			MessageSummary: messageSummary(ch, cfg),
			BotSummary:     botSummary(ch, cfg),
			Reactions:      ranking.TopN(ch.Reacji, sc.TopReactions, nil),
		}, 0))
	}
	return out, nil
}

func channelStories(channels []namedChannel, cfg *config.DeckConfig) []Slide {
	sc := cfg.Slack
	out := make([]Slide, 0, len(channels))
	for _, ch := range channels {
		story := ChannelStory{
			Channel:        ch.name,
			MessageSummary: messageSummary(ch, cfg),
			BotSummary:     botSummary(ch, cfg),
			Emojis:         emojiStats(ch, sc.TopEmoji),
			Reactions:      ranking.TopN(ch.Reacji, sc.TopReactions, nil),
		}
		if bufos := bufoStats(ch, sc); bufos.Unique > 0 {
			story.Bufos = &bufos
		}
		out = append(out, newSlide(story, 0))
	}
	return out
}

func emojiChart(channels []namedChannel, cfg *config.DeckConfig) (EmojiChart, bool) {
	if len(channels) == 0 {
		return EmojiChart{}, false
	}
	rows := make([]ChartRow, 0, len(channels))
	for _, ch := range channels {
		stats := emojiStats(ch, cfg.Slack.TopEmoji)
		rows = append(rows, ChartRow{
			Channel:    ch.name,
			EmojiStats: stats,
			Caption:    fmt.Sprintf("We used %d unique emojis in %s", stats.Unique, cfg.PeriodName),
		})
	}
	return EmojiChart{Title: "Emoji Charts", PeriodName: cfg.PeriodName, Rows: rows}, true
}

// bufoChart keeps only channels that used a bufo; with none the slide is dropped.
func bufoChart(channels []namedChannel, cfg *config.DeckConfig) (BufoChart, bool) {
	var rows []ChartRow
	for _, ch := range channels {
		stats := bufoStats(ch, cfg.Slack)
		if stats.Unique == 0 {
			continue
		}
		rows = append(rows, ChartRow{
			Channel:    ch.name,
			EmojiStats: stats,
			Caption:    fmt.Sprintf("We used %d unique bufos in %s", stats.Unique, cfg.PeriodName),
		})
	}
	if len(rows) == 0 {
		return BufoChart{}, false
	}
	return BufoChart{Title: "Bufo Charts", PeriodName: cfg.PeriodName, Rows: rows}, true
}

func emojiStats(ch namedChannel, topN int) EmojiStats {
	return EmojiStats{
		Top:    ranking.TopN(ch.Emojis.ByCount, topN, nil),
		Unique: ch.Emojis.ByCount.Len(),
	}
}

func bufoStats(ch namedChannel, sc config.SlackConfig) EmojiStats {
	isBufo := ranking.HasPrefix(sc.BufoPrefix)
	return EmojiStats{
		Top:    ranking.TopN(ch.Emojis.ByCount, sc.TopEmoji, isBufo),
		Unique: ranking.CountKeys(ch.Emojis.ByCount, isBufo),
	}
}

// messageSummary reads "In 2024, 1,234 messages were written. The top 3
// chatterbugs were ...". The second sentence is left out when only bots posted.
func messageSummary(ch namedChannel, cfg *config.DeckConfig) string {
	sc := cfg.Slack
	summary := fmt.Sprintf("In %s, %s messages were written.", cfg.PeriodName, ranking.FormatCount(ch.MessageCount))

	humans := ch.TopPosters.Filter(func(name string) bool { return !sc.IsBot(name) })
	if humans.Len() > 0 {
		summary += fmt.Sprintf(" The top %d chatterbugs were %s.", sc.TopPosters,
			ranking.NamesAndCounts(humans, "messages", sc.TopPosters))
	}
	return summary
}

// botSummary is empty unless a bot posted in the channel.
func botSummary(ch namedChannel, cfg *config.DeckConfig) string {
	sc := cfg.Slack
	bots := ch.TopPosters.Filter(sc.IsBot)
	if bots.Len() == 0 {
		return ""
	}
	return fmt.Sprintf("Our top %d busiest bots were %s.", sc.TopPosters,
		ranking.NamesAndCounts(bots, "messages", sc.TopPosters))
}
