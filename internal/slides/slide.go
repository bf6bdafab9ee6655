// Package slides turns an analytics snapshot and a deck configuration into an
// ordered list of slide descriptors for the slideshow player.
//
// Each section has a Builder. Builders never fail because a snapshot section
// is absent; they return no slides instead. Generate runs the builders in a
// fixed order and stamps every slide with its section and a stable id.
package slides

import (
	"time"

	"github.com/rewired-gh/teamwrapped/internal/models"
	"github.com/rewired-gh/teamwrapped/internal/ranking"
)

// Section names the builder a slide came from.
type Section string

const (
	SectionNewMembers  Section = "new-members"
	SectionLifeMoments Section = "life-moments"
	SectionChannels    Section = "channels"
)

// Kind tells the player which template renders a slide's content.
type Kind string

const (
	KindWelcome          Kind = "welcome"
	KindWelcomeIntro     Kind = "welcome-intro"
	KindNewFaces         Kind = "new-faces"
	KindLifeMomentsIntro Kind = "life-moments-intro"
	KindLifeMoment       Kind = "life-moment"
	KindChannelStory     Kind = "channel-story"
	KindEmojiChart       Kind = "emoji-chart"
	KindBufoChart        Kind = "bufo-chart"
	KindChannelSummary   Kind = "channel-summary"
)

// Display durations. Slides without one use the player's default.
const (
	WelcomeDuration          = 12 * time.Second
	WelcomeIntroDuration     = 9 * time.Second
	NewFacesDuration         = 6 * time.Second
	LifeMomentsIntroDuration = 6 * time.Second
)

// Content is the kind-specific payload of a slide.
type Content interface {
	Kind() Kind
}

// Slide is one timed unit of the presentation.
// DurationMs is 0 when the player's default applies.
type Slide struct {
	ID         string  `json:"id"`
	Section    Section `json:"section"`
	Kind       Kind    `json:"kind"`
	DurationMs int64   `json:"durationMs,omitempty"`
	Content    Content `json:"content"`
}

func newSlide(content Content, d time.Duration) Slide {
	return Slide{
		Kind:       content.Kind(),
		DurationMs: d.Milliseconds(),
		Content:    content,
	}
}

// Duration returns the display time, or 0 for the player default.
func (s Slide) Duration() time.Duration {
	return time.Duration(s.DurationMs) * time.Millisecond
}

// Avatar is a member photo with the label shown beneath it.
type Avatar struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	Photo     string `json:"photo"`
}

func avatarOf(p models.Person) Avatar {
	return Avatar{Name: p.Name, FirstName: p.FirstName(), Photo: p.Photo}
}

// Welcome greets a small group of new members with a scrolling photo strip.
type Welcome struct {
	TeamName string   `json:"teamName"`
	Names    string   `json:"names"`
	Message  string   `json:"message"`
	Avatars  []Avatar `json:"avatars"`
}

func (Welcome) Kind() Kind { return KindWelcome }

// WelcomeIntro opens the paged welcome for a large group of new members.
type WelcomeIntro struct {
	TeamName string   `json:"teamName"`
	Count    int      `json:"count"`
	Headline string   `json:"headline"`
	Names    []string `json:"names"`
}

func (WelcomeIntro) Kind() Kind { return KindWelcomeIntro }

// NewFaces is one page of member photos.
type NewFaces struct {
	Title   string   `json:"title"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
	Avatars []Avatar `json:"avatars"`
}

func (NewFaces) Kind() Kind { return KindNewFaces }

// LifeMomentsIntro summarizes the celebrated moments.
type LifeMomentsIntro struct {
	Count      int      `json:"count"`
	PeriodName string   `json:"periodName"`
	Emojis     []string `json:"emojis"`
	Summary    string   `json:"summary"`
}

func (LifeMomentsIntro) Kind() Kind { return KindLifeMomentsIntro }

// LifeMomentCard is a full-bleed photo with a badge and a caption.
type LifeMomentCard struct {
	Type            models.MomentType      `json:"type"`
	Emoji           string                 `json:"emoji"`
	Title           string                 `json:"title"`
	Name            string                 `json:"name,omitempty"`
	Photo           string                 `json:"photo,omitempty"`
	Caption         string                 `json:"caption"`
	CaptionPosition models.CaptionPosition `json:"captionPosition"`
}

func (LifeMomentCard) Kind() Kind { return KindLifeMoment }

// EmojiStats is a ranked emoji list plus the number of distinct emoji behind it.
type EmojiStats struct {
	Top    []ranking.RankedItem `json:"top"`
	Unique int                  `json:"unique"`
}

// ChannelStory is everything about one channel on a single slide.
type ChannelStory struct {
	Channel        string               `json:"channel"`
	MessageSummary string               `json:"messageSummary"`
	BotSummary     string               `json:"botSummary,omitempty"`
	Emojis         EmojiStats           `json:"emojis"`
	Bufos          *EmojiStats          `json:"bufos,omitempty"`
	Reactions      []ranking.RankedItem `json:"reactions"`
}

func (ChannelStory) Kind() Kind { return KindChannelStory }

// ChartRow is one channel's entry on an aggregate chart slide.
type ChartRow struct {
	Channel string `json:"channel"`
	EmojiStats
	Caption string `json:"caption"`
}

// EmojiChart lists the favourite emoji of every channel.
type EmojiChart struct {
	Title      string     `json:"title"`
	PeriodName string     `json:"periodName"`
	Rows       []ChartRow `json:"rows"`
}

func (EmojiChart) Kind() Kind { return KindEmojiChart }

// BufoChart lists the favourite bufos of the channels that used any.
type BufoChart struct {
	Title      string     `json:"title"`
	PeriodName string     `json:"periodName"`
	Rows       []ChartRow `json:"rows"`
}

func (BufoChart) Kind() Kind { return KindBufoChart }

// ChannelSummary is the message and reaction recap of one channel.
type ChannelSummary struct {
	Channel        string               `json:"channel"`
	MessageSummary string               `json:"messageSummary"`
	BotSummary     string               `json:"botSummary,omitempty"`
	Reactions      []ranking.RankedItem `json:"reactions"`
}

func (ChannelSummary) Kind() Kind { return KindChannelSummary }
