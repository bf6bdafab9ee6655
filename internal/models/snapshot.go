// Package models defines the analytics snapshot that slide decks are built from.
//
// A Snapshot holds aggregated facts for one reporting period. Each top-level
// section is Optional because the data collector may skip it; consumers must
// handle both arms. All models include Validate methods that are applied when a
// snapshot enters the system (ingest, file load).
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Snapshot is the aggregated analytics for a reporting period.
type Snapshot struct {
	ID          string                  `json:"id,omitempty"`
	CreatedOn   *time.Time              `json:"createdOn,omitempty"`
	Slack       Optional[SlackActivity] `json:"slack"`
	People      Optional[[]Person]      `json:"people"`
	LifeMoments Optional[[]LifeMoment]  `json:"lifeMoments"`
}

// SlackActivity holds per-channel statistics keyed by channel name (without "#").
type SlackActivity struct {
	Channels map[string]ChannelActivity `json:"channels" jsonschema:"required"`
}

// Channel looks up a channel by name.
func (s SlackActivity) Channel(name string) (ChannelActivity, bool) {
	ch, ok := s.Channels[name]
	return ch, ok
}

// ChannelActivity holds message, emoji, reaction and poster tallies for one channel.
type ChannelActivity struct {
	MessageCount int        `json:"messageCount" jsonschema:"required"`
	Emojis       EmojiUsage `json:"emojis"`
	Reacji       Histogram  `json:"reacji"`
	TopPosters   Histogram  `json:"topPosters"`
}

// EmojiUsage holds emoji used inside message text.
type EmojiUsage struct {
	ByCount Histogram `json:"byCount"`
}

// Person is a team member. New marks someone who joined during the period.
type Person struct {
	Name  string `json:"name" jsonschema:"required"`
	Photo string `json:"photo,omitempty"`
	New   bool   `json:"new"`
}

// FirstName returns the first word of the name, as shown under avatars.
func (p Person) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return p.Name
	}
	return fields[0]
}

// HasPhoto reports whether an avatar can be shown.
func (p Person) HasPhoto() bool {
	return p.Photo != ""
}

// MaxClockSkew is how far ahead of the local clock a creation time may be.
const MaxClockSkew = time.Minute

// Validate checks the snapshot's sections
func (s *Snapshot) Validate() error {
	if s.CreatedOn != nil && s.CreatedOn.After(time.Now().Add(MaxClockSkew)) {
		return errors.New("created on must not be in the future")
	}

	if slack, ok := s.Slack.Get(); ok {
		for name, ch := range slack.Channels {
			if name == "" {
				return errors.New("channel name must not be empty")
			}
			if err := ch.Validate(); err != nil {
				return fmt.Errorf("channel %s: %w", name, err)
			}
		}
	}

	if people, ok := s.People.Get(); ok {
		for i, p := range people {
			if strings.TrimSpace(p.Name) == "" {
				return fmt.Errorf("person %d: name must not be empty", i)
			}
		}
	}

	if moments, ok := s.LifeMoments.Get(); ok {
		for i, m := range moments {
			if err := m.Validate(); err != nil {
				return fmt.Errorf("life moment %d: %w", i, err)
			}
		}
	}
	return nil
}

// Validate checks that all counts are non-negative
func (c *ChannelActivity) Validate() error {
	if c.MessageCount < 0 {
		return errors.New("message count must not be negative")
	}
	if err := c.Emojis.ByCount.Validate(); err != nil {
		return fmt.Errorf("emojis: %w", err)
	}
	if err := c.Reacji.Validate(); err != nil {
		return fmt.Errorf("reacji: %w", err)
	}
	if err := c.TopPosters.Validate(); err != nil {
		return fmt.Errorf("top posters: %w", err)
	}
	return nil
}
