package slides

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/teamwrapped/internal/config"
	"github.com/rewired-gh/teamwrapped/internal/group"
	"github.com/rewired-gh/teamwrapped/internal/logger"
	"github.com/rewired-gh/teamwrapped/internal/models"
)

// Builder produces the slides of one section. It reads but never modifies its inputs.
type Builder func(snap *models.Snapshot, cfg *config.DeckConfig) ([]Slide, error)

type sectionBuilder struct {
	section Section
	build   Builder
}

// pipeline is the fixed section order of every deck.
var pipeline = []sectionBuilder{
	{SectionNewMembers, BuildNewMembers},
	{SectionLifeMoments, BuildLifeMoments},
	{SectionChannels, BuildChannels},
}

var slideNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/rewired-gh/teamwrapped/slides"))

// Generate builds the complete deck. The same inputs always yield the same
// slides, ids included. An invalid argument from any builder aborts the deck.
func Generate(snap *models.Snapshot, cfg *config.DeckConfig) ([]Slide, error) {
	if snap == nil || cfg == nil {
		return nil, fmt.Errorf("generate: snapshot and config are required: %w", group.ErrInvalidArgument)
	}

	deck := make([]Slide, 0)
	for _, sb := range pipeline {
		built, err := sb.build(snap, cfg)
		if err != nil {
			return nil, err
		}
		for i := range built {
			built[i].Section = sb.section
			built[i].ID = slideID(snap.ID, sb.section, i, built[i].Kind).String()
		}
		logger.Debug("Section %s: %d slides", sb.section, len(built))
		deck = append(deck, built...)
	}
	return deck, nil
}

func slideID(snapshotID string, section Section, position int, kind Kind) uuid.UUID {
	name := fmt.Sprintf("%s/%s/%d/%s", snapshotID, section, position, kind)
	return uuid.NewSHA1(slideNamespace, []byte(name))
}

// DefaultSlideDuration estimates slides that leave timing to the player.
const DefaultSlideDuration = 5 * time.Second

// SectionCount is the number of slides a section contributed.
type SectionCount struct {
	Section Section `json:"section"`
	Slides  int     `json:"slides"`
}

// Summary describes a generated deck for notifications.
type Summary struct {
	Sections []SectionCount `json:"sections"`
	Total    int            `json:"total"`
	Runtime  time.Duration  `json:"runtime"`
}

// Summarize counts slides per section in deck order and estimates the runtime,
// using DefaultSlideDuration for slides without their own duration.
func Summarize(deck []Slide) Summary {
	var s Summary
	for _, slide := range deck {
		if n := len(s.Sections); n == 0 || s.Sections[n-1].Section != slide.Section {
			s.Sections = append(s.Sections, SectionCount{Section: slide.Section})
		}
		s.Sections[len(s.Sections)-1].Slides++
		s.Total++

		if d := slide.Duration(); d > 0 {
			s.Runtime += d
		} else {
			s.Runtime += DefaultSlideDuration
		}
	}
	return s
}
