package slides

import (
	"fmt"

	"github.com/rewired-gh/teamwrapped/internal/config"
	"github.com/rewired-gh/teamwrapped/internal/group"
	"github.com/rewired-gh/teamwrapped/internal/models"
)

// BuildLifeMoments emits an intro slide and one photo slide per moment.
func BuildLifeMoments(snap *models.Snapshot, cfg *config.DeckConfig) ([]Slide, error) {
	if !cfg.LifeMoments.Enabled {
		return nil, nil
	}
	moments, ok := snap.LifeMoments.Get()
	if !ok || len(moments) == 0 {
		return nil, nil
	}

	out := make([]Slide, 0, 1+len(moments))
	out = append(out, newSlide(LifeMomentsIntro{
		Count:      len(moments),
		PeriodName: cfg.PeriodName,
		Emojis:     group.UniqueKeys(moments, func(m models.LifeMoment) string { return m.Type.Emoji() }),
		Summary:    momentsSummary(len(moments), cfg.PeriodName),
	}, LifeMomentsIntroDuration))

	for _, m := range moments {
		caption := m.Caption
		if caption == "" {
			caption = fmt.Sprintf("%s - %s", m.Name, m.Type.Title())
		}
		out = append(out, newSlide(LifeMomentCard{
			Type:            m.Type,
			Emoji:           m.Type.Emoji(),
			Title:           m.Type.Title(),
			Name:            m.Name,
			Photo:           m.Photo,
			Caption:         caption,
			CaptionPosition: m.CaptionPosition.OrDefault(),
		}, 0))
	}
	return out, nil
}

func momentsSummary(n int, period string) string {
	if n == 1 {
		return fmt.Sprintf("1 special moment in %s", period)
	}
	return fmt.Sprintf("%d special moments in %s", n, period)
}
