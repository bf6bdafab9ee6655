package slides

import (
	"fmt"

	"github.com/rewired-gh/teamwrapped/internal/config"
	"github.com/rewired-gh/teamwrapped/internal/group"
	"github.com/rewired-gh/teamwrapped/internal/layout"
	"github.com/rewired-gh/teamwrapped/internal/logger"
	"github.com/rewired-gh/teamwrapped/internal/models"
	"github.com/rewired-gh/teamwrapped/internal/ranking"
)

// BuildNewMembers welcomes the people who joined during the period.
// Up to the threshold they share one slide; above it an intro slide is
// followed by pages of photos.
func BuildNewMembers(snap *models.Snapshot, cfg *config.DeckConfig) ([]Slide, error) {
	if !cfg.NewMembers.Enabled {
		return nil, nil
	}
	people, ok := snap.People.Get()
	if !ok {
		return nil, nil
	}

	var newcomers, withPhotos []models.Person
	for _, p := range people {
		if !p.New {
			continue
		}
		newcomers = append(newcomers, p)
		if p.HasPhoto() {
			withPhotos = append(withPhotos, p)
		}
	}
	if len(newcomers) == 0 {
		return nil, nil
	}

	variant := layout.Select(len(newcomers), cfg.NewMembers.Layout, cfg.NewMembers.Threshold)
	logger.Debug("New members layout: %s (%d members, %d with photos)", variant, len(newcomers), len(withPhotos))

	names := make([]string, len(newcomers))
	for i, p := range newcomers {
		names[i] = p.Name
	}

	if variant == layout.Compact {
		welcome := Welcome{
			TeamName: cfg.TeamName,
			Names:    ranking.JoinNaturally(names),
			Message:  fmt.Sprintf("Proudly presenting the newest members of %s. We're so happy you're here!", cfg.TeamName),
			Avatars:  avatars(withPhotos),
		}
		return []Slide{newSlide(welcome, WelcomeDuration)}, nil
	}

	pages, err := group.Chunk(withPhotos, cfg.NewMembers.PageSize)
	if err != nil {
		return nil, fmt.Errorf("new members: %w", err)
	}

	out := make([]Slide, 0, 1+len(pages))
	out = append(out, newSlide(WelcomeIntro{
		TeamName: cfg.TeamName,
		Count:    len(newcomers),
		Headline: welcomeHeadline(len(newcomers), cfg.TeamName),
		Names:    names,
	}, WelcomeIntroDuration))

	for i, page := range pages {
		out = append(out, newSlide(NewFaces{
			Title:   fmt.Sprintf("New faces! (%d/%d)", i+1, len(pages)),
			Page:    i + 1,
			Pages:   len(pages),
			Avatars: avatars(page),
		}, NewFacesDuration))
	}
	return out, nil
}

func welcomeHeadline(n int, team string) string {
	if n == 1 {
		return fmt.Sprintf("1 new person has joined %s!", team)
	}
	return fmt.Sprintf("%d new people have joined %s!", n, team)
}

func avatars(people []models.Person) []Avatar {
	out := make([]Avatar, len(people))
	for i, p := range people {
		out[i] = avatarOf(p)
	}
	return out
}
