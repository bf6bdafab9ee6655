package models

import (
	"errors"
	"strings"
)

// MomentType is the closed set of life events the deck celebrates.
// The zero value is MomentOther, which also absorbs unknown types.
type MomentType int

const (
	MomentOther MomentType = iota
	MomentBaby
	MomentBirthday
	MomentWedding
	MomentPromotion
	MomentAnniversary
)

// MomentTypes lists every variant in display order.
var MomentTypes = []MomentType{
	MomentBaby,
	MomentBirthday,
	MomentWedding,
	MomentPromotion,
	MomentAnniversary,
	MomentOther,
}

// String returns the wire name of the type.
func (t MomentType) String() string {
	switch t {
	case MomentBaby:
		return "baby"
	case MomentBirthday:
		return "birthday"
	case MomentWedding:
		return "wedding"
	case MomentPromotion:
		return "promotion"
	case MomentAnniversary:
		return "anniversary"
	default:
		return "other"
	}
}

// Emoji returns the glyph shown in badges and on the intro slide.
func (t MomentType) Emoji() string {
	switch t {
	case MomentBaby:
		return "👶"
	case MomentBirthday:
		return "🎂"
	case MomentWedding:
		return "💒"
	case MomentPromotion:
		return "🎉"
	case MomentAnniversary:
		return "💍"
	default:
		return "✨"
	}
}

// Title returns the badge headline.
func (t MomentType) Title() string {
	switch t {
	case MomentBaby:
		return "New Addition!"
	case MomentBirthday:
		return "Happy Birthday!"
	case MomentWedding:
		return "Just Married!"
	case MomentPromotion:
		return "Congrats!"
	case MomentAnniversary:
		return "Anniversary!"
	default:
		return "Celebration!"
	}
}

// ParseMomentType maps a wire name to a MomentType; unknown names become MomentOther.
func ParseMomentType(s string) MomentType {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range MomentTypes {
		if t.String() == name {
			return t
		}
	}
	return MomentOther
}

// MarshalText implements encoding.TextMarshaler.
func (t MomentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *MomentType) UnmarshalText(text []byte) error {
	*t = ParseMomentType(string(text))
	return nil
}

// CaptionPosition places the caption box on a life-moment slide.
type CaptionPosition string

const (
	CaptionTop    CaptionPosition = "top"
	CaptionBottom CaptionPosition = "bottom"
)

// OrDefault returns CaptionTop only when explicitly requested.
func (p CaptionPosition) OrDefault() CaptionPosition {
	if p == CaptionTop {
		return CaptionTop
	}
	return CaptionBottom
}

// LifeMoment is a personal event (birthday, wedding, ...) with an optional photo.
type LifeMoment struct {
	Type            MomentType      `json:"type"`
	Name            string          `json:"name"`
	Photo           string          `json:"photo,omitempty"`
	Caption         string          `json:"caption,omitempty"`
	CaptionPosition CaptionPosition `json:"captionPosition,omitempty"`
}

// Validate checks that the moment can be captioned
func (m *LifeMoment) Validate() error {
	if strings.TrimSpace(m.Name) == "" && strings.TrimSpace(m.Caption) == "" {
		return errors.New("name or caption is required")
	}
	switch m.CaptionPosition {
	case "", CaptionTop, CaptionBottom:
	default:
		return errors.New("caption position must be 'top' or 'bottom'")
	}
	return nil
}
