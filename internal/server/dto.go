package server

import "github.com/rewired-gh/teamwrapped/internal/slides"

type HealthResponse struct {
	Status string `json:"status"`
}

type SlidesResponse struct {
	SnapshotID string         `json:"snapshotId"`
	Stale      bool           `json:"stale"`
	Staleness  string         `json:"staleness,omitempty"`
	Slides     []slides.Slide `json:"slides"`
}

type FreshnessResponse struct {
	SnapshotID string `json:"snapshotId"`
	Stale      bool   `json:"stale"`
	Message    string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
