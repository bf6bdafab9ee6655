// Package freshness decides whether a snapshot is recent enough to present.
package freshness

import (
	"fmt"
	"time"

	"github.com/rewired-gh/teamwrapped/internal/config"
)

// StaleAfter is how long data collected inside the reporting period stays current.
const StaleAfter = 10 * time.Minute

const timestampLayout = "2006-01-02 15:04:05 MST"

// IsStale checks createdOn against the deck's reporting window and the wall clock.
// It returns a human-readable reason and true when the data is stale.
func IsStale(cfg *config.DeckConfig, createdOn *time.Time) (string, bool) {
	return Check(cfg.To, createdOn, time.Now())
}

// Check is IsStale with an explicit clock.
//
// Data created after the end of the period is final and never stale. Otherwise
// it is current for StaleAfter. A missing creation time is always stale.
// A zero to means the period end is unknown, so no data counts as final.
func Check(to time.Time, createdOn *time.Time, now time.Time) (string, bool) {
	if createdOn == nil {
		return "no creation date found", true
	}
	if !to.IsZero() && createdOn.After(to) {
		return "", false
	}

	age := now.Sub(*createdOn)
	if age < StaleAfter {
		return "", false
	}

	return fmt.Sprintf("data is %d minutes old (created: %s, now: %s, stale after %d minutes)",
		int(age/time.Minute),
		createdOn.Format(timestampLayout),
		now.Format(timestampLayout),
		int(StaleAfter/time.Minute),
	), true
}
