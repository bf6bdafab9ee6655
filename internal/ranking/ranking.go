// Package ranking selects and phrases the top entries of a histogram.
//
// TopN is the single ranking primitive: filter keys, stable-sort by count
// descending (ties keep the histogram's original key order), truncate.
// The phrasing helpers turn ranked items into sentences such as
// "ada (1,204 messages), bob (800 messages), and cy (12 messages)".
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rewired-gh/teamwrapped/internal/models"
)

// DefaultTopN is the default emoji list length.
const DefaultTopN = 7

// RankedItem is a histogram entry after ranking.
type RankedItem struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// KeepFunc decides whether a key takes part in a ranking.
type KeepFunc func(key string) bool

// HasPrefix keeps keys starting with prefix.
func HasPrefix(prefix string) KeepFunc {
	return func(key string) bool {
		return strings.HasPrefix(key, prefix)
	}
}

// TopN returns at most n entries of h that pass keep (nil keeps everything),
// sorted by count descending. Entries with equal counts stay in histogram order.
// Returns an empty (non-nil) slice when n <= 0 or nothing qualifies.
func TopN(h models.Histogram, n int, keep KeepFunc) []RankedItem {
	items := make([]RankedItem, 0, h.Len())
	for _, b := range h.Buckets() {
		if keep != nil && !keep(b.Key) {
			continue
		}
		items = append(items, RankedItem{Key: b.Key, Count: b.Count})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})

	if n <= 0 {
		return []RankedItem{}
	}
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// CountKeys returns how many keys of h pass keep.
func CountKeys(h models.Histogram, keep KeepFunc) int {
	n := 0
	for _, key := range h.Keys() {
		if keep == nil || keep(key) {
			n++
		}
	}
	return n
}

// JoinNaturally joins items as English prose:
// "A", "A and B", "A, B, and C".
func JoinNaturally(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

// FormatCount groups thousands with commas: 12345 -> "12,345".
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// NamesAndCounts phrases the top entries of h as "<key> (<count> <unit>)" and joins
// them naturally. The unit is used verbatim (callers pluralize); an empty unit
// drops it. limit <= 0 means every entry.
func NamesAndCounts(h models.Histogram, unit string, limit int) string {
	if limit <= 0 {
		limit = h.Len()
	}
	ranked := TopN(h, limit, nil)

	phrases := make([]string, len(ranked))
	for i, item := range ranked {
		if unit == "" {
			phrases[i] = fmt.Sprintf("%s (%s)", item.Key, FormatCount(item.Count))
		} else {
			phrases[i] = fmt.Sprintf("%s (%s %s)", item.Key, FormatCount(item.Count), unit)
		}
	}
	return JoinNaturally(phrases)
}
