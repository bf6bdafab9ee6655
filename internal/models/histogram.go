package models

import (
	"bytes"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Bucket is a single key/count entry of a Histogram.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Histogram maps an item key (emoji name, reaction, poster) to an occurrence count.
// It remembers the order keys were first inserted, which is the key order of the
// JSON object it was decoded from. Rankings use that order to break ties.
//
// The zero value is an empty histogram, so a missing JSON field behaves like {}.
type Histogram struct {
	counts *orderedmap.OrderedMap[string, int]
}

// NewHistogram builds a histogram from buckets in the given order.
// A repeated key keeps its first position and takes the last count.
func NewHistogram(buckets ...Bucket) Histogram {
	om := orderedmap.New[string, int]()
	for _, b := range buckets {
		om.Set(b.Key, b.Count)
	}
	return Histogram{counts: om}
}

// Len returns the number of distinct keys.
func (h Histogram) Len() int {
	if h.counts == nil {
		return 0
	}
	return h.counts.Len()
}

// Buckets returns a copy of the entries in insertion order.
func (h Histogram) Buckets() []Bucket {
	out := make([]Bucket, 0, h.Len())
	if h.counts == nil {
		return out
	}
	for p := h.counts.Oldest(); p != nil; p = p.Next() {
		out = append(out, Bucket{Key: p.Key, Count: p.Value})
	}
	return out
}

// Keys returns the keys in insertion order.
func (h Histogram) Keys() []string {
	buckets := h.Buckets()
	keys := make([]string, len(buckets))
	for i, b := range buckets {
		keys[i] = b.Key
	}
	return keys
}

// Filter returns a new histogram with the entries whose key passes keep, in order.
func (h Histogram) Filter(keep func(key string) bool) Histogram {
	om := orderedmap.New[string, int]()
	for _, b := range h.Buckets() {
		if keep(b.Key) {
			om.Set(b.Key, b.Count)
		}
	}
	return Histogram{counts: om}
}

// Validate rejects negative counts.
func (h Histogram) Validate() error {
	for _, b := range h.Buckets() {
		if b.Count < 0 {
			return fmt.Errorf("count for %q must not be negative", b.Key)
		}
	}
	return nil
}

// MarshalJSON encodes the histogram as a JSON object in insertion order.
func (h Histogram) MarshalJSON() ([]byte, error) {
	if h.counts == nil {
		return []byte("{}"), nil
	}
	return h.counts.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping its key order. null decodes to empty.
func (h *Histogram) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*h = Histogram{}
		return nil
	}
	om := orderedmap.New[string, int]()
	if err := om.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid histogram: %w", err)
	}
	*h = Histogram{counts: om}
	return nil
}
