// Package group partitions and deduplicates sequences for paged slides.
package group

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports a programming or configuration error, such as a
// non-positive page size. It aborts deck generation.
var ErrInvalidArgument = errors.New("invalid argument")

// Chunk splits items left to right into pages of size items; the last page may
// be shorter. The pages share the backing array of items.
func Chunk[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size %d: %w", size, ErrInvalidArgument)
	}

	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		pages = append(pages, items[start:end:end])
	}
	return pages, nil
}

// UniqueKeys derives a key from every item and returns each distinct key once,
// in first-seen order.
func UniqueKeys[T any, K comparable](items []T, key func(T) K) []K {
	seen := make(map[K]struct{}, len(items))
	out := make([]K, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
