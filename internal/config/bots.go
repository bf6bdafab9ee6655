package config

import (
	"path/filepath"
	"strings"
)

// IsBot reports whether a poster name is excluded as a bot.
// Entries in IgnoreBots are exact names or glob patterns such as "*-bot".
func (s SlackConfig) IsBot(name string) bool {
	for _, pattern := range s.IgnoreBots {
		if matchName(pattern, name) {
			return true
		}
	}
	return false
}

// matchName tries the pattern as written, then again case-insensitively.
// Malformed patterns never match.
func matchName(pattern, name string) bool {
	if pattern == name {
		return true
	}
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}
	matched, _ := filepath.Match(strings.ToLower(pattern), strings.ToLower(name))
	return matched
}
