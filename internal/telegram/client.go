// Package telegram posts deck notifications to a Telegram chat.
// It formats stale-data alerts and deck-ready summaries as MarkdownV2 and
// delivers them with retries.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/teamwrapped/internal/slides"
)

// Sender delivers a message. *tgbotapi.BotAPI implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	sender         Sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return NewClientWithSender(bot, chatID, maxRetries, retryDelayBase)
}

// NewClientWithSender creates a client over an existing sender
func NewClientWithSender(sender Sender, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		sender:         sender,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendStaleAlert warns that the latest snapshot is too old to present
func (c *Client) SendStaleAlert(ctx context.Context, team, snapshotID, reason string) error {
	return c.send(ctx, formatStaleAlert(team, snapshotID, reason))
}

// SendDeckSummary announces a freshly generated deck
func (c *Client) SendDeckSummary(ctx context.Context, team, period, snapshotID string, summary slides.Summary) error {
	return c.send(ctx, formatDeckSummary(team, period, snapshotID, summary))
}

// send delivers text, backing off linearly between attempts
func (c *Client) send(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.sender.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err

		if i == c.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("send cancelled: %w", ctx.Err())
		case <-time.After(c.retryDelayBase * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

func formatStaleAlert(team, snapshotID, reason string) string {
	var b strings.Builder
	b.WriteString("⚠️ *Stale team wrapped data*\n\n")
	fmt.Fprintf(&b, "👥 Team: %s\n", escapeMarkdownV2(team))
	fmt.Fprintf(&b, "🗂 Snapshot: %s\n", escapeMarkdownV2(orNone(snapshotID)))
	fmt.Fprintf(&b, "⏱ %s\n", escapeMarkdownV2(reason))
	return b.String()
}

func formatDeckSummary(team, period, snapshotID string, summary slides.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎁 *%s wrapped for %s is ready*\n\n", escapeMarkdownV2(team), escapeMarkdownV2(period))
	fmt.Fprintf(&b, "🗂 Snapshot: %s\n\n", escapeMarkdownV2(orNone(snapshotID)))

	for _, s := range summary.Sections {
		fmt.Fprintf(&b, "• %s: %d %s\n", escapeMarkdownV2(string(s.Section)), s.Slides, plural(s.Slides, "slide"))
	}
	if len(summary.Sections) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total: *%d %s*, about %s\n",
		summary.Total, plural(summary.Total, "slide"), escapeMarkdownV2(formatDuration(summary.Runtime)))
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, char := range text {
		switch char {
		case '\\', '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

// formatDuration formats a deck runtime as "45s", "2m 30s" or "1h 5m"
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d >= time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	if d >= time.Minute {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
