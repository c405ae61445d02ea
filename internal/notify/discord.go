package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// MaxContentLength is Discord's limit for one message body
const MaxContentLength = 2000

// DiscordWebhook posts messages to a Discord channel webhook, mentioning targets
type DiscordWebhook struct {
	url    string
	client *http.Client
}

// NewDiscordWebhook creates a webhook notifier
func NewDiscordWebhook(url string, timeout time.Duration) *DiscordWebhook {
	return &DiscordWebhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type allowedMentions struct {
	Parse []string `json:"parse"`
	Users []string `json:"users,omitempty"`
}

type webhookPayload struct {
	Content         string          `json:"content"`
	AllowedMentions allowedMentions `json:"allowed_mentions"`
}

// Send posts the message, prefixed with mentions of every target. Messages
// over the Discord limit are split on line boundaries.
func (d *DiscordWebhook) Send(ctx context.Context, message string, targets []string) error {
	content := message
	if mentions := Mentions(targets); mentions != "" {
		content = mentions + "\n" + message
	}

	chunks := SplitMessage(content, MaxContentLength)
	for i, chunk := range chunks {
		payload := webhookPayload{
			Content: chunk,
			// Only ping the listed users, never @everyone or roles
			AllowedMentions: allowedMentions{Parse: []string{}, Users: targets},
		}
		if err := d.post(ctx, payload); err != nil {
			return fmt.Errorf("failed to send notification part %d/%d: %w", i+1, len(chunks), err)
		}
	}

	log.Debug().
		Int("targets", len(targets)).
		Int("parts", len(chunks)).
		Msg("Sent Discord notification")

	return nil
}

func (d *DiscordWebhook) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Mentions renders Discord user mentions for the given ids
func Mentions(ids []string) string {
	mentions := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		mentions = append(mentions, "<@"+id+">")
	}
	return strings.Join(mentions, " ")
}

// SplitMessage breaks content into parts of at most limit bytes, cutting on
// newlines where possible. A single line longer than limit is hard-split on a
// rune boundary.
func SplitMessage(content string, limit int) []string {
	if len(content) <= limit {
		return []string{content}
	}

	var parts []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.Split(content, "\n") {
		for len(line) > limit {
			flush()
			cut := runeCut(line, limit)
			parts = append(parts, line[:cut])
			line = line[cut:]
		}

		needed := len(line)
		if current.Len() > 0 {
			needed++
		}
		if current.Len()+needed > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()

	return parts
}

// runeCut returns the largest index <= limit that does not split a UTF-8
// sequence. A leading rune wider than limit is kept whole.
func runeCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return cut
}
