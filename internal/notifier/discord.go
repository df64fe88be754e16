package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"CoastCam/internal/config"
)

const EnvDiscordWebhook = "COASTCAM_DISCORD_WEBHOOK_URL"

// Discord embed description limit.
const maxDescription = 4096

type Discord struct {
	webhookURL string
	retry      *config.DiscordRetry
	mentions   *config.DiscordMentions
	events     eventFilter
	host       string
	client     *http.Client
}

type discordEmbed struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

func NewDiscord(cfg *config.DiscordConfig) (*Discord, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("discord notifier disabled")
	}
	url := cfg.WebhookURL
	if url == "" {
		url = os.Getenv(EnvDiscordWebhook)
	}
	if url == "" {
		return nil, fmt.Errorf("discord notifier: missing webhook_url")
	}
	events, err := newEventFilter(cfg.Events)
	if err != nil {
		return nil, err
	}
	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	timeout := 10 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Discord{
		webhookURL: url,
		retry:      cfg.Retry,
		mentions:   cfg.Mentions,
		events:     events,
		host:       host,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func eventColor(e Event) int {
	switch e {
	case EventAlert:
		return 0xe74c3c
	case EventTally:
		return 0x3498db
	case EventRelocate:
		return 0x2ecc71
	case EventPrune:
		return 0x9b59b6
	default:
		return 0x95a5a6
	}
}

func (d *Discord) Send(ctx context.Context, msg Message) error {
	if !d.events.allowed(msg.Event) {
		return nil
	}
	desc := msg.Body
	if len(desc) > maxDescription {
		desc = desc[:maxDescription-3] + "..."
	}
	embed := discordEmbed{
		Title:       msg.Subject,
		Description: desc,
		Color:       eventColor(msg.Event),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Fields: []discordField{
			{Name: "Host", Value: d.host, Inline: true},
		},
	}
	if msg.Station != "" {
		embed.Fields = append(embed.Fields, discordField{Name: "Station", Value: msg.Station, Inline: true})
	}
	mention := ""
	if msg.Event == EventAlert && d.mentions != nil {
		mention = d.mentions.OnAlert
	}
	return d.post(ctx, discordPayload{Content: mention, Embeds: []discordEmbed{embed}})
}

func (d *Discord) post(ctx context.Context, payload discordPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	attempts := 1
	var delay time.Duration
	if d.retry != nil && d.retry.Attempts > 1 {
		attempts = d.retry.Attempts
		delay = time.Duration(d.retry.BackoffMs) * time.Millisecond
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := d.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("status %s", resp.Status)
	}
	return fmt.Errorf("discord webhook failed after %d attempts: %w", attempts, lastErr)
}
