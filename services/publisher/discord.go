package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sjsage522/fyndworker/internal/crawler"
	"sjsage522/fyndworker/logger"
	errs "sjsage522/fyndworker/pkg/errors"
)

const (
	dealColor        = 3066993 // #2ECC71
	unknownPriceText = "Price unknown"
)

// Message is a Discord webhook payload
type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed is a single rich embed inside a webhook message
type Embed struct {
	Title       string          `json:"title,omitempty"`
	URL         string          `json:"url,omitempty"`
	Description string          `json:"description,omitempty"`
	Timestamp   string          `json:"timestamp,omitempty"`
	Color       int             `json:"color,omitempty"`
	Thumbnail   *EmbedThumbnail `json:"thumbnail,omitempty"`
	Fields      []EmbedField    `json:"fields,omitempty"`
}

// EmbedThumbnail is the thumbnail image of an embed
type EmbedThumbnail struct {
	URL string `json:"url,omitempty"`
}

// EmbedField is a labeled value inside an embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// FormatMessage converts one deal into one webhook message. The embed title
// links to the deal page, the description carries the price text or an
// explicit unknown marker, and category and vendor become inline fields.
func FormatMessage(deal crawler.Deal) Message {
	priceLine := unknownPriceText
	if deal.Price.Known() {
		priceLine = deal.Price.Text
	}

	embed := Embed{
		Title:       deal.Title,
		URL:         deal.Link,
		Description: priceLine,
		Color:       dealColor,
	}

	if !deal.PostedAt.IsZero() {
		embed.Timestamp = deal.PostedAt.Format(time.RFC3339)
	}
	if deal.Thumbnail != "" {
		embed.Thumbnail = &EmbedThumbnail{URL: deal.Thumbnail}
	}
	if deal.Category != "" {
		embed.Fields = append(embed.Fields, EmbedField{Name: "Category", Value: deal.Category, Inline: true})
	}
	if deal.Vendor != "" {
		embed.Fields = append(embed.Fields, EmbedField{Name: "Vendor", Value: deal.Vendor, Inline: true})
	}

	return Message{Embeds: []Embed{embed}}
}

// DiscordPublisher implements Publisher against a Discord webhook URL
type DiscordPublisher struct {
	ctx        context.Context
	webhookURL string
	client     *http.Client
	log        *logger.Logger
}

// Ensure DiscordPublisher implements Publisher
var _ Publisher = (*DiscordPublisher)(nil)

// NewDiscordPublisher creates a new Discord webhook publisher
func NewDiscordPublisher(ctx context.Context, webhookURL string) *DiscordPublisher {
	return &DiscordPublisher{
		ctx:        ctx,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        logger.ForPublisher("discord"),
	}
}

// Publish sends one deal as a webhook message
func (p *DiscordPublisher) Publish(deal crawler.Deal) error {
	if err := p.send(FormatMessage(deal)); err != nil {
		return err
	}
	p.log.Debug().Str("title", deal.Title).Msg("Sent deal to Discord")
	return nil
}

// NotifyFailure posts a plain-text run failure notice to the channel
func (p *DiscordPublisher) NotifyFailure(message string) error {
	if err := p.send(Message{Content: message}); err != nil {
		return err
	}
	p.log.Info().Msg("Sent failure notice to Discord")
	return nil
}

// GetName returns the publisher name
func (p *DiscordPublisher) GetName() string {
	return "discord"
}

// Close is a no-op; webhook calls hold no persistent connection
func (p *DiscordPublisher) Close() error {
	return nil
}

func (p *DiscordPublisher) send(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return errs.NewPublisher("discord", "failed to encode message", err)
	}

	req, err := http.NewRequestWithContext(p.ctx, http.MethodPost, p.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return errs.NewPublisher("discord", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return errs.NewPublisher("discord", "webhook request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return errs.NewPublisher("discord",
			fmt.Sprintf("webhook returned %s: %s", resp.Status, string(body)), nil)
	}

	return nil
}
