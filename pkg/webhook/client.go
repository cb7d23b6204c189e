package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

// Message is the channel-agnostic notification content rendered into each
// webhook's payload shape.
type Message struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Timestamp   time.Time
}

// Field is a labelled value rendered inside the notification body.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Client posts notification payloads to Discord and Slack incoming webhooks.
type Client struct {
	httpClient *http.Client
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a webhook client with a sane default timeout.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

// PostDiscord delivers the message to a Discord incoming webhook as an embed.
func (c *Client) PostDiscord(ctx context.Context, webhookURL string, msg Message) error {
	if strings.TrimSpace(webhookURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "discord webhook url is required")
	}

	embed := discordEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.Color,
	}
	for _, f := range msg.Fields {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if !msg.Timestamp.IsZero() {
		embed.Timestamp = msg.Timestamp.UTC().Format(time.RFC3339)
	}

	return c.post(ctx, webhookURL, discordPayload{Embeds: []discordEmbed{embed}})
}

type slackField struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type   string       `json:"type"`
	Text   *slackField  `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
}

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

// PostSlack delivers the message to a Slack incoming webhook using blocks.
func (c *Client) PostSlack(ctx context.Context, webhookURL string, msg Message) error {
	if strings.TrimSpace(webhookURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "slack webhook url is required")
	}

	blocks := []slackBlock{
		{
			Type: "section",
			Text: &slackField{Type: "mrkdwn", Text: fmt.Sprintf("*%s*\n%s", msg.Title, msg.Description)},
		},
	}
	if len(msg.Fields) > 0 {
		fields := make([]slackField, 0, len(msg.Fields))
		for _, f := range msg.Fields {
			fields = append(fields, slackField{Type: "mrkdwn", Text: fmt.Sprintf("*%s*\n%s", f.Name, f.Value)})
		}
		blocks = append(blocks, slackBlock{Type: "section", Fields: fields})
	}

	return c.post(ctx, webhookURL, slackPayload{Text: msg.Title, Blocks: blocks})
}

func (c *Client) post(ctx context.Context, webhookURL string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute webhook request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"webhook delivery failed")
	}
	return nil
}
