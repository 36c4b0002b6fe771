package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/citimaster/booking-platform/internal/conversation"
	"github.com/citimaster/booking-platform/pkg/logging"
)

const defaultGraphBaseURL = "https://graph.facebook.com"

// Cloud API display limits. Longer labels are truncated, not rejected.
const (
	maxButtonTitleLen  = 20
	maxListRowTitleLen = 24
	maxListRowDescLen  = 72
	maxButtons         = 3
)

// Client posts messages through the WhatsApp Cloud API.
type Client struct {
	token         string
	phoneNumberID string
	apiVersion    string
	baseURL       string
	httpClient    *http.Client
	logger        *logging.Logger
	tracer        trace.Tracer
}

// ClientOption adjusts Client construction.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API host, used in tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a WhatsApp Cloud API client.
func NewClient(token, phoneNumberID, apiVersion string, logger *logging.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if apiVersion == "" {
		apiVersion = "v22.0"
	}
	c := &Client{
		token:         token,
		phoneNumberID: phoneNumberID,
		apiVersion:    apiVersion,
		baseURL:       defaultGraphBaseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        logger,
		tracer:        otel.Tracer("citimaster.internal.messaging.client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendText delivers a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	if strings.TrimSpace(body) == "" {
		return errors.New("messaging: body required")
	}
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]any{"body": body},
	}
	return c.post(ctx, to, "text", payload)
}

// SendButtons delivers a message with up to three quick-reply buttons.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []conversation.Button) error {
	if len(buttons) == 0 {
		return errors.New("messaging: at least one button required")
	}
	if len(buttons) > maxButtons {
		buttons = buttons[:maxButtons]
	}

	actionButtons := make([]map[string]any, 0, len(buttons))
	for _, b := range buttons {
		actionButtons = append(actionButtons, map[string]any{
			"type": "reply",
			"reply": map[string]any{
				"id":    b.ID,
				"title": truncate(b.Title, maxButtonTitleLen),
			},
		})
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]any{
			"type":   "button",
			"body":   map[string]any{"text": body},
			"action": map[string]any{"buttons": actionButtons},
		},
	}
	return c.post(ctx, to, "buttons", payload)
}

// SendList delivers a message with a list picker.
func (c *Client) SendList(ctx context.Context, to, body, buttonTitle string, sections []conversation.ListSection) error {
	if len(sections) == 0 {
		return errors.New("messaging: at least one section required")
	}

	outSections := make([]map[string]any, 0, len(sections))
	for _, s := range sections {
		rows := make([]map[string]any, 0, len(s.Rows))
		for _, r := range s.Rows {
			row := map[string]any{
				"id":    r.ID,
				"title": truncate(r.Title, maxListRowTitleLen),
			}
			if r.Description != "" {
				row["description"] = truncate(r.Description, maxListRowDescLen)
			}
			rows = append(rows, row)
		}
		outSections = append(outSections, map[string]any{
			"title": truncate(s.Title, maxListRowTitleLen),
			"rows":  rows,
		})
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]any{
			"type":   "list",
			"body":   map[string]any{"text": body},
			"action": map[string]any{
				"button":   truncate(buttonTitle, maxButtonTitleLen),
				"sections": outSections,
			},
		},
	}
	return c.post(ctx, to, "list", payload)
}

// post sends one message payload, retrying transient failures.
func (c *Client) post(ctx context.Context, to, kind string, payload map[string]any) error {
	if c.token == "" {
		return errors.New("messaging: whatsapp token missing")
	}
	if to == "" {
		return errors.New("messaging: to required")
	}

	ctx, span := c.tracer.Start(ctx, "messaging.whatsapp.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("citimaster.to", to),
		attribute.String("citimaster.message_kind", kind),
	)

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("messaging: failed to marshal payload: %w", err)
	}
	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			lastErr = err
			break
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				c.logger.Info("whatsapp message sent", "to", to, "kind", kind)
				return nil
			}
			lastErr = fmt.Errorf("whatsapp send failed: status %d, body: %s", resp.StatusCode, string(body))
			// Client errors will not succeed on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break
			}
		}

		if attempt < 3 {
			time.Sleep(time.Duration(200+rand.Intn(300)) * time.Millisecond)
		}
	}

	if lastErr != nil {
		span.RecordError(lastErr)
		c.logger.Error("failed to send whatsapp message", "error", lastErr, "to", to, "kind", kind)
	}
	return lastErr
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
