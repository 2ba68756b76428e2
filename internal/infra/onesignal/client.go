package onesignal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"loadtracker/internal/domain/push"
)

const (
	providerName = "onesignal"
	userAgent    = "LoadTracker-Go/1.0"
)

// Config holds the credentials and endpoint for the REST API.
type Config struct {
	AppID      string
	RESTAPIKey string
	BaseURL    string        // e.g. https://api.onesignal.com
	AuthScheme string        // "Basic" for legacy REST keys, "Key" for app API keys
	Timeout    time.Duration
}

// Client talks to the OneSignal REST API. It is built once from Config and
// carries no hidden initialisation state.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient builds a client. Missing credentials are reported per call with
// push.ErrNotConfigured so the HTTP surface can still start.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.onesignal.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Basic"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.AppID != "" && c.cfg.RESTAPIKey != ""
}

type localized struct {
	En string `json:"en"`
}

type filter struct {
	Field    string `json:"field,omitempty"`
	Key      string `json:"key,omitempty"`
	Relation string `json:"relation,omitempty"`
	Value    string `json:"value,omitempty"`
	Operator string `json:"operator,omitempty"`
}

type createNotificationRequest struct {
	AppID          string    `json:"app_id"`
	TargetChannel  string    `json:"target_channel"`
	Contents       localized `json:"contents"`
	Headings       localized `json:"headings"`
	Filters        []filter  `json:"filters,omitempty"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
}

type createNotificationResponse struct {
	ID         string          `json:"id"`
	Recipients int             `json:"recipients"`
	Errors     json.RawMessage `json:"errors"`
}

// audienceFilters targets subscribers whose tag is "false" or absent.
func audienceFilters(a push.Audience) []filter {
	if a.ExcludeTag == "" {
		return nil
	}
	return []filter{
		{Field: "tag", Key: a.ExcludeTag, Relation: "=", Value: "false"},
		{Operator: "OR"},
		{Field: "tag", Key: a.ExcludeTag, Relation: "not_exists"},
	}
}

// Push creates a push notification for the audience.
func (c *Client) Push(ctx context.Context, n push.Notification) (push.Receipt, error) {
	if !c.Configured() {
		return push.Receipt{}, fmt.Errorf("missing OneSignal credentials: %w", push.ErrNotConfigured)
	}

	body := createNotificationRequest{
		AppID:          c.cfg.AppID,
		TargetChannel:  "push",
		Contents:       localized{En: n.Body},
		Headings:       localized{En: n.Title},
		Filters:        audienceFilters(n.Audience),
		IdempotencyKey: n.IdempotencyKey,
	}
	var out createNotificationResponse
	if err := c.do(ctx, http.MethodPost, "/notifications", body, &out); err != nil {
		return push.Receipt{}, fmt.Errorf("send OneSignal notification: %w", err)
	}
	// An accepted request with no ID means the audience was empty; OneSignal
	// explains why in "errors".
	receipt := push.Receipt{Provider: providerName, ID: out.ID, Recipients: out.Recipients}
	if out.ID == "" && len(out.Errors) > 0 && string(out.Errors) != "null" {
		receipt.Note = string(out.Errors)
	}
	return receipt, nil
}

type updateUserRequest struct {
	Properties struct {
		Tags map[string]string `json:"tags"`
	} `json:"properties"`
}

// SetTag updates one tag on the user identified by external_id.
func (c *Client) SetTag(ctx context.Context, externalID, key, value string) error {
	if !c.Configured() {
		return fmt.Errorf("missing OneSignal credentials: %w", push.ErrNotConfigured)
	}
	var body updateUserRequest
	body.Properties.Tags = map[string]string{key: value}

	path := fmt.Sprintf("/apps/%s/users/by/external_id/%s", url.PathEscape(c.cfg.AppID), url.PathEscape(externalID))
	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("update OneSignal user tag: %w", err)
	}
	return nil
}

// APIError is a non-success answer from OneSignal.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("onesignal returned %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", c.cfg.AuthScheme+" "+c.cfg.RESTAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
