package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"portfolio-backend/internal/domain"
)

// chatRequest and chatResponse are the proxy wire shapes.
type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client is the HTTP transport to the chat proxy endpoint. No explicit
// request timeout is set; cancellation comes from the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("widget: base URL must not be empty")
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) chatEndpoint() string {
	return c.baseURL + "/api/chat"
}

// Send posts the projected transcript and returns the proxy's reply text.
func (c *Client) Send(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("widget: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatEndpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("widget: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("widget: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("widget: read response body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		var payload chatResponse
		if json.Unmarshal(buf, &payload) == nil && payload.Error != "" {
			return "", fmt.Errorf("widget: proxy error (status %d): %s", res.StatusCode, payload.Error)
		}
		return "", fmt.Errorf("widget: unexpected status %d", res.StatusCode)
	}

	var payload chatResponse
	if err := json.Unmarshal(buf, &payload); err != nil {
		return "", fmt.Errorf("widget: decode response: %w", err)
	}
	if payload.Message == "" {
		return "", errors.New("widget: empty message in response")
	}
	return payload.Message, nil
}
