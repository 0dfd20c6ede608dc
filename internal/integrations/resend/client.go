package resend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	resendgo "github.com/resend/resend-go/v2"

	"portfolio-backend/internal/domain"
)

const (
	// Fixed sender; the submitter's address goes in reply-to so the owner
	// can answer directly.
	fromAddress   = "Portfolio Contact <onboarding@resend.dev>"
	subjectPrefix = "New Portfolio Message: "
)

// tokenPayload is the expected JSON shape stored in SSM for the API token.
type tokenPayload struct {
	Token string `json:"token"`
}

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ErrAPIKeyNotConfigured marks a send that failed before the provider was
// called because no usable credential could be resolved.
var ErrAPIKeyNotConfigured = errors.New("resend: API key not configured")

// EmailsAPI is the slice of the Resend SDK used by Client.
type EmailsAPI interface {
	SendWithContext(ctx context.Context, params *resendgo.SendEmailRequest) (*resendgo.SendEmailResponse, error)
}

// Client delivers contact-form notifications through Resend. The SDK client
// is built lazily on first send, once the API key has been read from SSM.
type Client struct {
	getter      Getter
	paramPrefix string
	toAddress   string
	newEmails   func(apiKey string) EmailsAPI

	initOnce sync.Once
	emails   EmailsAPI
	initErr  error
}

type Option func(*Client)

// WithEmailsFactory overrides SDK construction, for tests.
func WithEmailsFactory(f func(apiKey string) EmailsAPI) Option {
	return func(c *Client) {
		c.newEmails = f
	}
}

func NewClient(ps Getter, paramPrefix, toAddress string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("resend: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("resend: parameter prefix must not be empty")
	}
	toAddress = strings.TrimSpace(toAddress)
	if toAddress == "" {
		return nil, errors.New("resend: recipient address must not be empty")
	}
	c := &Client{
		getter:      ps,
		paramPrefix: paramPrefix,
		toAddress:   toAddress,
		newEmails: func(apiKey string) EmailsAPI {
			return resendgo.NewClient(apiKey).Emails
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) apiKeyParameterName() string {
	return c.paramPrefix + "/resend-api-key"
}

func (c *Client) resolveEmails(ctx context.Context) (EmailsAPI, error) {
	c.initOnce.Do(func() {
		raw, err := c.getter.GetParameter(ctx, c.apiKeyParameterName())
		if err != nil {
			c.initErr = fmt.Errorf("resend: fetch API key from paramstore: %w", err)
			return
		}
		var tp tokenPayload
		if err := json.Unmarshal([]byte(raw), &tp); err != nil {
			c.initErr = fmt.Errorf("resend: unmarshal paramstore token value as JSON: %w", err)
			return
		}
		if tp.Token == "" {
			c.initErr = errors.New("resend: API token is empty")
			return
		}
		c.emails = c.newEmails(tp.Token)
	})
	if c.initErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIKeyNotConfigured, c.initErr)
	}
	return c.emails, nil
}

// Send delivers one contact submission and returns the provider message id.
func (c *Client) Send(ctx context.Context, sub domain.ContactSubmission) (string, error) {
	emails, err := c.resolveEmails(ctx)
	if err != nil {
		return "", err
	}

	sent, err := emails.SendWithContext(ctx, &resendgo.SendEmailRequest{
		From:    fromAddress,
		To:      []string{c.toAddress},
		ReplyTo: sub.Email,
		Subject: subjectPrefix + sub.Subject,
		Html:    buildHTMLBody(sub),
	})
	if err != nil {
		return "", fmt.Errorf("resend: send email: %w", err)
	}
	if sent == nil || sent.Id == "" {
		return "", errors.New("resend: empty send response")
	}
	return sent.Id, nil
}

// buildHTMLBody renders the notification email. Submitter input is escaped
// before interpolation.
func buildHTMLBody(sub domain.ContactSubmission) string {
	message := strings.ReplaceAll(html.EscapeString(sub.Message), "\n", "<br>")
	return fmt.Sprintf(strings.Join([]string{
		"<h2>New Message from Your Portfolio</h2>",
		"<p><strong>From:</strong> %s</p>",
		"<p><strong>Email:</strong> %s</p>",
		"<p><strong>Subject:</strong> %s</p>",
		"<hr />",
		"<p><strong>Message:</strong></p>",
		"<p>%s</p>",
	}, "\n"),
		html.EscapeString(sub.Name),
		html.EscapeString(sub.Email),
		html.EscapeString(sub.Subject),
		message,
	)
}
