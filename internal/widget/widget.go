// Package widget holds the client-side chat state: the visible transcript,
// the closed/preview/open visibility machine, and transport to the chat
// proxy.
package widget

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-backend/internal/domain"
)

// State is the widget's UI visibility, not business logic. The widget is
// re-enterable indefinitely; there is no terminal state.
type State string

const (
	StateClosed       State = "closed"
	StatePreviewShown State = "preview"
	StateOpen         State = "open"
)

const (
	greetingText = "Greetings! 👋"
	apologyText  = "Sorry, I encountered an error. Please try again."
)

// Starter questions attached to the greeting turn. These are pre-validated
// constants, so SendSuggested skips the emptiness check.
var suggestedQuestions = []string{
	"What are your main skills and expertise?",
	"Tell me about your recent projects",
	"How can I hire you for a project?",
}

var (
	ErrEmptyMessage = errors.New("widget: message must not be empty")
	ErrSendInFlight = errors.New("widget: a send is already in flight")
)

// Proxy is the transport to the chat proxy endpoint.
type Proxy interface {
	Send(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// Widget owns one chat session. It models the single-threaded UI it stands
// in for and is not safe for concurrent use.
type Widget struct {
	proxy      Proxy
	state      State
	transcript []domain.Turn
	loading    bool
	now        func() time.Time
}

func New(proxy Proxy) (*Widget, error) {
	if proxy == nil {
		return nil, errors.New("widget: proxy must not be nil")
	}
	w := &Widget{
		proxy: proxy,
		state: StatePreviewShown,
		now:   time.Now,
	}
	w.transcript = append(w.transcript, domain.Turn{
		Role:               domain.RoleAssistant,
		Content:            greetingText,
		Timestamp:          w.now(),
		SuggestedQuestions: append([]string(nil), suggestedQuestions...),
	})
	return w, nil
}

func (w *Widget) State() State { return w.state }

func (w *Widget) Loading() bool { return w.loading }

// Transcript returns a copy of the conversation so far.
func (w *Widget) Transcript() []domain.Turn {
	return append([]domain.Turn(nil), w.transcript...)
}

// DismissPreview hides the preview bubble without opening the chat.
func (w *Widget) DismissPreview() {
	if w.state == StatePreviewShown {
		w.state = StateClosed
	}
}

// StartChat opens the chat from the preview bubble.
func (w *Widget) StartChat() {
	if w.state == StatePreviewShown {
		w.state = StateOpen
	}
}

// Open opens the chat from the floating button.
func (w *Widget) Open() {
	if w.state == StateClosed {
		w.state = StateOpen
	}
}

// Close hides the chat (close button or Escape). The widget stays
// re-enterable.
func (w *Widget) Close() {
	w.state = StateClosed
}

// Send posts a free-typed message. Blank input is rejected before any state
// changes.
func (w *Widget) Send(ctx context.Context, text string) (domain.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Turn{}, ErrEmptyMessage
	}
	return w.send(ctx, text)
}

// SendSuggested posts one of the starter questions, skipping the emptiness
// check Send applies to typed input.
func (w *Widget) SendSuggested(ctx context.Context, question string) (domain.Turn, error) {
	return w.send(ctx, question)
}

// send appends the user turn optimistically, forwards the whole transcript,
// and appends either the reply or a fixed apology. Transport failures never
// reach the caller, and the loading flag always clears. One send may be in
// flight at a time.
func (w *Widget) send(ctx context.Context, text string) (domain.Turn, error) {
	if w.loading {
		return domain.Turn{}, ErrSendInFlight
	}

	w.transcript = append(w.transcript, domain.Turn{
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: w.now(),
	})
	w.loading = true
	defer func() { w.loading = false }()

	reply, err := w.proxy.Send(ctx, domain.Wire(w.transcript))

	turn := domain.Turn{Role: domain.RoleAssistant, Timestamp: w.now()}
	if err != nil {
		turn.Content = apologyText
	} else {
		turn.Content = reply
	}
	w.transcript = append(w.transcript, turn)
	return turn, nil
}
