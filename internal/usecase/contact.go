package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/integrations/resend"
)

// EmailSender delivers one contact submission and returns the provider
// message id.
type EmailSender interface {
	Send(ctx context.Context, sub domain.ContactSubmission) (string, error)
}

// SubmissionStore persists contact submissions for auditing.
type SubmissionStore interface {
	SaveSubmission(ctx context.Context, sub domain.ContactSubmission, submissionID string) error
}

// ContactService validates contact-form posts, records them, and relays them
// to the transactional-email provider.
type ContactService struct {
	mail  EmailSender
	store SubmissionStore
}

type SendOutput struct {
	SubmissionID string
	ProviderID   string
}

func NewContactService(mail EmailSender, store SubmissionStore) (*ContactService, error) {
	if mail == nil {
		return nil, errors.New("usecase: email sender must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: submission store must not be nil")
	}
	return &ContactService{mail: mail, store: store}, nil
}

// Send validates a submission, audit-logs it, and delivers it. The audit
// write is best-effort: a failed write is logged and delivery proceeds.
func (s *ContactService) Send(ctx context.Context, sub domain.ContactSubmission) (SendOutput, error) {
	if isBlank(sub.Name) || isBlank(sub.Email) || isBlank(sub.Subject) || isBlank(sub.Message) {
		return SendOutput{}, newError(ErrorInvalidRequest, "missing_fields", nil)
	}

	id := newSubmissionID()
	if err := s.store.SaveSubmission(ctx, sub, id); err != nil {
		slog.WarnContext(ctx, "contact submission audit write failed", "submissionId", id, "err", err)
	}

	providerID, err := s.mail.Send(ctx, sub)
	if err != nil {
		if errors.Is(err, resend.ErrAPIKeyNotConfigured) {
			return SendOutput{}, newError(ErrorMisconfigured, "resend_key_not_configured", err)
		}
		return SendOutput{}, newError(ErrorUpstream, "email_send_error", err)
	}

	return SendOutput{SubmissionID: id, ProviderID: providerID}, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

var newSubmissionID = func() string {
	return uuid.NewString()
}
