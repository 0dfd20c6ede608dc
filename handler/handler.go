package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
)

const (
	chatPath  = "/api/chat"
	emailPath = "/api/send-email"
)

// Public error bodies. These are part of the site contract; real causes stay
// in the logs.
const (
	msgInvalidMessages  = "Invalid request: messages must be an array"
	msgKeyNotConfigured = "API key not configured"
	msgChatFailed       = "Failed to process chat request"
	msgMissingFields    = "Missing required fields"
	msgEmailFailed      = "Failed to send email"
)

type ChatUseCase interface {
	Respond(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

type ContactUseCase interface {
	Send(ctx context.Context, sub domain.ContactSubmission) (usecase.SendOutput, error)
}

// Handler routes API Gateway events to the chat proxy and the contact relay.
type Handler struct {
	chat    ChatUseCase
	contact ContactUseCase
}

func NewHandler(chat ChatUseCase, contact ContactUseCase) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat use case must not be nil")
	}
	if contact == nil {
		return nil, errors.New("handler: contact use case must not be nil")
	}
	return &Handler{chat: chat, contact: contact}, nil
}

type chatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

type chatSuccessResponse struct {
	Message string `json:"message"`
}

type emailSuccessResponse struct {
	Success bool      `json:"success"`
	Data    emailData `json:"data"`
}

type emailData struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(event.Headers)
	log := slog.With("correlationId", corrID, "method", event.HTTPMethod, "path", event.Path)

	if event.HTTPMethod != http.MethodPost {
		return respond(http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"}, corrID), nil
	}

	switch event.Path {
	case chatPath:
		return h.handleChat(ctx, event, corrID, log), nil
	case emailPath:
		return h.handleEmail(ctx, event, corrID, log), nil
	default:
		return respond(http.StatusNotFound, errorResponse{Error: "Not found"}, corrID), nil
	}
}

func (h *Handler) handleChat(ctx context.Context, event events.APIGatewayProxyRequest, corrID string, log *slog.Logger) events.APIGatewayProxyResponse {
	var req chatRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		log.Warn("chat request body is not valid JSON", "err", err)
		return respond(http.StatusBadRequest, errorResponse{Error: msgInvalidMessages}, corrID)
	}

	messages, ok := decodeMessages(req.Messages)
	if !ok {
		log.Warn("chat request messages missing or not an array")
		return respond(http.StatusBadRequest, errorResponse{Error: msgInvalidMessages}, corrID)
	}

	reply, err := h.chat.Respond(ctx, messages)
	if err != nil {
		return chatErrorResponse(err, corrID, log)
	}

	resp := respond(http.StatusOK, chatSuccessResponse{Message: reply}, corrID)
	resp.Headers["Cache-Control"] = "no-store"
	return resp
}

// decodeMessages enforces the messages-must-be-an-ordered-sequence contract
// on the raw JSON, where the distinction is still visible after decoding.
func decodeMessages(raw json.RawMessage) ([]domain.ChatMessage, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var messages []domain.ChatMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, false
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	return messages, true
}

func chatErrorResponse(err error, corrID string, log *slog.Logger) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		switch ucErr.Code {
		case usecase.ErrorInvalidRequest:
			log.Warn("chat request rejected", "reason", ucErr.Reason)
			return respond(http.StatusBadRequest, errorResponse{Error: msgInvalidMessages}, corrID)
		case usecase.ErrorMisconfigured:
			log.Error("chat proxy misconfigured", "reason", ucErr.Reason, "err", err)
			return respond(http.StatusInternalServerError, errorResponse{Error: msgKeyNotConfigured}, corrID)
		}
	}
	log.Error("chat request failed", "err", err)
	return respond(http.StatusInternalServerError, errorResponse{Error: msgChatFailed}, corrID)
}

func (h *Handler) handleEmail(ctx context.Context, event events.APIGatewayProxyRequest, corrID string, log *slog.Logger) events.APIGatewayProxyResponse {
	var sub domain.ContactSubmission
	if err := json.Unmarshal([]byte(event.Body), &sub); err != nil {
		log.Warn("email request body is not valid JSON", "err", err)
		return respond(http.StatusBadRequest, errorResponse{Error: msgMissingFields}, corrID)
	}

	out, err := h.contact.Send(ctx, sub)
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidRequest {
			log.Warn("email request rejected", "reason", ucErr.Reason)
			return respond(http.StatusBadRequest, errorResponse{Error: msgMissingFields}, corrID)
		}
		log.Error("email send failed", "err", err)
		return respond(http.StatusInternalServerError, errorResponse{Error: msgEmailFailed}, corrID)
	}

	log.Info("contact email delivered", "submissionId", out.SubmissionID)
	return respond(http.StatusOK, emailSuccessResponse{Success: true, Data: emailData{ID: out.ProviderID}}, corrID)
}

func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "X-Correlation-Id") && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return uuid.NewString()
}

func respond(status int, body any, corrID string) events.APIGatewayProxyResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		raw = []byte(`{"error":"Internal error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":     "application/json",
			"X-Correlation-Id": corrID,
		},
		Body: string(raw),
	}
}
