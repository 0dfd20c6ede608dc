package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
)

type stubChat struct {
	reply    string
	err      error
	captured []domain.ChatMessage
	calls    int
}

func (s *stubChat) Respond(_ context.Context, messages []domain.ChatMessage) (string, error) {
	s.calls++
	s.captured = messages
	return s.reply, s.err
}

type stubContact struct {
	out      usecase.SendOutput
	err      error
	captured domain.ContactSubmission
	calls    int
}

func (s *stubContact) Send(_ context.Context, sub domain.ContactSubmission) (usecase.SendOutput, error) {
	s.calls++
	s.captured = sub
	return s.out, s.err
}

func newTestHandler(t *testing.T, chat ChatUseCase, contact ContactUseCase) *Handler {
	t.Helper()
	h, err := NewHandler(chat, contact)
	require.NoError(t, err)
	return h
}

func makeEvent(method, path, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Path:       path,
		Body:       body,
	}
}

func errorBody(t *testing.T, resp events.APIGatewayProxyResponse) string {
	t.Helper()
	var payload errorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &payload))
	return payload.Error
}

func TestNewHandler_Validation(t *testing.T) {
	_, err := NewHandler(nil, &stubContact{})
	require.Error(t, err)

	_, err = NewHandler(&stubChat{}, nil)
	require.Error(t, err)
}

func TestHandle_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, &stubChat{}, &stubContact{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodGet, "/api/chat", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandle_UnknownPath(t *testing.T) {
	h := newTestHandler(t, &stubChat{}, &stubContact{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/unknown", "{}"))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleChat_HappyPath(t *testing.T) {
	chat := &stubChat{reply: "I build backends in Go."}
	h := newTestHandler(t, chat, &stubContact{})

	body := `{"messages":[{"role":"user","content":"What do you do?"}]}`
	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/chat", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Headers["Content-Type"])
	require.Equal(t, "no-store", resp.Headers["Cache-Control"])
	require.NotEmpty(t, resp.Headers["X-Correlation-Id"])

	var payload chatSuccessResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &payload))
	require.Equal(t, "I build backends in Go.", payload.Message)
	require.Equal(t, []domain.ChatMessage{{Role: "user", Content: "What do you do?"}}, chat.captured)
}

func TestHandleChat_EmptyMessagesArrayForwarded(t *testing.T) {
	chat := &stubChat{reply: "hi"}
	h := newTestHandler(t, chat, &stubContact{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/chat", `{"messages":[]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, chat.calls)
	require.NotNil(t, chat.captured)
	require.Empty(t, chat.captured)
}

func TestHandleChat_InvalidJSONBody(t *testing.T) {
	chat := &stubChat{}
	h := newTestHandler(t, chat, &stubContact{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/chat", "not json"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid request: messages must be an array", errorBody(t, resp))
	require.Zero(t, chat.calls)
}

func TestHandleChat_MessagesNotAnArray(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing field", body: `{}`},
		{name: "null", body: `{"messages":null}`},
		{name: "string", body: `{"messages":"hello"}`},
		{name: "object", body: `{"messages":{"role":"user"}}`},
		{name: "number", body: `{"messages":7}`},
		{name: "malformed elements", body: `{"messages":[42]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chat := &stubChat{}
			h := newTestHandler(t, chat, &stubContact{})

			resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/chat", tc.body))
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "Invalid request: messages must be an array", errorBody(t, resp))
			require.Zero(t, chat.calls)
		})
	}
}

func TestHandleChat_InvalidRequestFromUseCase(t *testing.T) {
	chat := &stubChat{err: &usecase.Error{Code: usecase.ErrorInvalidRequest, Reason: "missing_messages"}}
	h := newTestHandler(t, chat, &stubContact{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/chat", `{"messages":[]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid request: messages must be an array", errorBody(t, resp))
}

func TestHandleChat_Misconfigured(t *testing.T) {
	chat := &stubChat{err: &usecase.Error{
		Code:   usecase.ErrorMisconfigured,
		Reason: "api_key_not_configured",
		Err:    errors.New("ParameterNotFound"),
	}}
	h := newTestHandler(t, chat, &stubContact{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/chat", `{"messages":[]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "API key not configured", errorBody(t, resp))
}

func TestHandleChat_UpstreamFailure(t *testing.T) {
	chat := &stubChat{err: &usecase.Error{
		Code:   usecase.ErrorUpstream,
		Reason: "completion_error",
		Err:    errors.New("status 502"),
	}}
	h := newTestHandler(t, chat, &stubContact{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/chat", `{"messages":[]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "Failed to process chat request", errorBody(t, resp))
}

func TestHandleChat_UnexpectedError(t *testing.T) {
	chat := &stubChat{err: errors.New("boom")}
	h := newTestHandler(t, chat, &stubContact{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/chat", `{"messages":[]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "Failed to process chat request", errorBody(t, resp))
}

func TestHandleEmail_HappyPath(t *testing.T) {
	contact := &stubContact{out: usecase.SendOutput{SubmissionID: "sub-1", ProviderID: "email-123"}}
	h := newTestHandler(t, &stubChat{}, contact)

	body := `{"name":"Jamie","email":"jamie@example.com","subject":"Hi","message":"Are you available?"}`
	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/send-email", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload emailSuccessResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &payload))
	require.True(t, payload.Success)
	require.Equal(t, "email-123", payload.Data.ID)
	require.Equal(t, "Jamie", contact.captured.Name)
	require.Equal(t, "jamie@example.com", contact.captured.Email)
}

func TestHandleEmail_InvalidJSONBody(t *testing.T) {
	contact := &stubContact{}
	h := newTestHandler(t, &stubChat{}, contact)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/send-email", "not json"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Missing required fields", errorBody(t, resp))
	require.Zero(t, contact.calls)
}

func TestHandleEmail_MissingFields(t *testing.T) {
	contact := &stubContact{err: &usecase.Error{Code: usecase.ErrorInvalidRequest, Reason: "missing_fields"}}
	h := newTestHandler(t, &stubChat{}, contact)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/send-email", `{"name":"Jamie"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Missing required fields", errorBody(t, resp))
}

func TestHandleEmail_ProviderFailure(t *testing.T) {
	contact := &stubContact{err: &usecase.Error{
		Code:   usecase.ErrorUpstream,
		Reason: "email_send_error",
		Err:    errors.New("422 unprocessable"),
	}}
	h := newTestHandler(t, &stubChat{}, contact)

	body := `{"name":"Jamie","email":"jamie@example.com","subject":"Hi","message":"Hello"}`
	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/send-email", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "Failed to send email", errorBody(t, resp))
}

func TestHandle_CorrelationIDPassthrough(t *testing.T) {
	h := newTestHandler(t, &stubChat{reply: "hi"}, &stubContact{})

	event := makeEvent(http.MethodPost, "/api/chat", `{"messages":[]}`)
	event.Headers = map[string]string{"x-CORRELATION-id": "corr-42"}

	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "corr-42", resp.Headers["X-Correlation-Id"])
}

func TestHandle_CorrelationIDGeneratedWhenAbsent(t *testing.T) {
	h := newTestHandler(t, &stubChat{reply: "hi"}, &stubContact{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/chat", `{"messages":[]}`))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Headers["X-Correlation-Id"])
}
