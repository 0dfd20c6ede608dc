package usecase

import (
	"context"
	"errors"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/integrations/openai"
)

// maxHistoryTurns bounds how much of the supplied transcript is forwarded to
// the provider, to cap token cost. Oldest turns are dropped first.
const maxHistoryTurns = 8

// CompletionClient is the outbound chat-completion dependency.
type CompletionClient interface {
	Complete(ctx context.Context, model string, input []domain.ChatMessage) (string, error)
}

// ChatService implements the chat proxy: trim the conversation, prepend the
// scope guardrail, forward to the provider, return one plain-text reply.
// It holds no per-request state and is safe for concurrent use.
type ChatService struct {
	llm       CompletionClient
	model     string
	guardrail string
}

func NewChatService(llm CompletionClient, model, ownerName string) (*ChatService, error) {
	if llm == nil {
		return nil, errors.New("usecase: completion client must not be nil")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("usecase: model must not be empty")
	}
	return &ChatService{
		llm:       llm,
		model:     model,
		guardrail: buildScopeGuardrail(ownerName),
	}, nil
}

// Respond forwards the trimmed conversation to the provider and returns a
// single plain-text reply. The transcript may be empty but must not be nil;
// the handler has already rejected bodies where messages is absent or not an
// array.
func (s *ChatService) Respond(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if messages == nil {
		return "", newError(ErrorInvalidRequest, "missing_messages", nil)
	}

	input := make([]domain.ChatMessage, 0, maxHistoryTurns+1)
	input = append(input, domain.ChatMessage{Role: domain.RoleSystem, Content: s.guardrail})

	start := 0
	if len(messages) > maxHistoryTurns {
		start = len(messages) - maxHistoryTurns
	}
	for _, m := range messages[start:] {
		// Anything that is not an assistant turn is forwarded as a user
		// turn; content is never altered or dropped.
		role := domain.RoleUser
		if m.Role == domain.RoleAssistant {
			role = domain.RoleAssistant
		}
		input = append(input, domain.ChatMessage{Role: role, Content: m.Content})
	}

	reply, err := s.llm.Complete(ctx, s.model, input)
	if err != nil {
		if errors.Is(err, openai.ErrAPIKeyNotConfigured) {
			return "", newError(ErrorMisconfigured, "api_key_not_configured", err)
		}
		return "", newError(ErrorUpstream, "completion_error", err)
	}
	return reply, nil
}
