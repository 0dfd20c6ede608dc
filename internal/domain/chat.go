package domain

// Conversation roles used on the wire between the widget, the proxy, and the
// completion provider. The system role is injected by the proxy only; the
// widget transcript never contains it.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is the wire shape for one conversation turn, shared by the
// proxy request body and the provider payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
