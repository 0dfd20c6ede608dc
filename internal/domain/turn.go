package domain

import "time"

// Turn is one widget-side transcript entry. Timestamps and suggested
// questions are client-side affordances; only role and content cross the
// wire.
type Turn struct {
	Role               string
	Content            string
	Timestamp          time.Time
	SuggestedQuestions []string
}

// Wire projects a transcript to the proxy request shape, stripping
// timestamps and suggested questions.
func Wire(turns []Turn) []ChatMessage {
	msgs := make([]ChatMessage, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, ChatMessage{Role: t.Role, Content: t.Content})
	}
	return msgs
}
