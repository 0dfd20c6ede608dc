package openai

import (
	"strings"

	"github.com/tidwall/gjson"
)

// maxRawFallback bounds the serialized-payload fallback reply.
const maxRawFallback = 2000

// extractReplyText pulls a single plain-text reply out of a Responses API
// payload. Priority order: the flattened output_text field verbatim, then the
// output item list joined with newlines, then the raw payload truncated. The
// last step means a non-empty payload never yields an empty reply.
func extractReplyText(raw []byte) string {
	root := gjson.ParseBytes(raw)

	if text := root.Get("output_text"); text.Type == gjson.String && strings.TrimSpace(text.String()) != "" {
		return text.String()
	}

	if items := root.Get("output"); items.IsArray() {
		var parts []string
		items.ForEach(func(_, item gjson.Result) bool {
			parts = append(parts, outputItemText(item))
			return true
		})
		if joined := strings.TrimSpace(strings.Join(parts, "\n")); joined != "" {
			return joined
		}
	}

	return truncateRaw(string(raw))
}

// outputItemText flattens one output item: a bare string, a string content
// field, a content fragment list (text-else-value per fragment), or the
// item's own text field.
func outputItemText(item gjson.Result) string {
	if item.Type == gjson.String {
		return item.String()
	}
	content := item.Get("content")
	switch {
	case content.Type == gjson.String:
		return content.String()
	case content.IsArray():
		var b strings.Builder
		content.ForEach(func(_, frag gjson.Result) bool {
			if text := frag.Get("text"); text.Exists() {
				b.WriteString(text.String())
			} else if value := frag.Get("value"); value.Exists() {
				b.WriteString(value.String())
			}
			return true
		})
		return b.String()
	}
	return item.Get("text").String()
}

func truncateRaw(s string) string {
	if len(s) > maxRawFallback {
		return s[:maxRawFallback]
	}
	return s
}
