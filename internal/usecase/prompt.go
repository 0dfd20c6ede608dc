package usecase

import (
	"fmt"
	"strings"
)

const defaultOwnerName = "the portfolio owner"

// buildScopeGuardrail returns the fixed system instruction prepended to every
// provider request. It pins the assistant to portfolio topics and to a fixed
// refusal sentence for everything else.
func buildScopeGuardrail(ownerName string) string {
	owner := strings.TrimSpace(ownerName)
	if owner == "" {
		owner = defaultOwnerName
	}
	return strings.Join([]string{
		fmt.Sprintf("You are %s's AI Assistant.", owner),
		"",
		"Your ONLY job:",
		fmt.Sprintf("- Help visitors learn about %s's portfolio, projects, skills, services, background, and how to contact them.", owner),
		"",
		"STRICT RULES:",
		fmt.Sprintf("- If the user asks anything OUTSIDE %s's portfolio (math, jokes, general knowledge, politics, cooking, celebrities, unrelated coding help), DO NOT answer it.", owner),
		fmt.Sprintf("- Instead reply: %q", refusalSentence(owner)),
		"",
		"- Do NOT invent facts.",
		"- Keep replies short, friendly, and helpful.",
		"",
		"Allowed Topics:",
		fmt.Sprintf("- %s's skills, experience, projects, services, contact info, technologies, education, certifications.", owner),
	}, "\n")
}

func refusalSentence(owner string) string {
	return fmt.Sprintf("I'm here only to help you explore %s's portfolio, skills, and projects. Please ask something related to their work.", owner)
}
