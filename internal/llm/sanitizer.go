package llm

import "strings"

// CleanCompletion strips markdown code fences that models sometimes wrap
// around their output despite instructions not to. A leading fence is
// dropped through the end of its line, which also discards any language tag
// on the fence; a trailing fence is dropped. Fence-free text passes through
// unchanged, and the function is idempotent.
func CleanCompletion(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		if newline := strings.Index(text, "\n"); newline != -1 {
			text = strings.TrimSpace(text[newline:])
		} else {
			// Single line of fences and content, nothing to split on
			text = strings.TrimSpace(strings.ReplaceAll(text, "```", ""))
		}
	}

	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-3])
	}

	return text
}
