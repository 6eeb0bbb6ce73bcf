package summarize

import (
	"regexp"
	"strings"
)

// Chat models tend to announce their answer and format it as markdown, both
// of which end up verbatim in the rendered PDF.
var (
	preamblePattern = regexp.MustCompile(
		`(?i)^\s*(sure[,!.]?\s*)?(here(\s+is|'s)\s+(a|the|your)\s+([a-z-]+\s+){0,3}summary[^:\n]*:|` +
			`summary\s*:)\s*`,
	)
	bulletPattern = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+[.)])\s+`)
	headingMarker = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis      = regexp.MustCompile(`\*\*|__`)
	spaceRun      = regexp.MustCompile(`\s+`)
)

// CleanChatOutput reduces a chat completion to plain summary prose.
func CleanChatOutput(s string) string {
	s = preamblePattern.ReplaceAllString(s, "")
	s = headingMarker.ReplaceAllString(s, "")
	s = bulletPattern.ReplaceAllString(s, "")
	s = emphasis.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
