package chunker

import (
	"strings"
	"unicode"
)

// tokensPerWord approximates subword tokenizers on English prose.
const tokensPerWord = 1.33

// EstimateTokens gives a rough token count from the word count.
// Exact tokenization happens server-side; this only bounds request size.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * tokensPerWord)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// TruncateTokens cuts text after the last whole word that keeps the
// estimate within maxTokens. A non-positive maxTokens disables the cap.
func TruncateTokens(text string, maxTokens int) string {
	if maxTokens <= 0 || EstimateTokens(text) <= maxTokens {
		return text
	}
	keep := max(int(float64(maxTokens)/tokensPerWord), 1)

	words := 0
	inWord := false
	for i, r := range text {
		if !unicode.IsSpace(r) {
			inWord = true
			continue
		}
		if inWord {
			words++
			inWord = false
			if words == keep {
				return text[:i]
			}
		}
	}
	return text
}
