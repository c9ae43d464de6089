package utils

// Token estimation helpers used to keep prompts inside the gateway's
// context budget. The 4-characters-per-token heuristic is deliberately
// rough; prompt builders only need an upper bound.

// CountTokens estimates the number of tokens in text.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TruncateToTokenLimit trims text to roughly fit within limit tokens.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	charLimit := limit * 4
	if charLimit >= len(runes) {
		return text
	}
	return string(runes[:charLimit])
}
