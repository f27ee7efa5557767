package analysis

import "strings"

const titleScanLines = 10

// ArticleTitle picks a title from the first lines of the document: the first
// non-blank line among the first ten that has more than 3 space-delimited
// words and does not mention "abstract". Falls back to "Untitled".
func ArticleTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > titleScanLines {
		lines = lines[:titleScanLines]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if len(strings.Split(trimmed, " ")) <= 3 {
			continue
		}
		if strings.Contains(strings.ToLower(trimmed), "abstract") {
			continue
		}
		return trimmed
	}
	return "Untitled"
}

// WordCount hitung token yang dipisah whitespace
func WordCount(text string) int {
	return len(strings.Fields(text))
}
