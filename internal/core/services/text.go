package services

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

// hangulWord matches runs of two or more Hangul syllables.
var hangulWord = regexp.MustCompile(`[가-힣]{2,}`)

// ExtractMorphemes returns the distinct Hangul tokens of text.
func ExtractMorphemes(text string) []string {
	matches := hangulWord.FindAllString(text, -1)
	seen := domain.NewWordSet(matches...)
	return seen.Slice()
}

// sentenceEnders are the runes after which whitespace ends a sentence.
// 다 and 요 close most declarative Korean sentences.
var sentenceEnders = map[rune]bool{'.': true, '?': true, '!': true, '다': true, '요': true}

// SplitSentences segments text on whitespace that follows a sentence ender.
// Sentences are trimmed and empty ones dropped. Duplicates are kept.
func SplitSentences(text string) []string {
	var (
		out   []string
		start int
		prev  rune
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if unicode.IsSpace(r) && sentenceEnders[prev] {
			out = appendSentence(out, string(runes[start:i]))
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
			start = i + 1
		}
		prev = r
	}
	if start < len(runes) {
		out = appendSentence(out, string(runes[start:]))
	}
	return out
}

func appendSentence(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}

// containsKnownValue reports whether text contains any value of known.
func containsKnownValue(text string, known *domain.CategoryMap) bool {
	for _, category := range known.Categories() {
		for _, value := range known.Values(category) {
			if strings.Contains(text, value) {
				return true
			}
		}
	}
	return false
}
