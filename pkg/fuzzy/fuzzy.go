package fuzzy

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// summarySnippetLen bounds how many runes of a summary are scanned word by word
const summarySnippetLen = 1000

// LevenshteinDistance calculates the edit distance between two strings
// after lowercasing and accent folding, counted in runes
func LevenshteinDistance(s1, s2 string) int {
	return levenshtein.ComputeDistance(normalizeString(s1), normalizeString(s2))
}

// Threshold returns the typo tolerance for a query of the given length
func Threshold(query string) int {
	n := len([]rune(query))
	switch {
	case n <= 3:
		return 1
	case n >= 8:
		return 3
	default:
		return 2
	}
}

// fuzzyMatch checks if query fuzzy-matches text within a given threshold
// threshold is the maximum allowed edit distance
func fuzzyMatch(query, text string, threshold int) bool {
	query = normalizeString(query)
	text = normalizeString(text)
	if query == "" {
		return false
	}

	if strings.Contains(text, query) {
		return true
	}

	for _, word := range words(text) {
		if strings.HasPrefix(word, query) {
			return true
		}
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
	}

	return false
}

// RelevanceScore scores how relevant a summary record is to a query.
// Higher score = more relevant, 0 means no match.
func RelevanceScore(query, url, summary string) float64 {
	query = normalizeString(query)
	if query == "" {
		return 0
	}
	threshold := Threshold(query)
	score := 0.0

	// URL matches weigh the most
	urlNorm := normalizeString(url)
	urlWords := words(urlNorm)
	if strings.Contains(urlNorm, query) {
		score += 80.0
		if containsWord(urlWords, query) {
			score += 40.0
		}
	} else {
		for _, word := range urlWords {
			if strings.HasPrefix(word, query) {
				score += 30.0
				continue
			}
			if dist := LevenshteinDistance(query, word); dist <= threshold {
				score += 40.0 - float64(dist)*10
			}
		}
	}

	summaryNorm := normalizeString(summary)
	if strings.Contains(summaryNorm, query) {
		score += 60.0
		if containsWord(words(summaryNorm), query) {
			score += 30.0
		}
		return score
	}

	if r := []rune(summaryNorm); len(r) > summarySnippetLen {
		summaryNorm = string(r[:summarySnippetLen])
	}
	if !fuzzyMatch(query, summaryNorm, threshold) {
		return score
	}
	for _, word := range words(summaryNorm) {
		if dist := LevenshteinDistance(query, word); dist <= threshold {
			score += 20.0 - float64(dist)*5
		}
	}

	return score
}

// Helper functions

// normalizeString lowercases, strips accents and collapses whitespace
func normalizeString(s string) string {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripper, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// words splits on anything that is not a letter or digit, so URLs tokenize too
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsWord(words []string, query string) bool {
	for _, word := range words {
		if word == query {
			return true
		}
	}
	return false
}
