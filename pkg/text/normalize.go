// Package text turns raw posting text into the canonical token string
// consumed by the TF-IDF vectorizer.
package text

import (
	"regexp"
	"strings"
)

var (
	// \S in RE2 is ASCII-only, so unicode spaces are excluded explicitly to
	// keep URL runs from swallowing the following word.
	urlRegex      = regexp.MustCompile(`http[^\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+|www\.[^\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+`)
	nonAlphaRegex = regexp.MustCompile(`[^a-z\s]`)
)

// Normalize lowercases raw, strips URL-like runs, keeps only a-z letters,
// collapses whitespace and drops English stopwords. The result may be empty.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = urlRegex.ReplaceAllString(s, "")
	s = nonAlphaRegex.ReplaceAllString(s, " ")

	tokens := strings.Fields(s)
	kept := tokens[:0]
	for _, t := range tokens {
		if IsStopWord(t) {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}
