package feature

import (
	"regexp"
	"strings"
)

// RE2's \s and \d are ASCII-only. These classes match any Unicode
// whitespace and decimal digit instead.
const (
	space = `\s\v\p{Z}\x{85}\x{1c}-\x{1f}`
	digit = `\p{Nd}`
)

var (
	moneyRegex = regexp.MustCompile(`(\$|usd|rs\.?|lkr|₹|rs|r\.s\.?)[` + space + `]?` + digit + `[` + digit + `,\.]*`)
	urlRegex   = regexp.MustCompile(`(http[s]?://|www\.)[^` + space + `]+`)
	phoneRegex = regexp.MustCompile(`(\+?` + digit + `[` + digit + `\-` + space + `]{7,}` + digit + `)`)
	emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	wordRegex  = regexp.MustCompile(`[a-zA-Z]+`)
)

// Extractor computes heuristic vectors against a fixed keyword set.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	keywords Keywords
	counting Counting
}

// NewExtractor returns an extractor using kw under the given counting mode.
func NewExtractor(kw Keywords, mode Counting) *Extractor {
	return &Extractor{
		keywords: kw,
		counting: mode,
	}
}

// Keywords returns the phrase set the extractor matches.
func (e *Extractor) Keywords() Keywords {
	return e.keywords
}

// Counting returns the keyword counting mode.
func (e *Extractor) Counting() Counting {
	return e.counting
}

// Extract computes the heuristic vector of the raw, un-normalized text.
// Case and punctuation carry signal here. Every input yields a fully
// populated vector with word_count >= 1.
func (e *Extractor) Extract(raw string) Vector {
	low := strings.ToLower(raw)

	words := wordRegex.FindAllString(raw, -1)
	wc := max(len(words), 1)

	caps := 0
	for _, w := range words {
		if len(w) > 2 && strings.ToUpper(w) == w {
			caps++
		}
	}

	var v Vector
	v[KeywordHits] = float64(e.keywordHits(low))
	v[HasMoney] = flag(moneyRegex.MatchString(low))
	v[NumLinks] = float64(len(urlRegex.FindAllStringIndex(low, -1)))
	v[HasPhone] = flag(phoneRegex.MatchString(raw))
	v[HasEmail] = flag(emailRegex.MatchString(low))
	v[NumExclaim] = float64(strings.Count(raw, "!"))
	v[UpperRatio] = float64(caps) / float64(wc)
	v[WordCount] = float64(wc)
	return v
}

func (e *Extractor) keywordHits(low string) int {
	hits := 0
	for _, k := range e.keywords.phrases {
		if k == "" {
			continue
		}
		switch e.counting {
		case CountPresence:
			if strings.Contains(low, k) {
				hits++
			}
		default:
			hits += strings.Count(low, k)
		}
	}
	return hits
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
