package feature

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultKeywords is the phrase list the training job ships with. It is used
// when no keyword artifact is available.
var DefaultKeywords = NewKeywords(
	// general scam phrasing
	"no experience", "earn money", "work from home", "quick money", "easy money",
	"guaranteed", "limited openings", "instant payout", "start immediately",
	"be your own boss", "unlimited income", "financial freedom",
	// upfront payments
	"processing fee", "registration fee", "verification fee", "refundable deposit",
	"upfront cost", "pay to", "bank slip", "training kit",
	// contact channels
	"whatsapp", "telegram", "viber", "+94", "071", "077",
	// payments and crypto
	"upi", "paypal", "skrill", "usdt", "crypto", "binance",
	// urgency
	"apply now", "limited slots", "act fast", "immediate start",
)

// Keywords is an ordered, lowercase scam phrase list. It is never modified
// after construction.
type Keywords struct {
	phrases []string
}

// NewKeywords lowercases and trims the phrases, skipping blanks.
func NewKeywords(phrases ...string) Keywords {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return Keywords{phrases: out}
}

// Phrases returns a copy of the phrase list.
func (k Keywords) Phrases() []string {
	out := make([]string, len(k.phrases))
	copy(out, k.phrases)
	return out
}

// Len returns the number of phrases.
func (k Keywords) Len() int {
	return len(k.phrases)
}

// LoadKeywords reads one phrase per line from path. When the file cannot be
// opened the defaults are returned with fromDefault set; an existing file
// with no phrases yields an empty set.
func LoadKeywords(path string) (kw Keywords, fromDefault bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultKeywords, true, fmt.Errorf("opening keyword file %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return DefaultKeywords, true, fmt.Errorf("reading keyword file %s: %w", path, err)
	}

	return NewKeywords(lines...), false, nil
}

// Counting selects how keyword_hits is computed. The choice is part of the
// feature schema; a model must be served with the mode it was trained with.
type Counting int

const (
	// CountOccurrences sums the non-overlapping substring counts of every phrase.
	CountOccurrences Counting = iota
	// CountPresence adds one for every phrase found at least once.
	CountPresence
)

func (c Counting) String() string {
	switch c {
	case CountPresence:
		return "presence"
	default:
		return "occurrence"
	}
}

// ParseCounting parses "occurrence" or "presence". Empty means occurrence.
func ParseCounting(s string) (Counting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "occurrence", "occurrences":
		return CountOccurrences, nil
	case "presence":
		return CountPresence, nil
	default:
		return CountOccurrences, fmt.Errorf("unknown keyword counting mode: %q", s)
	}
}
