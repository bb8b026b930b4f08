package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/mchmarny/jobfraud/pkg/vector"
)

var tokenRegex = regexp.MustCompile(`\b\w\w+\b`)

// TFIDF is the JSON export of a fitted sklearn TfidfVectorizer.
type TFIDF struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	NGramRange  [2]int         `json:"ngram_range"`
	Norm        string         `json:"norm"`
	SublinearTF bool           `json:"sublinear_tf"`
	Binary      bool           `json:"binary"`
}

// LoadVectorizer reads and validates a TF-IDF export.
func LoadVectorizer(path string) (*TFIDF, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading vectorizer %s: %w", ErrArtifact, path, err)
	}

	var v TFIDF
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("%w: decoding vectorizer %s: %w", ErrArtifact, path, err)
	}
	if err := v.validate(); err != nil {
		return nil, fmt.Errorf("%w: vectorizer %s: %w", ErrArtifact, path, err)
	}
	return &v, nil
}

func (v *TFIDF) validate() error {
	if v.NGramRange == [2]int{} {
		v.NGramRange = [2]int{1, 2}
	}
	if v.NGramRange[0] < 1 || v.NGramRange[1] < v.NGramRange[0] {
		return fmt.Errorf("bad ngram_range %v", v.NGramRange)
	}
	switch v.Norm {
	case "":
		v.Norm = "l2"
	case "l1", "l2", "none":
	default:
		return fmt.Errorf("unsupported norm %q", v.Norm)
	}
	if len(v.IDF) != len(v.Vocabulary) {
		return fmt.Errorf("idf has %d weights for %d terms", len(v.IDF), len(v.Vocabulary))
	}
	for term, i := range v.Vocabulary {
		if i < 0 || i >= len(v.IDF) {
			return fmt.Errorf("term %q has index %d outside [0,%d)", term, i, len(v.IDF))
		}
	}
	return nil
}

// Width returns the vocabulary size.
func (v *TFIDF) Width() int {
	return len(v.IDF)
}

// Transform weights the word n-grams of canonical text. Text with no known
// term yields an all-zero vector.
func (v *TFIDF) Transform(canonical string) (vector.Sparse, error) {
	tokens := tokenRegex.FindAllString(strings.ToLower(canonical), -1)

	counts := make(map[int]float64)
	for n := v.NGramRange[0]; n <= v.NGramRange[1]; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if idx, ok := v.Vocabulary[strings.Join(tokens[i:i+n], " ")]; ok {
				counts[idx]++
			}
		}
	}

	var norm float64
	for idx, tf := range counts {
		switch {
		case v.Binary:
			tf = 1
		case v.SublinearTF:
			tf = 1 + math.Log(tf)
		}
		w := tf * v.IDF[idx]
		counts[idx] = w

		switch v.Norm {
		case "l1":
			norm += math.Abs(w)
		case "l2":
			norm += w * w
		}
	}
	if v.Norm == "l2" {
		norm = math.Sqrt(norm)
	}
	if norm > 0 {
		for idx := range counts {
			counts[idx] /= norm
		}
	}

	return vector.FromMap(v.Width(), counts)
}
