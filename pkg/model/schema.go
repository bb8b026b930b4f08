package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/jobfraud/pkg/feature"
	"github.com/mchmarny/jobfraud/pkg/vector"
	"gopkg.in/yaml.v3"
)

// Schema describes the feature layout a model was trained with.
type Schema struct {
	Version         int      `yaml:"version"`
	Columns         []string `yaml:"columns"`
	KeywordCounting string   `yaml:"keyword_counting,omitempty"`
	TextWidth       int      `yaml:"text_width,omitempty"`

	// Source is the file the schema was read from.
	Source string `yaml:"-"`
}

// LoadSchema reads feature_schema.yaml from dir, or the legacy
// extra_columns.txt when only that exists. It returns nil when neither is
// present.
func LoadSchema(dir string) (*Schema, error) {
	path := filepath.Join(dir, SchemaFile)
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		var s Schema
		if err := yaml.Unmarshal(b, &s); err != nil {
			return nil, fmt.Errorf("%w: decoding schema %s: %w", ErrArtifact, path, err)
		}
		s.Source = path
		return &s, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: reading schema %s: %w", ErrArtifact, path, err)
	}

	path = filepath.Join(dir, ColumnsFile)
	b, err = os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading columns %s: %w", ErrArtifact, path, err)
	}

	s := &Schema{Source: path}
	for _, c := range strings.Split(strings.TrimSpace(string(b)), ",") {
		if c = strings.TrimSpace(c); c != "" {
			s.Columns = append(s.Columns, c)
		}
	}
	return s, nil
}

// Policy returns the assembler policy the schema prescribes. Only the
// canonical heuristic layout or no heuristics at all can be served.
func (s *Schema) Policy() (vector.Policy, error) {
	switch {
	case len(s.Columns) == 0:
		return vector.SchemaPolicy{Heuristics: false}, nil
	case feature.IsCanonical(s.Columns):
		return vector.SchemaPolicy{Heuristics: true}, nil
	default:
		return nil, fmt.Errorf("%w: %s lists columns %v, want %v",
			ErrArtifact, s.Source, s.Columns, feature.Columns)
	}
}

// Counting returns the keyword counting mode the model was trained with.
func (s *Schema) Counting() (feature.Counting, error) {
	c, err := feature.ParseCounting(s.KeywordCounting)
	if err != nil {
		return c, fmt.Errorf("%w: %s: %w", ErrArtifact, s.Source, err)
	}
	return c, nil
}
