// Package classify runs the inference pipeline: normalize, vectorize,
// extract heuristics, assemble, predict and apply the decision threshold.
package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mchmarny/jobfraud/pkg/feature"
	"github.com/mchmarny/jobfraud/pkg/model"
	"github.com/mchmarny/jobfraud/pkg/text"
	"github.com/mchmarny/jobfraud/pkg/vector"
)

// Posting is a single job posting to classify.
type Posting struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Text returns the raw text the pipeline scores.
func (p Posting) Text() string {
	return p.Title + " " + p.Description
}

// Result is the outcome of one inference call.
type Result struct {
	Prediction  int     `json:"prediction" yaml:"prediction"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// Explanation exposes the intermediate values of one inference call.
type Explanation struct {
	Canonical      string             `json:"canonical" yaml:"canonical"`
	Heuristics     map[string]float64 `json:"heuristics" yaml:"heuristics"`
	TextWidth      int                `json:"text_width" yaml:"textWidth"`
	TextNonZero    int                `json:"text_non_zero" yaml:"textNonZero"`
	ModelWidth     int                `json:"model_width,omitempty" yaml:"modelWidth,omitempty"`
	AssembledWidth int                `json:"assembled_width" yaml:"assembledWidth"`
	WithHeuristics bool               `json:"with_heuristics" yaml:"withHeuristics"`
	Threshold      float64            `json:"threshold" yaml:"threshold"`
	Result         Result             `json:"result" yaml:"result"`
}

// Classifier scores postings against a loaded artifact bundle. It only reads
// shared state and is safe for concurrent use.
type Classifier struct {
	vectorizer model.Vectorizer
	model      model.Classifier
	extractor  *feature.Extractor
	assembler  *vector.Assembler
	threshold  float64

	expected int
	known    bool
}

// New returns a classifier bound to the artifacts in b.
func New(b *model.Bundle) (*Classifier, error) {
	if b == nil || b.Vectorizer == nil || b.Classifier == nil {
		return nil, errors.New("vectorizer and classifier required")
	}

	c := &Classifier{
		vectorizer: b.Vectorizer,
		model:      b.Classifier,
		extractor:  feature.NewExtractor(b.Keywords, b.Counting),
		assembler:  vector.NewAssembler(b.Policy),
		threshold:  b.Threshold,
	}
	c.expected, c.known = model.ExpectedWidth(b.Classifier)
	return c, nil
}

// Threshold returns the decision threshold in use.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify scores a title and description.
func (c *Classifier) Classify(title, description string) (*Result, error) {
	return c.PredictText(Posting{Title: title, Description: description}.Text())
}

// PredictText scores free text, such as text extracted from a page.
func (c *Classifier) PredictText(raw string) (*Result, error) {
	e, err := c.Explain(raw)
	if err != nil {
		return nil, err
	}
	return &e.Result, nil
}

// Explain scores raw text and returns the intermediate values.
func (c *Classifier) Explain(raw string) (*Explanation, error) {
	canonical := text.Normalize(raw)

	tv, err := c.vectorizer.Transform(canonical)
	if err != nil {
		return nil, fmt.Errorf("vectorizing text: %w", err)
	}

	h := c.extractor.Extract(raw)
	x := c.assembler.Assemble(tv, h, c.expected, c.known)

	proba, err := c.model.PredictProba(x)
	if err != nil {
		return nil, fmt.Errorf("predicting: %w", err)
	}
	if len(proba) < 2 {
		return nil, fmt.Errorf("classifier returned %d class probabilities, want 2", len(proba))
	}
	p := proba[Fraudulent]

	e := &Explanation{
		Canonical:      canonical,
		Heuristics:     h.Map(),
		TextWidth:      tv.Width,
		TextNonZero:    tv.NNZ(),
		AssembledWidth: x.Width,
		WithHeuristics: x.Width != tv.Width,
		Threshold:      c.threshold,
		Result: Result{
			Prediction:  Decide(p, c.threshold),
			Probability: p,
		},
	}
	if c.known {
		e.ModelWidth = c.expected
	}
	return e, nil
}

// Features returns the heuristic vector of a posting, as used at inference.
func (c *Classifier) Features(p Posting) feature.Vector {
	return c.extractor.Extract(p.Text())
}

// ParseFile splits file content into a posting: the first line is the title
// and the remaining lines are joined with spaces as the description.
func ParseFile(content string) Posting {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	p := Posting{Title: strings.TrimSpace(lines[0])}
	var desc []string
	for _, l := range lines[1:] {
		if l = strings.TrimSpace(l); l != "" {
			desc = append(desc, l)
		}
	}
	p.Description = strings.Join(desc, " ")
	return p
}
