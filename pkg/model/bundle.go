package model

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mchmarny/jobfraud/pkg/feature"
	"github.com/mchmarny/jobfraud/pkg/vector"
)

// Artifact file names, relative to the artifact directory.
const (
	VectorizerFile = "tfidf_vectorizer.json"
	ModelFile      = "fraud_model.json"
	ThresholdFile  = "threshold.txt"
	KeywordsFile   = "scam_keywords.txt"
	SchemaFile     = "feature_schema.yaml"
	ColumnsFile    = "extra_columns.txt"
)

// Bundle is the process-wide, read-only set of loaded artifacts.
type Bundle struct {
	Dir        string
	Vectorizer Vectorizer
	Classifier Classifier
	Keywords   feature.Keywords
	Counting   feature.Counting
	Threshold  float64
	Policy     vector.Policy
	Schema     *Schema
}

// Load reads every artifact from dir. Missing threshold, keyword or schema
// files fall back to defaults; vectorizer and model failures are returned.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{Dir: dir}
	log := slog.Default().WithGroup("artifacts")

	var err error
	if b.Vectorizer, err = LoadVectorizer(filepath.Join(dir, VectorizerFile)); err != nil {
		return nil, err
	}
	if b.Classifier, err = LoadClassifier(filepath.Join(dir, ModelFile)); err != nil {
		return nil, err
	}

	if b.Threshold, err = LoadThreshold(filepath.Join(dir, ThresholdFile)); err != nil {
		log.Warn("using default threshold", "threshold", b.Threshold, "reason", err)
	}

	var fromDefault bool
	if b.Keywords, fromDefault, err = feature.LoadKeywords(filepath.Join(dir, KeywordsFile)); fromDefault {
		log.Warn("using default scam keywords", "count", b.Keywords.Len(), "reason", err)
	}

	if b.Schema, err = LoadSchema(dir); err != nil {
		return nil, err
	}
	if err := b.applySchema(); err != nil {
		return nil, err
	}

	w, known := ExpectedWidth(b.Classifier)
	log.Debug("loaded",
		"dir", dir,
		"text_width", b.Vectorizer.Width(),
		"model_width", w,
		"model_width_known", known,
		"threshold", b.Threshold,
		"keywords", b.Keywords.Len(),
		"counting", b.Counting.String())

	return b, nil
}

func (b *Bundle) applySchema() error {
	if b.Schema == nil {
		b.Policy = vector.WidthPolicy{}
		b.Counting = feature.CountOccurrences
		return nil
	}

	var err error
	if b.Policy, err = b.Schema.Policy(); err != nil {
		return err
	}
	if b.Counting, err = b.Schema.Counting(); err != nil {
		return err
	}
	if tw := b.Schema.TextWidth; tw > 0 && tw != b.Vectorizer.Width() {
		return fmt.Errorf("%w: schema %s expects text width %d, vectorizer has %d",
			ErrArtifact, b.Schema.Source, tw, b.Vectorizer.Width())
	}
	return nil
}
