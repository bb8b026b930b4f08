package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/jobfraud/pkg/feature"
	"github.com/mchmarny/jobfraud/pkg/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	b, err := Load(testArtifactsDir)
	require.NoError(t, err)

	assert.Equal(t, 16, b.Vectorizer.Width())
	assert.Equal(t, 0.42, b.Threshold)
	assert.Equal(t, feature.DefaultKeywords.Phrases(), b.Keywords.Phrases())
	assert.Equal(t, feature.CountOccurrences, b.Counting)
	assert.Equal(t, vector.SchemaPolicy{Heuristics: true}, b.Policy)
	require.NotNil(t, b.Schema)

	w, known := ExpectedWidth(b.Classifier)
	assert.True(t, known)
	assert.Equal(t, 24, w)
}

func TestLoad_Fallbacks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, VectorizerFile, testVectorizerJSON)
	writeFile(t, dir, ModelFile, `{"type": "logistic", "coef": [1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0]}`)

	b, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, b.Threshold)
	assert.Equal(t, feature.DefaultKeywords.Len(), b.Keywords.Len())
	assert.Equal(t, vector.WidthPolicy{}, b.Policy)
	assert.Equal(t, feature.CountOccurrences, b.Counting)
	assert.Nil(t, b.Schema)
}

func TestLoad_MissingRequired(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrArtifact)

	writeFile(t, dir, VectorizerFile, testVectorizerJSON)
	_, err = Load(dir)
	assert.ErrorIs(t, err, ErrArtifact)
}

func TestLoad_SchemaTextWidthMismatch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{VectorizerFile, ModelFile, ThresholdFile, KeywordsFile} {
		b, err := os.ReadFile(filepath.Join(testArtifactsDir, name))
		require.NoError(t, err)
		writeFile(t, dir, name, string(b))
	}
	writeFile(t, dir, SchemaFile, "version: 1\ncolumns: []\ntext_width: 99\n")

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrArtifact)
}
