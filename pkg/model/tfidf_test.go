package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestVectorizer(t *testing.T, content string) *TFIDF {
	t.Helper()
	v, err := LoadVectorizer(writeFile(t, t.TempDir(), VectorizerFile, content))
	require.NoError(t, err)
	return v
}

func TestTFIDF_Transform(t *testing.T) {
	v := loadTestVectorizer(t, testVectorizerJSON)
	assert.Equal(t, 4, v.Width())
	assert.Equal(t, [2]int{1, 2}, v.NGramRange)
	assert.Equal(t, "l2", v.Norm)

	x, err := v.Transform("work home money")
	require.NoError(t, err)
	require.NoError(t, x.Validate())

	norm := math.Sqrt(1 + 4 + 9 + 1)
	want := []float64{1 / norm, 2 / norm, 3 / norm, 1 / norm}
	got := x.ToDense()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}
}

func TestTFIDF_SingleCharTokensIgnored(t *testing.T) {
	v := loadTestVectorizer(t, testVectorizerJSON)

	x, err := v.Transform("a work b")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 0}, x.ToDense())
}

func TestTFIDF_EmptyTextIsZero(t *testing.T) {
	v := loadTestVectorizer(t, testVectorizerJSON)

	x, err := v.Transform("")
	require.NoError(t, err)
	assert.Equal(t, 4, x.Width)
	assert.Equal(t, 0, x.NNZ())

	x, err = v.Transform("unknown words only")
	require.NoError(t, err)
	assert.Equal(t, 0, x.NNZ())
}

func TestTFIDF_SublinearNoNorm(t *testing.T) {
	v := loadTestVectorizer(t, `{
		"vocabulary": {"money": 0},
		"idf": [2],
		"norm": "none",
		"sublinear_tf": true
	}`)

	x, err := v.Transform("money money")
	require.NoError(t, err)
	assert.InDelta(t, 2*(1+math.Log(2)), x.ToDense()[0], 1e-12)
}

func TestTFIDF_L1(t *testing.T) {
	v := loadTestVectorizer(t, `{
		"vocabulary": {"work": 0, "home": 1},
		"idf": [1, 3],
		"ngram_range": [1, 1],
		"norm": "l1"
	}`)

	x, err := v.Transform("work home")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, x.ToDense(), 1e-12)
}

func TestLoadVectorizer_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{"},
		{"idf length", `{"vocabulary": {"a": 0, "b": 1}, "idf": [1]}`},
		{"index range", `{"vocabulary": {"a": 3}, "idf": [1]}`},
		{"ngram range", `{"vocabulary": {}, "idf": [], "ngram_range": [2, 1]}`},
		{"norm", `{"vocabulary": {}, "idf": [], "norm": "max"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadVectorizer(writeFile(t, t.TempDir(), VectorizerFile, tt.content))
			assert.True(t, errors.Is(err, ErrArtifact), "got %v", err)
		})
	}
}

func TestLoadVectorizer_Missing(t *testing.T) {
	_, err := LoadVectorizer("/does/not/exist.json")
	assert.ErrorIs(t, err, ErrArtifact)
}
