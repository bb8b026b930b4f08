package model

import (
	"strings"
	"testing"

	"github.com/mchmarny/jobfraud/pkg/feature"
	"github.com/mchmarny/jobfraud/pkg/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchema_None(t *testing.T) {
	s, err := LoadSchema(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLoadSchema_YAML(t *testing.T) {
	s, err := LoadSchema(testArtifactsDir)
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, 1, s.Version)
	assert.Equal(t, 16, s.TextWidth)

	p, err := s.Policy()
	require.NoError(t, err)
	assert.Equal(t, vector.SchemaPolicy{Heuristics: true}, p)

	c, err := s.Counting()
	require.NoError(t, err)
	assert.Equal(t, feature.CountOccurrences, c)
}

func TestLoadSchema_LegacyColumns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ColumnsFile, strings.Join(feature.Columns[:], ",")+"\n")

	s, err := LoadSchema(dir)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, feature.Columns[:], s.Columns)

	p, err := s.Policy()
	require.NoError(t, err)
	assert.Equal(t, vector.SchemaPolicy{Heuristics: true}, p)
}

func TestSchema_TextOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, SchemaFile, "version: 1\ncolumns: []\nkeyword_counting: presence\n")

	s, err := LoadSchema(dir)
	require.NoError(t, err)

	p, err := s.Policy()
	require.NoError(t, err)
	assert.Equal(t, vector.SchemaPolicy{Heuristics: false}, p)

	c, err := s.Counting()
	require.NoError(t, err)
	assert.Equal(t, feature.CountPresence, c)
}

func TestSchema_Rejects(t *testing.T) {
	s := &Schema{Columns: []string{"has_money", "keyword_hits"}, Source: "test"}
	_, err := s.Policy()
	assert.ErrorIs(t, err, ErrArtifact)

	s = &Schema{KeywordCounting: "sometimes", Source: "test"}
	_, err = s.Counting()
	assert.ErrorIs(t, err, ErrArtifact)

	dir := t.TempDir()
	writeFile(t, dir, SchemaFile, "columns: [unclosed")
	_, err = LoadSchema(dir)
	assert.ErrorIs(t, err, ErrArtifact)
}
