package vector

import (
	"testing"

	"github.com/mchmarny/jobfraud/pkg/feature"
	"github.com/stretchr/testify/assert"
)

func testHeuristics() feature.Vector {
	var h feature.Vector
	h[feature.KeywordHits] = 2
	h[feature.WordCount] = 10
	return h
}

func TestWidthPolicy(t *testing.T) {
	p := WidthPolicy{}

	tests := []struct {
		name     string
		text     int
		expected int
		known    bool
		want     bool
	}{
		{"text plus heuristics", 100, 108, true, true},
		{"text only", 100, 100, true, false},
		{"wider than expected layouts", 100, 104, true, true},
		{"narrower than text", 100, 90, true, false},
		{"unknown width", 100, 0, false, true},
		{"empty vocabulary with heuristics", 0, 8, true, true},
		{"empty vocabulary text only", 0, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IncludeHeuristics(tt.text, tt.expected, tt.known))
		})
	}
}

func TestAssemble_Dispatch(t *testing.T) {
	a := NewAssembler(nil)
	h := testHeuristics()

	for textWidth := 0; textWidth <= 64; textWidth++ {
		text := Zero(textWidth)

		with := a.Assemble(text, h, textWidth+feature.Width, true)
		assert.Equal(t, textWidth+feature.Width, with.Width)
		v, ok := with.At(textWidth + feature.WordCount)
		assert.True(t, ok)
		assert.Equal(t, 10.0, v)

		without := a.Assemble(text, h, textWidth, true)
		assert.Equal(t, textWidth, without.Width)
		assert.Equal(t, 0, without.NNZ())
	}
}

func TestAssemble_WidthIsAlwaysOneOfTwo(t *testing.T) {
	a := NewAssembler(WidthPolicy{})
	h := testHeuristics()

	for textWidth := 0; textWidth <= 20; textWidth++ {
		text := Dense(make([]float64, textWidth))
		for expected := 0; expected <= 40; expected++ {
			for _, known := range []bool{true, false} {
				out := a.Assemble(text, h, expected, known)
				assert.Contains(t, []int{textWidth, textWidth + feature.Width}, out.Width)
				assert.NoError(t, out.Validate())
			}
		}
	}
}

func TestAssemble_KeepsTextEntries(t *testing.T) {
	a := NewAssembler(nil)
	text := Dense([]float64{0, 0.6, 0.8})

	out := a.Assemble(text, testHeuristics(), 0, false)
	assert.Equal(t, 11, out.Width)
	assert.Equal(t, []float64{0, 0.6, 0.8, 2, 0, 0, 0, 0, 0, 0, 10}, out.ToDense())
}

func TestAssemble_SchemaPolicy(t *testing.T) {
	text := Zero(5)
	h := testHeuristics()

	out := NewAssembler(SchemaPolicy{Heuristics: true}).Assemble(text, h, 5, true)
	assert.Equal(t, 13, out.Width)

	out = NewAssembler(SchemaPolicy{Heuristics: false}).Assemble(text, h, 13, true)
	assert.Equal(t, 5, out.Width)
}
