// Package vector holds the sparse feature representation and the assembler
// that reconciles it with the width a loaded classifier expects.
package vector

import (
	"errors"
	"fmt"
	"sort"
)

// Sparse is a fixed-width vector storing only its non-zero entries.
// Indices are strictly increasing. An absent index is zero, which tree
// ensembles treat as a missing value.
type Sparse struct {
	Width   int       `json:"width" yaml:"width"`
	Indices []int     `json:"indices" yaml:"indices"`
	Values  []float64 `json:"values" yaml:"values"`
}

// Zero returns an all-zero vector of the given width.
func Zero(width int) Sparse {
	return Sparse{Width: width}
}

// FromMap builds a vector from index/value pairs, dropping zeros.
func FromMap(width int, m map[int]float64) (Sparse, error) {
	idx := make([]int, 0, len(m))
	for i, v := range m {
		if i < 0 || i >= width {
			return Sparse{}, fmt.Errorf("index %d out of range for width %d", i, width)
		}
		if v == 0 {
			continue
		}
		idx = append(idx, i)
	}
	sort.Ints(idx)

	s := Sparse{
		Width:   width,
		Indices: idx,
		Values:  make([]float64, len(idx)),
	}
	for n, i := range idx {
		s.Values[n] = m[i]
	}
	return s, nil
}

// Dense builds a vector from a dense slice, dropping zeros.
func Dense(values []float64) Sparse {
	s := Sparse{Width: len(values)}
	for i, v := range values {
		if v == 0 {
			continue
		}
		s.Indices = append(s.Indices, i)
		s.Values = append(s.Values, v)
	}
	return s
}

// NNZ returns the number of stored entries.
func (s Sparse) NNZ() int {
	return len(s.Indices)
}

// At returns the value at index i and whether it is stored.
func (s Sparse) At(i int) (float64, bool) {
	n := sort.SearchInts(s.Indices, i)
	if n < len(s.Indices) && s.Indices[n] == i {
		return s.Values[n], true
	}
	return 0, false
}

// ToDense expands the vector.
func (s Sparse) ToDense() []float64 {
	out := make([]float64, s.Width)
	for n, i := range s.Indices {
		out[i] = s.Values[n]
	}
	return out
}

// Append returns a new vector with the dense values concatenated after s.
// The receiver is not modified.
func (s Sparse) Append(values []float64) Sparse {
	out := Sparse{
		Width:   s.Width + len(values),
		Indices: make([]int, len(s.Indices), len(s.Indices)+len(values)),
		Values:  make([]float64, len(s.Values), len(s.Values)+len(values)),
	}
	copy(out.Indices, s.Indices)
	copy(out.Values, s.Values)
	for i, v := range values {
		if v == 0 {
			continue
		}
		out.Indices = append(out.Indices, s.Width+i)
		out.Values = append(out.Values, v)
	}
	return out
}

// Validate checks the structural invariants.
func (s Sparse) Validate() error {
	if s.Width < 0 {
		return errors.New("negative width")
	}
	if len(s.Indices) != len(s.Values) {
		return fmt.Errorf("indices (%d) and values (%d) differ in length", len(s.Indices), len(s.Values))
	}
	prev := -1
	for _, i := range s.Indices {
		if i <= prev || i >= s.Width {
			return fmt.Errorf("index %d out of order or range for width %d", i, s.Width)
		}
		prev = i
	}
	return nil
}
