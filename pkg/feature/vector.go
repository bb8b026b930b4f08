// Package feature computes the hand-engineered scam signals appended to the
// TF-IDF text vector.
package feature

import (
	"fmt"
	"strconv"
)

// Positions of each heuristic in Vector. The order is part of the trained
// model contract and must never change.
const (
	KeywordHits = iota
	HasMoney
	NumLinks
	HasPhone
	HasEmail
	NumExclaim
	UpperRatio
	WordCount

	// Width is the number of heuristic columns.
	Width
)

// Columns names the heuristic columns in canonical order.
var Columns = [Width]string{
	"keyword_hits",
	"has_money",
	"num_links",
	"has_phone",
	"has_email",
	"num_exclaim",
	"upper_ratio",
	"word_count",
}

// Vector is the fixed-order heuristic feature vector.
type Vector [Width]float64

// Slice returns a copy of the values in canonical column order.
func (v Vector) Slice() []float64 {
	out := make([]float64, Width)
	copy(out, v[:])
	return out
}

// Map returns the values keyed by column name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, Width)
	for i, name := range Columns {
		m[name] = v[i]
	}
	return m
}

// Get returns the value of the named column.
func (v Vector) Get(name string) (float64, error) {
	for i, c := range Columns {
		if c == name {
			return v[i], nil
		}
	}
	return 0, fmt.Errorf("unknown feature column: %s", name)
}

// CSVHeader returns the column names for tabular export.
func CSVHeader() []string {
	return Columns[:]
}

// CSVRecord renders the values in the same order as CSVHeader.
func (v Vector) CSVRecord() []string {
	out := make([]string, Width)
	for i, val := range v {
		out[i] = strconv.FormatFloat(val, 'f', -1, 64)
	}
	return out
}

// IsCanonical reports whether cols lists exactly the heuristic columns in
// canonical order.
func IsCanonical(cols []string) bool {
	if len(cols) != Width {
		return false
	}
	for i, c := range cols {
		if c != Columns[i] {
			return false
		}
	}
	return true
}
