package crispdm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats is the describe() table of one column.
type Stats struct {
	Count int     `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Std   float64 `json:"std" yaml:"std"`
	Min   float64 `json:"min" yaml:"min"`
	Q25   float64 `json:"25%" yaml:"25%"`
	Q50   float64 `json:"50%" yaml:"50%"`
	Q75   float64 `json:"75%" yaml:"75%"`
	Max   float64 `json:"max" yaml:"max"`
}

// Describe summarizes v, skipping NaN values. Std is the sample standard
// deviation (n-1 denominator) and is 0 when fewer than two values remain.
// Quartiles follow Quantile.
func Describe(v []float64) Stats {
	sorted := dropNaN(v)
	sort.Float64s(sorted)

	s := Stats{Count: len(sorted)}
	if s.Count == 0 {
		return s
	}

	s.Mean = stat.Mean(sorted, nil)
	if s.Count > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = Quantile(sorted, 0.25)
	s.Q50 = Quantile(sorted, 0.50)
	s.Q75 = Quantile(sorted, 0.75)
	return s
}

// Quantile returns the p-quantile of sorted, interpolating linearly between
// the closest ranks at position p*(n-1). This is numpy's and pandas'
// default; stat.Quantile's LinInterp uses a different plotting position.
// sorted must be non-empty and ascending.
func Quantile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Pearson returns the correlation coefficient of x and y, or 0 when either
// has no variance.
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	if floats.Min(x) == floats.Max(x) || floats.Min(y) == floats.Max(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// CountNaN returns the number of NaN values in v.
func CountNaN(v []float64) int {
	n := 0
	for _, x := range v {
		if math.IsNaN(x) {
			n++
		}
	}
	return n
}

// Histogram is a binned count. Edges has one more element than Counts;
// bin i covers [Edges[i], Edges[i+1]) and the last bin includes its upper
// edge.
type Histogram struct {
	Edges  []float64 `json:"edges" yaml:"edges"`
	Counts []float64 `json:"counts" yaml:"counts"`
}

// Total returns the number of counted values.
func (h Histogram) Total() float64 { return floats.Sum(h.Counts) }

// NewHistogram bins v into bins equal-width bins spanning its range. A
// constant input gets a unit-wide range centred on the value.
func NewHistogram(v []float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}
	sorted := dropNaN(v)
	sort.Float64s(sorted)

	lo, hi := -0.5, 0.5
	if len(sorted) > 0 {
		lo, hi = sorted[0], sorted[len(sorted)-1]
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi

	// stat.Histogram needs every value strictly below the last divider.
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	return Histogram{
		Edges:  edges,
		Counts: stat.Histogram(nil, dividers, sorted, nil),
	}
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := floats.Span(make([]float64, n), lo, hi)
	out[n-1] = hi
	return out
}

func dropNaN(v []float64) []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
