package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ezoic/crispdm/pkg/log"
)

// DefaultBaseSeed is the offset added to every derived seed.
const DefaultBaseSeed uint64 = 42

// Bounds of the uniform feature distribution.
const (
	FeatureMin = -10.0
	FeatureMax = 10.0
)

// Dataset is one generated sample. X and Y always have equal length.
type Dataset struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`

	// Seed is the seed the data were drawn with; Seeded is false when the
	// draw used an unseeded source and cannot be reproduced.
	Seed   uint64 `json:"seed,omitempty"`
	Seeded bool   `json:"seeded"`
}

// Len returns the number of samples.
func (d Dataset) Len() int { return len(d.X) }

// IsZero reports whether no data has been generated.
func (d Dataset) IsZero() bool { return d.X == nil && d.Y == nil }

// DeriveSeed computes base + StableHash(p) mod 1000 + counter.
func DeriveSeed(base uint64, p Params, counter uint64) uint64 {
	return base + StableHash(p)%1000 + counter
}

// Generate draws a dataset for p. With a non-nil seed the output is
// bit-identical for equal (p, *seed); with a nil seed every call differs.
// p is assumed valid.
func Generate(p Params, seed *uint64) Dataset {
	var src rand.Source
	ds := Dataset{}
	if seed != nil {
		src = rand.NewPCG(*seed, *seed)
		ds.Seed, ds.Seeded = *seed, true
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	features := distuv.Uniform{Min: FeatureMin, Max: FeatureMax, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: p.NoiseSigma, Src: src}

	// X is drawn in full before the first noise sample.
	ds.X = make([]float64, p.N)
	for i := range ds.X {
		ds.X[i] = features.Rand()
	}
	ds.Y = make([]float64, p.N)
	for i := range ds.Y {
		ds.Y[i] = p.A*ds.X[i] + p.B + noise.Rand()
	}

	log.GetLoggerWithName("datasets").Debug("Dataset generated",
		log.OperationKey, log.OperationGenerate,
		log.PhaseKey, log.PhaseGeneration,
		log.SamplesKey, p.N,
		log.FixedSeedKey, ds.Seeded,
		log.RandomSeedKey, ds.Seed,
	)

	return ds
}
