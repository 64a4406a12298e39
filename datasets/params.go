// Package datasets generates the synthetic regression data the demo fits.
//
// Data follow y = a·x + b + ε with x ~ Uniform[-10, 10) and ε ~ N(0, σ²).
// Generation is a pure function of (Params, seed); the seed itself is
// derived from a stable hash of the parameters so that the same slider
// positions reproduce the same data across processes and machines.
package datasets

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"

	"github.com/ezoic/crispdm/pkg/errors"
)

// Range describes the declared bounds and UI step of one parameter.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Declared parameter ranges. Steps are UI hints and are not validated.
var (
	SlopeRange     = Range{Min: -10, Max: 10, Step: 0.1}
	InterceptRange = Range{Min: -50, Max: 50, Step: 0.5}
	NoiseRange     = Range{Min: 0, Max: 10, Step: 0.1}
	SamplesRange   = Range{Min: 50, Max: 500, Step: 10}
)

// Params is the user-adjustable parameter tuple (a, b, σ, n).
type Params struct {
	A          float64 `json:"a" yaml:"a" mapstructure:"a" validate:"gte=-10,lte=10"`
	B          float64 `json:"b" yaml:"b" mapstructure:"b" validate:"gte=-50,lte=50"`
	NoiseSigma float64 `json:"noise_sigma" yaml:"noise_sigma" mapstructure:"noise" validate:"gte=0,lte=10"`
	N          int     `json:"n" yaml:"n" mapstructure:"n" validate:"gte=50,lte=500"`
}

// DefaultParams returns the parameters the page opens with.
func DefaultParams() Params {
	return Params{A: 2.0, B: 5.0, NoiseSigma: 2.0, N: 100}
}

// Equal reports value equality across all four fields.
func (p Params) Equal(o Params) bool {
	return p.A == o.A && p.B == o.B && p.NoiseSigma == o.NoiseSigma && p.N == o.N
}

// TrueY evaluates the noiseless generating line at x.
func (p Params) TrueY(x float64) float64 {
	return p.A*x + p.B
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func paramValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks every field against its declared range and returns an
// InvalidParameterError for the first violation.
func (p Params) Validate() error {
	err := paramValidator().Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, "validate params")
	}

	switch verrs[0].StructField() {
	case "A":
		return errors.NewInvalidParameterError("a", p.A, SlopeRange.Min, SlopeRange.Max)
	case "B":
		return errors.NewInvalidParameterError("b", p.B, InterceptRange.Min, InterceptRange.Max)
	case "NoiseSigma":
		return errors.NewInvalidParameterError("noise_sigma", p.NoiseSigma, NoiseRange.Min, NoiseRange.Max)
	default:
		return errors.NewInvalidParameterError("n", float64(p.N), SamplesRange.Min, SamplesRange.Max)
	}
}

// StableHash returns the xxHash64 of the parameter tuple serialized as
// little-endian IEEE-754 bits of a, b and σ followed by n as int64.
// Negative zero is folded into zero so equal tuples hash equally.
func StableHash(p Params) uint64 {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(canonical(p.A)))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(canonical(p.B)))
	binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(canonical(p.NoiseSigma)))
	binary.LittleEndian.PutUint64(buf[24:], uint64(int64(p.N)))
	return xxhash.Sum64(buf[:])
}

func canonical(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
