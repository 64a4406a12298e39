// Package session holds the per-user regeneration state and decides when a
// new dataset must be drawn.
//
// The decision is a size-1 memo keyed by parameter equality: the stored
// dataset is reused until the parameters change or the user explicitly asks
// for a fresh draw. A State is owned by exactly one session and is passed
// around explicitly; it is not safe for concurrent use.
package session

import (
	"github.com/ezoic/crispdm/datasets"
	"github.com/ezoic/crispdm/pkg/log"
)

// State is the regeneration state of one session.
type State struct {
	// LastParams is nil until the first dataset is generated.
	LastParams *datasets.Params

	// SeedCounter only grows; each manual regenerate adds one.
	SeedCounter uint64

	// UseFixedSeed selects derived seeds (reproducible) over unseeded draws.
	UseFixedSeed bool

	// BaseSeed is the offset of every derived seed.
	BaseSeed uint64

	// Dataset is the current dataset; zero until the first Refresh.
	Dataset datasets.Dataset

	forced bool
	logger log.Logger
}

// Option configures a State.
type Option func(*State)

// WithBaseSeed overrides datasets.DefaultBaseSeed.
func WithBaseSeed(seed uint64) Option {
	return func(s *State) {
		s.BaseSeed = seed
	}
}

// WithFixedSeed sets the initial fixed-seed mode (default true).
func WithFixedSeed(fixed bool) Option {
	return func(s *State) {
		s.UseFixedSeed = fixed
	}
}

// New returns the state a session starts with.
func New(options ...Option) *State {
	s := &State{
		UseFixedSeed: true,
		BaseSeed:     datasets.DefaultBaseSeed,
	}
	for _, opt := range options {
		opt(s)
	}
	s.logger = log.GetLoggerWithName("session")
	return s
}

// RequestRegenerate increments the seed counter and forces the next Refresh
// to draw a new dataset even if the parameters are unchanged.
func (s *State) RequestRegenerate() {
	s.SeedCounter++
	s.forced = true
}

// SetFixedSeed switches between reproducible and unseeded draws. The switch
// takes effect at the next regeneration; it does not trigger one.
func (s *State) SetFixedSeed(fixed bool) {
	s.UseFixedSeed = fixed
}

// NeedsRegenerate reports whether Refresh(p) would draw a new dataset.
func (s *State) NeedsRegenerate(p datasets.Params) bool {
	return s.LastParams == nil || !s.LastParams.Equal(p) || s.forced
}

// Seed returns the seed the next draw for p would use, or nil when
// fixed-seed mode is off.
func (s *State) Seed(p datasets.Params) *uint64 {
	if !s.UseFixedSeed {
		return nil
	}
	seed := datasets.DeriveSeed(s.BaseSeed, p, s.SeedCounter)
	return &seed
}

// Refresh validates p and returns the dataset for it, regenerating when
// needed. The boolean reports whether a new dataset was drawn. On a
// validation error the state is left untouched.
func (s *State) Refresh(p datasets.Params) (datasets.Dataset, bool, error) {
	if err := p.Validate(); err != nil {
		return datasets.Dataset{}, false, err
	}

	if !s.NeedsRegenerate(p) {
		return s.Dataset, false, nil
	}

	s.Dataset = datasets.Generate(p, s.Seed(p))
	params := p
	s.LastParams = &params
	s.forced = false

	s.logger.Info("Dataset regenerated",
		log.SamplesKey, p.N,
		log.SeedCounterKey, s.SeedCounter,
		log.FixedSeedKey, s.UseFixedSeed,
		log.RandomSeedKey, s.Dataset.Seed,
	)

	return s.Dataset, true, nil
}
