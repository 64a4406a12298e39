package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/crispdm/datasets"
	"github.com/ezoic/crispdm/pkg/errors"
)

func TestState_FirstRefreshGenerates(t *testing.T) {
	s := New()
	require.Nil(t, s.LastParams)

	p := datasets.DefaultParams()
	ds, regenerated, err := s.Refresh(p)
	require.NoError(t, err)

	assert.True(t, regenerated)
	assert.Equal(t, p.N, ds.Len())
	require.NotNil(t, s.LastParams)
	assert.True(t, s.LastParams.Equal(p))
	assert.Equal(t, uint64(955), ds.Seed)
}

func TestState_ReuseWhenUnchanged(t *testing.T) {
	s := New()
	p := datasets.DefaultParams()

	first, _, err := s.Refresh(p)
	require.NoError(t, err)

	second, regenerated, err := s.Refresh(p)
	require.NoError(t, err)
	assert.False(t, regenerated)
	assert.Equal(t, first, second)
}

func TestState_ParameterChangeDetection(t *testing.T) {
	s := New()
	params1 := datasets.Params{A: 2.0, B: 5.0, NoiseSigma: 2.0, N: 100}
	params2 := datasets.Params{A: 2.1, B: 5.0, NoiseSigma: 2.0, N: 100}

	_, regenerated, err := s.Refresh(params1)
	require.NoError(t, err)
	assert.True(t, regenerated, "first run")

	_, regenerated, err = s.Refresh(params2)
	require.NoError(t, err)
	assert.True(t, regenerated, "slope changed")

	// Going back to the original tuple is still a change relative to params2.
	back, regenerated, err := s.Refresh(params1)
	require.NoError(t, err)
	assert.True(t, regenerated, "back to original")

	// With a fixed seed and the counter untouched, the data match the first draw.
	fresh := New()
	orig, _, err := fresh.Refresh(params1)
	require.NoError(t, err)
	assert.Equal(t, orig.Y, back.Y)
}

func TestState_RequestRegenerate(t *testing.T) {
	s := New()
	p := datasets.DefaultParams()

	first, _, err := s.Refresh(p)
	require.NoError(t, err)

	s.RequestRegenerate()
	assert.Equal(t, uint64(1), s.SeedCounter)
	assert.True(t, s.NeedsRegenerate(p))

	second, regenerated, err := s.Refresh(p)
	require.NoError(t, err)
	assert.True(t, regenerated)
	assert.Equal(t, uint64(956), second.Seed)
	assert.NotEqual(t, first.Y, second.Y)

	// The force flag is consumed by one refresh.
	_, regenerated, err = s.Refresh(p)
	require.NoError(t, err)
	assert.False(t, regenerated)
	assert.Equal(t, uint64(1), s.SeedCounter)
}

func TestState_FixedSeedToggle(t *testing.T) {
	s := New(WithFixedSeed(false))
	p := datasets.Params{A: 1.5, B: -3, NoiseSigma: 1, N: 60}

	assert.Nil(t, s.Seed(p))
	ds, _, err := s.Refresh(p)
	require.NoError(t, err)
	assert.False(t, ds.Seeded)

	s.SetFixedSeed(true)
	_, regenerated, err := s.Refresh(p)
	require.NoError(t, err)
	assert.False(t, regenerated, "toggling the mode alone does not regenerate")

	s.RequestRegenerate()
	ds, regenerated, err = s.Refresh(p)
	require.NoError(t, err)
	assert.True(t, regenerated)
	assert.True(t, ds.Seeded)
	assert.Equal(t, datasets.DeriveSeed(datasets.DefaultBaseSeed, p, 1), ds.Seed)
}

func TestState_WithBaseSeed(t *testing.T) {
	s := New(WithBaseSeed(1000))
	p := datasets.DefaultParams()

	seed := s.Seed(p)
	require.NotNil(t, seed)
	assert.Equal(t, uint64(1913), *seed)
}

func TestState_InvalidParamsLeaveStateUntouched(t *testing.T) {
	s := New()
	p := datasets.DefaultParams()
	before, _, err := s.Refresh(p)
	require.NoError(t, err)

	_, regenerated, err := s.Refresh(datasets.Params{A: 20, B: 5, NoiseSigma: 2, N: 100})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
	assert.False(t, regenerated)
	assert.True(t, s.LastParams.Equal(p))
	assert.Equal(t, before, s.Dataset)
}
