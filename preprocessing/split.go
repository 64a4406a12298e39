// Package preprocessing prepares datasets for fitting.
package preprocessing

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ezoic/crispdm/pkg/errors"
)

// Default split settings, matching scikit-learn's train_test_split call the
// demo is modeled on.
const (
	DefaultTestSize    = 0.2
	DefaultRandomState = 42
)

// Split holds the two partitions of a paired (x, y) sample together with
// the original indices of each element.
type Split struct {
	XTrain []float64
	YTrain []float64
	XTest  []float64
	YTest  []float64

	TrainIndex []int
	TestIndex  []int
}

// NTrain returns the size of the training partition.
func (s *Split) NTrain() int { return len(s.XTrain) }

// NTest returns the size of the test partition.
func (s *Split) NTest() int { return len(s.XTest) }

// TrainTestSplit partitions x and y into training and test sets.
//
// The test partition holds ceil(testSize*n) samples and the training
// partition the rest. A permutation drawn from a PCG source seeded with
// randomState decides the assignment, so the split depends only on n,
// testSize and randomState, never on the data values.
//
// Errors:
//   - ErrDimensionMismatch: if x and y differ in length
//   - ErrEmptyData: if x is empty
//   - ValueError: if testSize is not within (0, 1)
func TrainTestSplit(x, y []float64, testSize float64, randomState uint64) (_ *Split, err error) {
	defer errors.Recover(&err, "TrainTestSplit")

	n := len(x)
	if len(y) != n {
		return nil, errors.NewDimensionError("TrainTestSplit", n, len(y), 0)
	}
	if n == 0 {
		return nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if !(testSize > 0 && testSize < 1) {
		return nil, errors.NewValueError("TrainTestSplit",
			fmt.Sprintf("test_size must be within (0, 1), got %g", testSize))
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	rng := rand.New(rand.NewPCG(randomState, randomState))
	perm := rng.Perm(n)

	s := &Split{
		TestIndex:  perm[:nTest],
		TrainIndex: perm[nTest:],
	}
	s.XTest, s.YTest = gather(x, y, s.TestIndex)
	s.XTrain, s.YTrain = gather(x, y, s.TrainIndex)

	return s, nil
}

func gather(x, y []float64, idx []int) ([]float64, []float64) {
	xs := make([]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
