package preprocessing_test

import (
	"fmt"
	"slices"

	"github.com/ezoic/crispdm/preprocessing"
)

// ExampleTrainTestSplit shows the 80/20 partition of ten points.
func ExampleTrainTestSplit() {
	x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	y := []float64{5, 7, 9, 11, 13, 15, 17, 19, 21, 23}

	split, err := preprocessing.TrainTestSplit(x, y, preprocessing.DefaultTestSize, preprocessing.DefaultRandomState)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("train=%d test=%d\n", split.NTrain(), split.NTest())

	all := append(slices.Clone(split.TrainIndex), split.TestIndex...)
	slices.Sort(all)
	fmt.Println("every point used once:", slices.Equal(all, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))

	// Output:
	// train=8 test=2
	// every point used once: true
}

// ExampleTrainTestSplit_reproducible shows that the partition depends only on
// the sample count and the random state.
func ExampleTrainTestSplit_reproducible() {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	a, _ := preprocessing.TrainTestSplit(x, y, 0.2, 7)
	b, _ := preprocessing.TrainTestSplit(y, x, 0.2, 7)

	fmt.Println("same test indices:", slices.Equal(a.TestIndex, b.TestIndex))
	fmt.Printf("train=%d test=%d\n", a.NTrain(), a.NTest())

	// Output:
	// same test indices: true
	// train=4 test=1
}
