package model_test

import (
	"fmt"

	"github.com/ezoic/crispdm/core/model"
)

// ExampleStateManager demonstrates fitted-state management
func ExampleStateManager() {
	state := model.NewStateManager()
	fmt.Printf("Initially fitted: %t\n", state.IsFitted())

	state.SetFitted()
	state.SetDimensions(1, 80)
	features, samples := state.GetDimensions()
	fmt.Printf("After SetFitted: %t (%d feature, %d samples)\n", state.IsFitted(), features, samples)

	state.Reset()
	fmt.Printf("After Reset: %s\n", state.State())

	// Output: Initially fitted: false
	// After SetFitted: true (1 feature, 80 samples)
	// After Reset: not_fitted
}
