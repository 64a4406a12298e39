// Package model provides the shared building blocks for crispdm estimators:
// fitted-state tracking and the scikit-learn compatible JSON model format
// used to export a fitted line from the deployment phase.
package model

import "sync"

// EstimatorState represents the learning state of a model
type EstimatorState int

const (
	// NotFitted indicates the model is not yet trained
	NotFitted EstimatorState = iota
	// Fitted indicates the model has been trained
	Fitted
)

func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not_fitted"
}

// StateManager tracks whether an estimator has been fitted and the shape of
// the data it was fitted on. Estimators hold it by composition.
type StateManager struct {
	mu        sync.RWMutex
	state     EstimatorState
	nFeatures int
	nSamples  int
}

// NewStateManager returns a manager in the NotFitted state.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted reports whether SetFitted has been called since the last Reset.
func (m *StateManager) IsFitted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == Fitted
}

// SetFitted marks the estimator as trained.
func (m *StateManager) SetFitted() {
	m.mu.Lock()
	m.state = Fitted
	m.mu.Unlock()
}

// SetDimensions records the training shape. nSamples is 0 when the model
// was loaded rather than trained.
func (m *StateManager) SetDimensions(nFeatures, nSamples int) {
	m.mu.Lock()
	m.nFeatures = nFeatures
	m.nSamples = nSamples
	m.mu.Unlock()
}

// GetDimensions returns the recorded (nFeatures, nSamples).
func (m *StateManager) GetDimensions() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nFeatures, m.nSamples
}

// State returns the current EstimatorState.
func (m *StateManager) State() EstimatorState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Reset returns the manager to NotFitted and clears dimensions.
func (m *StateManager) Reset() {
	m.mu.Lock()
	m.state = NotFitted
	m.nFeatures = 0
	m.nSamples = 0
	m.mu.Unlock()
}
