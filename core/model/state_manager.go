package model

import (
	"sync"

	"github.com/YuminosukeSato/scitext/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// StateManager tracks the fitted state of an estimator and the shape it
// was fitted on.
type StateManager struct {
	Fitted bool // Public for gob encoding
	mu     sync.RWMutex

	NFeatures int
	NSamples  int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted marks the model as fitted.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NFeatures = 0
	s.NSamples = 0
}

// SetDimensions records the number of features and samples seen during fitting.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// GetDimensions returns the number of features and samples seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}

// RequireFitted returns a NotFittedError if the model has not been fitted.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// CheckFeatures returns a DimensionMismatchError when X has a column count
// other than the fitted one.
func (s *StateManager) CheckFeatures(op string, X mat.Matrix) error {
	_, c := X.Dims()
	nFeatures, _ := s.GetDimensions()
	if c != nFeatures {
		return errors.NewDimensionMismatchError(op, nFeatures, c, 1)
	}
	return nil
}
