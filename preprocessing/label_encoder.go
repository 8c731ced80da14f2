package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/scitext/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LabelEncoder maps string class labels to contiguous indices 0..k-1 in
// sorted label order, so numeric estimators can train on them.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder creates an unfitted LabelEncoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit records the sorted distinct labels of y.
func (e *LabelEncoder) Fit(y []string) error {
	if len(y) == 0 {
		return errors.NewValueError("LabelEncoder.Fit", "no labels")
	}
	seen := make(map[string]struct{})
	classes := make([]string, 0, 2)
	for _, label := range y {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		classes = append(classes, label)
	}
	sort.Strings(classes)

	e.classes = classes
	e.index = make(map[string]int, len(classes))
	for i, c := range classes {
		e.index[c] = i
	}
	return nil
}

// Transform encodes y as an n×1 column of class indices.
func (e *LabelEncoder) Transform(y []string) (*mat.Dense, error) {
	if e.index == nil {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}
	if len(y) == 0 {
		return nil, errors.NewValueError("LabelEncoder.Transform", "no labels")
	}
	out := mat.NewDense(len(y), 1, nil)
	for i, label := range y {
		idx, ok := e.index[label]
		if !ok {
			return nil, errors.NewValueError("LabelEncoder.Transform", "unseen label "+label)
		}
		out.Set(i, 0, float64(idx))
	}
	return out, nil
}

// FitTransform fits on y and encodes it.
func (e *LabelEncoder) FitTransform(y []string) (*mat.Dense, error) {
	if err := e.Fit(y); err != nil {
		return nil, err
	}
	return e.Transform(y)
}

// InverseTransform decodes the first column of an n×1 index matrix.
func (e *LabelEncoder) InverseTransform(y mat.Matrix) ([]string, error) {
	if e.index == nil {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}
	r, _ := y.Dims()
	out := make([]string, r)
	for i := 0; i < r; i++ {
		idx := int(y.At(i, 0))
		if idx < 0 || idx >= len(e.classes) {
			return nil, errors.Newf("LabelEncoder.InverseTransform: class index %d out of range [0, %d)", idx, len(e.classes))
		}
		out[i] = e.classes[idx]
	}
	return out, nil
}

// Classes returns the fitted labels in index order.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}
