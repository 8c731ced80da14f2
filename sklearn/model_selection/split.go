// Package model_selection partitions records into training and test subsets.
package model_selection

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitext/pkg/errors"
)

// Partition is the side of a split a record was assigned to.
type Partition int

const (
	Train Partition = iota
	Test
)

func (p Partition) String() string {
	switch p {
	case Train:
		return "train"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("Partition(%d)", int(p))
	}
}

// Strategy names a split variant.
type Strategy string

const (
	// StrategyRandom assigns each record independently with probability p.
	StrategyRandom Strategy = "random"
	// StrategyExact shuffles and takes exactly round(p·N) training records.
	StrategyExact Strategy = "exact"
	// StrategyStratified applies the exact split within each label.
	StrategyStratified Strategy = "stratified"
)

// ParseStrategy parses a strategy name. The empty string means random.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyRandom:
		return StrategyRandom, nil
	case StrategyExact:
		return StrategyExact, nil
	case StrategyStratified:
		return StrategyStratified, nil
	}
	return "", errors.NewValidationError("split", "must be one of random, exact, stratified", s)
}

// SplitAssignment records which partition every record belongs to. Train
// and Test hold record positions in ascending order; together they cover
// every position exactly once.
type SplitAssignment struct {
	Train []int
	Test  []int

	ids       []string
	partition map[string]Partition
}

func newSplitAssignment(ids []string, inTrain []bool) *SplitAssignment {
	a := &SplitAssignment{
		Train:     make([]int, 0, len(ids)),
		Test:      make([]int, 0, len(ids)),
		ids:       ids,
		partition: make(map[string]Partition, len(ids)),
	}
	for i, id := range ids {
		if inTrain[i] {
			a.Train = append(a.Train, i)
			a.partition[id] = Train
		} else {
			a.Test = append(a.Test, i)
			a.partition[id] = Test
		}
	}
	return a
}

// Partition returns the partition of the record with the given ID.
func (a *SplitAssignment) Partition(id string) (Partition, bool) {
	p, ok := a.partition[id]
	return p, ok
}

// Len returns the number of assigned records.
func (a *SplitAssignment) Len() int {
	return len(a.ids)
}

// TrainProportion returns the realized share of training records.
func (a *SplitAssignment) TrainProportion() float64 {
	if len(a.ids) == 0 {
		return 0
	}
	return float64(len(a.Train)) / float64(len(a.ids))
}

// IDs returns the record IDs of a partition in record order.
func (a *SplitAssignment) IDs(p Partition) []string {
	idx := a.Train
	if p == Test {
		idx = a.Test
	}
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = a.ids[i]
	}
	return out
}

// Apply returns read-only row views of X for the train and test partitions.
// X must have one row per assigned record.
func (a *SplitAssignment) Apply(X mat.Matrix) (train, test mat.Matrix, err error) {
	r, _ := X.Dims()
	if r != len(a.ids) {
		return nil, nil, errors.NewDimensionMismatchError("SplitAssignment.Apply", len(a.ids), r, 0)
	}
	return &rowView{m: X, rows: a.Train}, &rowView{m: X, rows: a.Test}, nil
}

// ApplyLabels slices y the same way Apply slices matrix rows.
func (a *SplitAssignment) ApplyLabels(y []string) (train, test []string, err error) {
	if len(y) != len(a.ids) {
		return nil, nil, errors.NewDimensionMismatchError("SplitAssignment.ApplyLabels", len(a.ids), len(y), 0)
	}
	train = make([]string, len(a.Train))
	for k, i := range a.Train {
		train[k] = y[i]
	}
	test = make([]string, len(a.Test))
	for k, i := range a.Test {
		test[k] = y[i]
	}
	return train, test, nil
}

// rowView exposes a subset of rows of m without copying.
type rowView struct {
	m    mat.Matrix
	rows []int
}

func (v *rowView) Dims() (r, c int) {
	_, c = v.m.Dims()
	return len(v.rows), c
}

func (v *rowView) At(i, j int) float64 {
	if i < 0 || i >= len(v.rows) {
		panic(mat.ErrRowAccess)
	}
	return v.m.At(v.rows[i], j)
}

func (v *rowView) T() mat.Matrix {
	return mat.Transpose{Matrix: v}
}
