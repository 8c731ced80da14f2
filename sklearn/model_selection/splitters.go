package model_selection

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/scitext/pkg/errors"
)

// Split dispatches to the splitter named by strategy. labels is only read
// by the stratified variant.
func Split(strategy Strategy, ids, labels []string, trainProportion float64, seed int64) (*SplitAssignment, error) {
	switch strategy {
	case StrategyRandom, "":
		return RandomSplit(ids, trainProportion, seed)
	case StrategyExact:
		return ExactSplit(ids, trainProportion, seed)
	case StrategyStratified:
		return StratifiedSplit(ids, labels, trainProportion, seed)
	}
	return nil, errors.NewValidationError("split", "unknown strategy", string(strategy))
}

// RandomSplit assigns every record to the training partition independently
// with probability trainProportion. The realized ratio only converges to
// trainProportion as the number of records grows.
func RandomSplit(ids []string, trainProportion float64, seed int64) (*SplitAssignment, error) {
	if err := validateSplit(ids, trainProportion); err != nil {
		return nil, err
	}
	r := newRand(seed)
	inTrain := make([]bool, len(ids))
	for i := range ids {
		inTrain[i] = r.Float64() < trainProportion
	}
	return newSplitAssignment(ids, inTrain), nil
}

// ExactSplit shuffles the records and puts exactly round(p·N) of them in
// the training partition.
func ExactSplit(ids []string, trainProportion float64, seed int64) (*SplitAssignment, error) {
	if err := validateSplit(ids, trainProportion); err != nil {
		return nil, err
	}
	inTrain := make([]bool, len(ids))
	assignExact(newRand(seed), allPositions(len(ids)), trainProportion, inTrain)
	return newSplitAssignment(ids, inTrain), nil
}

// StratifiedSplit applies ExactSplit within each label so that every label
// keeps its share in both partitions.
func StratifiedSplit(ids, labels []string, trainProportion float64, seed int64) (*SplitAssignment, error) {
	if err := validateSplit(ids, trainProportion); err != nil {
		return nil, err
	}
	if len(labels) != len(ids) {
		return nil, errors.NewInputShapeErrorFor("split", "labels", []int{len(ids)}, []int{len(labels)})
	}

	// Group positions by label in first-seen order
	var order []string
	groups := make(map[string][]int)
	for i, label := range labels {
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], i)
	}

	r := newRand(seed)
	inTrain := make([]bool, len(ids))
	for _, label := range order {
		assignExact(r, groups[label], trainProportion, inTrain)
	}
	return newSplitAssignment(ids, inTrain), nil
}

func validateSplit(ids []string, trainProportion float64) error {
	if math.IsNaN(trainProportion) || trainProportion <= 0 || trainProportion >= 1 {
		return errors.NewValidationError("train_proportion", "must be in (0, 1)", trainProportion)
	}
	seen := make(map[string]int, len(ids))
	for i, id := range ids {
		if first, ok := seen[id]; ok {
			return errors.Wrapf(
				errors.NewInputShapeErrorFor("split", "id", []int{len(ids)}, []int{len(seen)}),
				"duplicate record id %q at positions %d and %d", id, first, i)
		}
		seen[id] = i
	}
	return nil
}

// assignExact shuffles positions with r and marks the first round(p·len)
// of them as training.
func assignExact(r *rand.Rand, positions []int, trainProportion float64, inTrain []bool) {
	shuffled := make([]int, len(positions))
	copy(shuffled, positions)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	nTrain := int(math.Round(trainProportion * float64(len(shuffled))))
	for _, i := range shuffled[:nTrain] {
		inTrain[i] = true
	}
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

func allPositions(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return positions
}
