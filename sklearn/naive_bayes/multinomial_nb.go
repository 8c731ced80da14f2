// Package naive_bayes implements multinomial naive Bayes for count features
// such as character n-gram matrices.
package naive_bayes

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitext/core/model"
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/pkg/log"
)

// minAlpha is the smallest smoothing value used; smaller values are
// clipped to keep log probabilities finite.
const minAlpha = 1e-10

// MultinomialNB is a naive Bayes classifier for multinomial models
// Compatible with scikit-learn's MultinomialNB
type MultinomialNB struct {
	state *model.StateManager

	// Hyperparameters
	alpha    float64 // Additive (Laplace/Lidstone) smoothing
	fitPrior bool    // Learn class priors; uniform priors when false

	// Model parameters
	classes_         []int       // Class labels in sorted order
	classCount_      []float64   // Samples seen per class
	featureCount_    [][]float64 // Per-class feature totals (n_classes x n_features)
	classLogPrior_   []float64   // log P(c)
	featureLogProb_  [][]float64 // log P(x_j | c)
	nFeatures_       int
	nSamplesSeen_    int
	classIndexByCode map[int]int

	logger log.Logger
}

// MultinomialNBOption is a functional option for MultinomialNB
type MultinomialNBOption func(*MultinomialNB)

// WithAlpha sets the additive smoothing parameter
func WithAlpha(alpha float64) MultinomialNBOption {
	return func(nb *MultinomialNB) {
		nb.alpha = alpha
	}
}

// WithFitPrior sets whether to learn class prior probabilities
func WithFitPrior(fitPrior bool) MultinomialNBOption {
	return func(nb *MultinomialNB) {
		nb.fitPrior = fitPrior
	}
}

// WithNBLogger sets the logger used for training events
func WithNBLogger(logger log.Logger) MultinomialNBOption {
	return func(nb *MultinomialNB) {
		nb.logger = logger
	}
}

// NewMultinomialNB creates a new MultinomialNB classifier
func NewMultinomialNB(opts ...MultinomialNBOption) *MultinomialNB {
	nb := &MultinomialNB{
		state:    model.NewStateManager(),
		alpha:    1.0,
		fitPrior: true,
	}
	for _, opt := range opts {
		opt(nb)
	}
	if nb.logger == nil {
		nb.logger = log.GetLoggerWithName("naive_bayes").With(log.ModelNameKey, "MultinomialNB")
	}
	return nb
}

// Fit trains the model from scratch. y is an n×1 column of integer class codes.
func (nb *MultinomialNB) Fit(X, y mat.Matrix) error {
	nb.state.Reset()
	nb.classes_ = nil
	nb.nSamplesSeen_ = 0

	classes, err := uniqueClasses(y)
	if err != nil {
		return err
	}
	return nb.PartialFit(X, y, classes)
}

// PartialFit updates the model with a batch of samples. classes must be
// given on the first call and is ignored afterwards.
func (nb *MultinomialNB) PartialFit(X, y mat.Matrix, classes []int) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return errors.NewDimensionMismatchError("MultinomialNB.PartialFit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewInputShapeErrorFor("training", "y", []int{yRows, 1}, []int{yRows, yCols})
	}
	if err := checkNonNegative(X); err != nil {
		return err
	}

	if nb.classes_ == nil {
		if len(classes) == 0 {
			return errors.NewValueError("MultinomialNB.PartialFit", "classes must be passed on the first call")
		}
		nb.initialize(classes, nFeatures)
	} else if nFeatures != nb.nFeatures_ {
		return errors.NewDimensionMismatchError("MultinomialNB.PartialFit", nb.nFeatures_, nFeatures, 1)
	}

	for i := 0; i < nSamples; i++ {
		code := int(y.At(i, 0))
		c, ok := nb.classIndexByCode[code]
		if !ok {
			return errors.NewValueError("MultinomialNB.PartialFit", "label not in classes")
		}
		nb.classCount_[c]++
		row := nb.featureCount_[c]
		for j := 0; j < nFeatures; j++ {
			row[j] += X.At(i, j)
		}
	}
	nb.nSamplesSeen_ += nSamples

	nb.updateLogProbabilities()
	nb.state.SetDimensions(nb.nFeatures_, nb.nSamplesSeen_)
	nb.state.SetFitted()

	nb.logger.Debug("Model updated",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ClassesKey, len(nb.classes_),
	)
	return nil
}

func (nb *MultinomialNB) initialize(classes []int, nFeatures int) {
	nb.classes_ = append([]int(nil), classes...)
	sort.Ints(nb.classes_)
	nb.classIndexByCode = make(map[int]int, len(nb.classes_))
	for i, c := range nb.classes_ {
		nb.classIndexByCode[c] = i
	}
	nb.nFeatures_ = nFeatures
	nb.classCount_ = make([]float64, len(nb.classes_))
	nb.featureCount_ = make([][]float64, len(nb.classes_))
	for i := range nb.featureCount_ {
		nb.featureCount_[i] = make([]float64, nFeatures)
	}
}

// updateLogProbabilities recomputes priors and smoothed feature likelihoods
// from the accumulated counts.
func (nb *MultinomialNB) updateLogProbabilities() {
	alpha := nb.alpha
	if alpha < minAlpha {
		errors.Warn(errors.Newf("MultinomialNB: alpha=%g is too small, clipped to %g", nb.alpha, minAlpha))
		alpha = minAlpha
	}

	nClasses := len(nb.classes_)
	nb.featureLogProb_ = make([][]float64, nClasses)
	for c := 0; c < nClasses; c++ {
		total := 0.0
		for _, v := range nb.featureCount_[c] {
			total += v
		}
		denom := math.Log(total + alpha*float64(nb.nFeatures_))
		logProb := make([]float64, nb.nFeatures_)
		for j, v := range nb.featureCount_[c] {
			logProb[j] = math.Log(v+alpha) - denom
		}
		nb.featureLogProb_[c] = logProb
	}

	nb.classLogPrior_ = make([]float64, nClasses)
	if !nb.fitPrior {
		for c := range nb.classLogPrior_ {
			nb.classLogPrior_[c] = -math.Log(float64(nClasses))
		}
		return
	}
	seen := 0.0
	for _, n := range nb.classCount_ {
		seen += n
	}
	for c, n := range nb.classCount_ {
		// Classes announced but never seen get zero prior
		nb.classLogPrior_[c] = math.Log(n) - math.Log(seen)
	}
}

// jointLogLikelihood returns log P(c) + sum_j x_j log P(x_j | c) per sample.
func (nb *MultinomialNB) jointLogLikelihood(X mat.Matrix) ([][]float64, error) {
	if err := nb.state.RequireFitted("MultinomialNB", "Predict"); err != nil {
		return nil, err
	}
	if err := nb.state.CheckFeatures("MultinomialNB.Predict", X); err != nil {
		return nil, err
	}
	nSamples, nFeatures := X.Dims()
	jll := make([][]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		scores := make([]float64, len(nb.classes_))
		for c := range nb.classes_ {
			s := nb.classLogPrior_[c]
			for j := 0; j < nFeatures; j++ {
				if x := X.At(i, j); x != 0 {
					s += x * nb.featureLogProb_[c][j]
				}
			}
			scores[c] = s
		}
		jll[i] = scores
	}
	return jll, nil
}

// Predict returns the most probable class code for each sample as an n×1 matrix.
func (nb *MultinomialNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	jll, err := nb.jointLogLikelihood(X)
	if err != nil {
		return nil, err
	}
	if len(jll) == 0 {
		return nil, errors.NewValueError("MultinomialNB.Predict", "no samples")
	}
	predictions := mat.NewDense(len(jll), 1, nil)
	for i, scores := range jll {
		best := 0
		for c := 1; c < len(scores); c++ {
			if scores[c] > scores[best] {
				best = c
			}
		}
		predictions.Set(i, 0, float64(nb.classes_[best]))
	}
	return predictions, nil
}

// PredictLogProba returns normalized log probabilities (n_samples x n_classes).
func (nb *MultinomialNB) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	jll, err := nb.jointLogLikelihood(X)
	if err != nil {
		return nil, err
	}
	if len(jll) == 0 {
		return nil, errors.NewValueError("MultinomialNB.PredictLogProba", "no samples")
	}
	out := mat.NewDense(len(jll), len(nb.classes_), nil)
	for i, scores := range jll {
		norm := errors.LogSumExp(scores)
		for c, s := range scores {
			out.Set(i, c, s-norm)
		}
	}
	return out, nil
}

// PredictProba returns class probabilities (n_samples x n_classes).
func (nb *MultinomialNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	logProba, err := nb.PredictLogProba(X)
	if err != nil {
		return nil, err
	}
	r, c := logProba.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 { return math.Exp(v) }, logProba)
	return out, nil
}

// Score returns the mean accuracy on X against the class codes in y.
func (nb *MultinomialNB) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}
	nSamples, _ := predictions.Dims()
	if yRows, _ := y.Dims(); yRows != nSamples {
		return 0, errors.NewDimensionMismatchError("MultinomialNB.Score", nSamples, yRows, 0)
	}
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// Classes returns the class codes in sorted order.
func (nb *MultinomialNB) Classes() []int {
	return append([]int(nil), nb.classes_...)
}

// NSamplesSeen returns the number of samples used for training so far.
func (nb *MultinomialNB) NSamplesSeen() int {
	return nb.nSamplesSeen_
}

func uniqueClasses(y mat.Matrix) ([]int, error) {
	rows, _ := y.Dims()
	if rows == 0 {
		return nil, errors.NewModelError("MultinomialNB.Fit", "empty data", errors.ErrEmptyData)
	}
	seen := make(map[int]bool)
	var classes []int
	for i := 0; i < rows; i++ {
		c := int(y.At(i, 0))
		if !seen[c] {
			seen[c] = true
			classes = append(classes, c)
		}
	}
	sort.Ints(classes)
	return classes, nil
}

func checkNonNegative(X mat.Matrix) error {
	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if X.At(i, j) < 0 {
				return errors.NewValidationError("X", "negative values are not allowed for MultinomialNB", X.At(i, j))
			}
		}
	}
	return nil
}
