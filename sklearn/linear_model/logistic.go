// Package linear_model implements regularized logistic regression. The L2
// penalty gives ridge classification and the L1 penalty gives lasso.
package linear_model

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitext/core/model"
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/pkg/log"
)

// Penalty names accepted by WithLRPenalty.
const (
	PenaltyL2         = "l2"
	PenaltyL1         = "l1"
	PenaltyElasticNet = "elasticnet"
	PenaltyNone       = "none"
)

// LogisticRegression implements logistic regression for classification
// Compatible with scikit-learn's LogisticRegression
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	penalty      string  // Regularization: "l2", "l1", "elasticnet", "none"
	C            float64 // Inverse regularization strength (1/alpha)
	fitIntercept bool    // Whether to fit intercept
	randomState  int64   // Random seed
	maxIter      int     // Maximum iterations
	l1Ratio      float64 // L1 ratio for elastic net
	tol          float64 // Tolerance for stopping

	// Model parameters
	coef_      [][]float64 // Coefficients (n_classes x n_features or 1 x n_features for binary)
	intercept_ []float64   // Intercept terms
	classes_   []int       // Unique class labels
	nClasses_  int         // Number of classes
	nFeatures_ int         // Number of features
	nIter_     []int       // Actual iterations per class

	// Internal state
	rand   *rand.Rand
	logger log.Logger
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      PenaltyL2,
		C:            1.0,
		fitIntercept: true,
		randomState:  -1,
		maxIter:      100,
		l1Ratio:      0.5,
		tol:          1e-4,
	}

	// Apply options
	for _, opt := range opts {
		opt(lr)
	}

	// Initialize random generator if seed is set
	if lr.randomState >= 0 {
		lr.rand = rand.New(rand.NewSource(lr.randomState))
	} else {
		lr.rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if lr.logger == nil {
		lr.logger = log.GetLoggerWithName("linear_model").With(log.ModelNameKey, "LogisticRegression")
	}

	return lr
}

// Option functions

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRL1Ratio sets the L1 share of the elastic net penalty
func WithLRL1Ratio(ratio float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.l1Ratio = ratio
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRRandomState sets the random seed
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// WithLRLogger sets the logger used for training events
func WithLRLogger(logger log.Logger) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.logger = logger
	}
}

func (lr *LogisticRegression) validateParams() error {
	switch lr.penalty {
	case PenaltyL1, PenaltyL2, PenaltyElasticNet, PenaltyNone:
	default:
		return errors.NewValidationError("penalty", "must be one of l1, l2, elasticnet, none", lr.penalty)
	}
	if lr.C <= 0 {
		return errors.NewValidationError("C", "must be > 0", lr.C)
	}
	if lr.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be >= 1", lr.maxIter)
	}
	if lr.l1Ratio < 0 || lr.l1Ratio > 1 {
		return errors.NewValidationError("l1_ratio", "must be in [0, 1]", lr.l1Ratio)
	}
	return nil
}

// Fit trains the logistic regression model
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	if err := lr.validateParams(); err != nil {
		return err
	}

	// Validate inputs
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples != yRows {
		return errors.NewDimensionMismatchError("LogisticRegression.Fit", nSamples, yRows, 0)
	}

	if yCols != 1 {
		return errors.NewInputShapeErrorFor("training", "y", []int{yRows, 1}, []int{yRows, yCols})
	}

	// Extract unique classes
	lr.extractClasses(y)
	if lr.nClasses_ < 2 {
		return errors.NewTrainingError("LogisticRegression", "fewer than 2 distinct classes", nSamples, lr.nClasses_)
	}
	lr.nFeatures_ = nFeatures
	lr.initializeWeights(nFeatures)

	if lr.nClasses_ == 2 {
		// Binary classification: a single weight vector for classes_[1]
		if err := lr.fitBinaryForClass(X, binaryTargets(y, lr.classes_[1]), 0); err != nil {
			return err
		}
	} else {
		// Multiclass classification: one-vs-rest
		for classIdx, class := range lr.classes_ {
			if err := lr.fitBinaryForClass(X, binaryTargets(y, class), classIdx); err != nil {
				return errors.Wrapf(err, "failed to fit class %d", class)
			}
		}
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()

	lr.logger.Debug("Model fitted",
		log.OperationKey, log.OperationFit,
		"penalty", lr.penalty,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ClassesKey, lr.nClasses_,
		log.IterationKey, lr.NIter(),
		"nonzero", nonZero(lr.Coef()),
	)
	return nil
}

// extractClasses identifies unique class labels
func (lr *LogisticRegression) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	classMap := make(map[int]bool)

	for i := 0; i < rows; i++ {
		classMap[int(y.At(i, 0))] = true
	}

	lr.classes_ = make([]int, 0, len(classMap))
	for class := range classMap {
		lr.classes_ = append(lr.classes_, class)
	}
	sort.Ints(lr.classes_)
	lr.nClasses_ = len(lr.classes_)
}

// initializeWeights initializes model weights
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	nVectors := lr.nClasses_
	if nVectors == 2 {
		nVectors = 1
	}
	lr.coef_ = make([][]float64, nVectors)
	for i := range lr.coef_ {
		lr.coef_[i] = make([]float64, nFeatures)
	}
	lr.intercept_ = make([]float64, nVectors)
	lr.nIter_ = make([]int, nVectors)

	// Initialize with small random values
	for i := range lr.coef_ {
		for j := range lr.coef_[i] {
			lr.coef_[i][j] = lr.rand.NormFloat64() * 0.01
		}
	}
}

// penaltyStrengths splits 1/C into its L1 and L2 parts.
func (lr *LogisticRegression) penaltyStrengths() (l1, l2 float64) {
	lambda := 1.0 / lr.C
	switch lr.penalty {
	case PenaltyL1:
		return lambda, 0
	case PenaltyL2:
		return 0, lambda
	case PenaltyElasticNet:
		return lambda * lr.l1Ratio, lambda * (1 - lr.l1Ratio)
	}
	return 0, 0
}

// lipschitz bounds the Lipschitz constant of the gradient of the mean
// logistic loss plus the L2 term by σmax(X)²/(4n) + l2. The intercept column
// adds at most n to σmax².
func (lr *LogisticRegression) lipschitz(X mat.Matrix, l2 float64) float64 {
	nSamples, _ := X.Dims()
	var sq float64
	var svd mat.SVD
	if svd.Factorize(X, mat.SVDNone) {
		if values := svd.Values(nil); len(values) > 0 {
			sq = values[0] * values[0]
		}
	} else {
		f := mat.Norm(X, 2)
		sq = f * f
	}
	if lr.fitIntercept {
		sq += float64(nSamples)
	}
	bound := sq/(4*float64(nSamples)) + l2
	if bound <= 0 {
		return 1
	}
	return bound
}

// fitBinaryForClass fits the weight vector at classIdx by accelerated
// proximal gradient descent with a constant step 1/L. The L2 part enters the
// gradient; the L1 part is a soft-threshold after each step, which drives
// weak weights to exactly zero. The momentum restarts whenever it points
// against the last step.
func (lr *LogisticRegression) fitBinaryForClass(X mat.Matrix, yBinary []float64, classIdx int) error {
	_, nFeatures := X.Dims()
	l1, l2 := lr.penaltyStrengths()
	step := 1.0 / lr.lipschitz(X, l2)

	// 係数と切片をまとめて更新する（末尾が切片）
	theta := make([]float64, nFeatures+1)
	copy(theta, lr.coef_[classIdx])
	theta[nFeatures] = lr.intercept_[classIdx]
	prev := make([]float64, len(theta))
	point := append([]float64(nil), theta...)
	grad := make([]float64, len(theta))
	momentum := 1.0

	defer func() {
		copy(lr.coef_[classIdx], theta[:nFeatures])
		lr.intercept_[classIdx] = theta[nFeatures]
	}()

	for iter := 0; iter < lr.maxIter; iter++ {
		logisticGradient(X, yBinary, point, l2, grad)
		copy(prev, theta)

		// the gradient mapping norm doubles as the convergence measure
		maxStep := 0.0
		for j := range theta {
			next := point[j] - step*grad[j]
			switch {
			case j < nFeatures:
				next = softThreshold(next, step*l1)
			case !lr.fitIntercept:
				next = 0
			}
			if s := math.Abs(next-point[j]) / step; s > maxStep {
				maxStep = s
			}
			theta[j] = next
		}

		lr.nIter_[classIdx] = iter + 1

		if err := errors.CheckNumericalStability("LogisticRegression.Fit", theta, iter); err != nil {
			return err
		}
		if maxStep < lr.tol {
			return nil
		}

		restart := 0.0
		for j := range theta {
			restart += (point[j] - theta[j]) * (theta[j] - prev[j])
		}
		if restart > 0 {
			momentum = 1
		}
		nextMomentum := (1 + math.Sqrt(1+4*momentum*momentum)) / 2
		beta := (momentum - 1) / nextMomentum
		for j := range point {
			point[j] = theta[j] + beta*(theta[j]-prev[j])
		}
		momentum = nextMomentum
	}

	errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter,
		"increase max_iter or scale the features"))
	return nil
}

// logisticGradient writes the gradient of the mean logistic loss plus the L2
// term at theta into grad. theta holds the weights followed by the intercept.
func logisticGradient(X mat.Matrix, yBinary, theta []float64, l2 float64, grad []float64) {
	nSamples, nFeatures := X.Dims()
	for j := range grad {
		grad[j] = 0
	}
	for i := 0; i < nSamples; i++ {
		z := theta[nFeatures]
		for j := 0; j < nFeatures; j++ {
			z += X.At(i, j) * theta[j]
		}
		residual := sigmoid(z) - yBinary[i]
		grad[nFeatures] += residual
		for j := 0; j < nFeatures; j++ {
			grad[j] += residual * X.At(i, j)
		}
	}
	n := float64(nSamples)
	for j := 0; j < nFeatures; j++ {
		grad[j] = grad[j]/n + l2*theta[j]
	}
	grad[nFeatures] /= n
}

// Predict makes predictions for input data
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, nClasses := probas.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		best := 0
		for c := 1; c < nClasses; c++ {
			if probas.At(i, c) > probas.At(i, best) {
				best = c
			}
		}
		predictions.Set(i, 0, float64(lr.classes_[best]))
	}
	return predictions, nil
}

// DecisionFunction returns the linear scores X·coef + intercept, one column
// per weight vector.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "DecisionFunction"); err != nil {
		return nil, err
	}
	if err := lr.state.CheckFeatures("LogisticRegression.DecisionFunction", X); err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return nil, errors.NewValueError("LogisticRegression.DecisionFunction", "no samples")
	}

	scores := mat.NewDense(nSamples, len(lr.coef_), nil)
	for i := 0; i < nSamples; i++ {
		for k, weights := range lr.coef_ {
			z := lr.intercept_[k]
			for j := 0; j < lr.nFeatures_; j++ {
				z += X.At(i, j) * weights[j]
			}
			scores.Set(i, k, z)
		}
	}
	return scores, nil
}

// PredictProba returns probability estimates for each class
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := scores.Dims()
	probas := mat.NewDense(nSamples, lr.nClasses_, nil)

	if lr.nClasses_ == 2 {
		for i := 0; i < nSamples; i++ {
			prob1 := sigmoid(scores.At(i, 0))
			probas.Set(i, 0, 1.0-prob1)
			probas.Set(i, 1, prob1)
		}
		return probas, nil
	}

	// Multiclass using softmax over the one-vs-rest scores
	row := make([]float64, lr.nClasses_)
	for i := 0; i < nSamples; i++ {
		mat.Row(row, i, scores)
		norm := errors.LogSumExp(row)
		for c, s := range row {
			probas.Set(i, c, math.Exp(s-norm))
		}
	}
	return probas, nil
}

// Score returns the mean accuracy on X against the class codes in y.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	nSamples, _ := predictions.Dims()
	if yRows, _ := y.Dims(); yRows != nSamples {
		return 0, errors.NewDimensionMismatchError("LogisticRegression.Score", nSamples, yRows, 0)
	}
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// Coef returns a copy of the fitted coefficients.
func (lr *LogisticRegression) Coef() [][]float64 {
	out := make([][]float64, len(lr.coef_))
	for i, w := range lr.coef_ {
		out[i] = append([]float64(nil), w...)
	}
	return out
}

// NIter returns the iterations run per weight vector.
func (lr *LogisticRegression) NIter() []int {
	return append([]int(nil), lr.nIter_...)
}

// nonZero counts the weights the L1 part left non-zero.
func nonZero(coef [][]float64) int {
	n := 0
	for _, w := range coef {
		for _, v := range w {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// binaryTargets returns 1 where y equals positive and 0 elsewhere.
func binaryTargets(y mat.Matrix, positive int) []float64 {
	rows, _ := y.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if int(y.At(i, 0)) == positive {
			out[i] = 1
		}
	}
	return out
}

// softThreshold is the proximal operator of t·|w|.
func softThreshold(w, t float64) float64 {
	switch {
	case w > t:
		return w - t
	case w < -t:
		return w + t
	default:
		return 0
	}
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
