package pipeline

import (
	"strings"

	"github.com/YuminosukeSato/scitext/core/model"
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/pkg/log"
	"github.com/YuminosukeSato/scitext/sklearn/linear_model"
	"github.com/YuminosukeSato/scitext/sklearn/naive_bayes"
)

// BuildClassifiers turns the model names of cfg into reference classifiers.
// Names are matched case-insensitively; an unknown name is a ValidationError.
func BuildClassifiers(cfg Config, logger log.Logger) ([]model.NamedClassifier, error) {
	if logger == nil {
		logger = log.GetLoggerWithName("pipeline")
	}
	out := make([]model.NamedClassifier, 0, len(cfg.Models))
	seen := make(map[string]bool, len(cfg.Models))
	for _, raw := range cfg.Models {
		name := strings.ToLower(strings.TrimSpace(raw))
		if seen[name] {
			return nil, errors.NewValidationError("models", "duplicate model", raw)
		}
		seen[name] = true

		var c model.Classifier
		switch name {
		case ModelNaiveBayes:
			c = naive_bayes.NewClassifier(
				naive_bayes.WithAlpha(cfg.Alpha),
				naive_bayes.WithNBLogger(logger.With(log.ModelNameKey, name)),
			)
		case ModelRidge:
			c = linear_model.NewRidgeClassifier(cfg.C, cfg.Seed,
				linear_model.WithLRMaxIter(cfg.MaxIter),
				linear_model.WithLRLogger(logger.With(log.ModelNameKey, name)),
			)
		case ModelLasso:
			c = linear_model.NewLassoClassifier(cfg.C, cfg.Seed,
				linear_model.WithLRMaxIter(cfg.MaxIter),
				linear_model.WithLRLogger(logger.With(log.ModelNameKey, name)),
			)
		case ModelLogistic:
			c = linear_model.NewClassifier(
				linear_model.WithLRPenalty(linear_model.PenaltyNone),
				linear_model.WithLRRandomState(cfg.Seed),
				linear_model.WithLRMaxIter(cfg.MaxIter),
				linear_model.WithLRLogger(logger.With(log.ModelNameKey, name)),
			)
		default:
			return nil, errors.NewValidationError("models", "unknown model, want nb, ridge, lasso or logistic", raw)
		}
		out = append(out, model.NamedClassifier{Name: name, Classifier: c})
	}
	return out, nil
}
