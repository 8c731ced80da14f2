package pipeline

import (
	"math"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/sklearn/model_selection"
)

// VocabularyScope selects which records the vocabulary is built from.
type VocabularyScope string

const (
	// ScopeFullCorpus builds the vocabulary from every record before the split.
	ScopeFullCorpus VocabularyScope = "full"
	// ScopeTrainOnly builds the vocabulary from the training partition and
	// projects test records onto the same columns.
	ScopeTrainOnly VocabularyScope = "train"
)

// ParseVocabularyScope accepts "full", "train" and a few long forms.
// An empty string selects ScopeFullCorpus.
func ParseVocabularyScope(s string) (VocabularyScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full", "full_corpus", "corpus":
		return ScopeFullCorpus, nil
	case "train", "train_only":
		return ScopeTrainOnly, nil
	}
	return "", errors.NewValidationError("vocabulary_scope", "must be full or train", s)
}

// Model names understood by BuildClassifiers.
const (
	ModelNaiveBayes = "nb"
	ModelRidge      = "ridge"
	ModelLasso      = "lasso"
	ModelLogistic   = "logistic"
)

// Config holds every knob of an evaluation run.
type Config struct {
	// N-gram extraction
	NGramMin             int  `json:"ngram_min" yaml:"ngram_min" mapstructure:"ngram_min"`
	NGramMax             int  `json:"ngram_max" yaml:"ngram_max" mapstructure:"ngram_max"`
	MinDocumentFrequency int  `json:"min_df" yaml:"min_df" mapstructure:"min_df"`
	Lowercase            bool `json:"lowercase" yaml:"lowercase" mapstructure:"lowercase"`

	// Split
	TrainProportion float64 `json:"train_proportion" yaml:"train_proportion" mapstructure:"train_proportion"`
	Seed            int64   `json:"seed" yaml:"seed" mapstructure:"seed"`
	SplitStrategy   string  `json:"split" yaml:"split" mapstructure:"split"`

	VocabularyScope VocabularyScope `json:"vocabulary_scope" yaml:"vocabulary_scope" mapstructure:"vocabulary_scope"`
	UseTfidf        bool            `json:"tfidf" yaml:"tfidf" mapstructure:"tfidf"`

	// Models
	Models        []string `json:"models" yaml:"models" mapstructure:"models"`
	C             float64  `json:"c" yaml:"c" mapstructure:"c"`
	Alpha         float64  `json:"alpha" yaml:"alpha" mapstructure:"alpha"`
	MaxIter       int      `json:"max_iter" yaml:"max_iter" mapstructure:"max_iter"`
	PositiveClass string   `json:"positive_class,omitempty" yaml:"positive_class,omitempty" mapstructure:"positive_class"`
}

// DefaultConfig returns the configuration used when nothing is overridden:
// unigrams, 70% random train split with seed 1, vocabulary from the whole
// corpus, and naive Bayes plus ridge and lasso logistic regression.
func DefaultConfig() Config {
	return Config{
		NGramMin:        1,
		NGramMax:        1,
		Lowercase:       true,
		TrainProportion: 0.7,
		Seed:            1,
		SplitStrategy:   string(model_selection.StrategyRandom),
		VocabularyScope: ScopeFullCorpus,
		Models:          []string{ModelNaiveBayes, ModelRidge, ModelLasso},
		C:               10,
		Alpha:           1,
		MaxIter:         200,
	}
}

// Validate checks the configuration without touching any data.
func (c Config) Validate() error {
	if c.NGramMin < 1 {
		return errors.NewValidationError("ngram_min", "must be at least 1", c.NGramMin)
	}
	if c.NGramMax < c.NGramMin {
		return errors.NewValidationError("ngram_max", "must not be below ngram_min", c.NGramMax)
	}
	if c.MinDocumentFrequency < 0 {
		return errors.NewValidationError("min_df", "must be non-negative", c.MinDocumentFrequency)
	}
	if math.IsNaN(c.TrainProportion) || c.TrainProportion <= 0 || c.TrainProportion >= 1 {
		return errors.NewValidationError("train_proportion", "must be in (0, 1)", c.TrainProportion)
	}
	if _, err := model_selection.ParseStrategy(c.SplitStrategy); err != nil {
		return err
	}
	if _, err := ParseVocabularyScope(string(c.VocabularyScope)); err != nil {
		return err
	}
	if len(c.Models) == 0 {
		return errors.NewValidationError("models", "at least one model is required", c.Models)
	}
	if c.C <= 0 {
		return errors.NewValidationError("c", "must be positive", c.C)
	}
	if c.Alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", c.Alpha)
	}
	if c.MaxIter < 1 {
		return errors.NewValidationError("max_iter", "must be at least 1", c.MaxIter)
	}
	return nil
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}
