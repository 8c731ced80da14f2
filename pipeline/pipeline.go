// Package pipeline wires feature extraction, the train/test split, the
// classifiers and the evaluator into one evaluation run.
package pipeline

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitext/core/model"
	"github.com/YuminosukeSato/scitext/dataset"
	"github.com/YuminosukeSato/scitext/metrics"
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/pkg/log"
	"github.com/YuminosukeSato/scitext/preprocessing"
	"github.com/YuminosukeSato/scitext/sklearn/feature_extraction"
	"github.com/YuminosukeSato/scitext/sklearn/model_selection"
)

// Record is one labelled text.
type Record = dataset.Record

// Result is the outcome of a Run. Reports follow the classifier order.
type Result struct {
	Config         Config                           `json:"config" yaml:"config"`
	Classes        []string                         `json:"classes" yaml:"classes"`
	VocabularySize int                              `json:"vocabulary_size" yaml:"vocabulary_size"`
	TrainSamples   int                              `json:"train_samples" yaml:"train_samples"`
	TestSamples    int                              `json:"test_samples" yaml:"test_samples"`
	Split          *model_selection.SplitAssignment `json:"-" yaml:"-"`
	Reports        []*metrics.Report                `json:"reports" yaml:"reports"`
	ElapsedMillis  int64                            `json:"elapsed_ms" yaml:"elapsed_ms"`
}

// Pipeline runs one evaluation configuration over a set of classifiers.
type Pipeline struct {
	cfg         Config
	scope       VocabularyScope
	strategy    model_selection.Strategy
	classifiers []model.NamedClassifier
	logger      log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClassifiers replaces the classifiers built from Config.Models.
func WithClassifiers(classifiers ...model.NamedClassifier) Option {
	return func(p *Pipeline) {
		p.classifiers = classifiers
	}
}

// WithLogger sets the logger used by every stage.
func WithLogger(logger log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New validates cfg and prepares a pipeline. Without WithClassifiers the
// classifiers named in cfg.Models are used.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("pipeline")
	}

	p.scope, _ = ParseVocabularyScope(string(cfg.VocabularyScope))
	p.strategy, _ = model_selection.ParseStrategy(cfg.SplitStrategy)

	if p.classifiers == nil {
		classifiers, err := BuildClassifiers(cfg, p.logger)
		if err != nil {
			return nil, err
		}
		p.classifiers = classifiers
	}
	if len(p.classifiers) == 0 {
		return nil, errors.NewValidationError("classifiers", "at least one classifier is required", 0)
	}
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run extracts features, splits once and evaluates every classifier on the
// same partitions. Failures are wrapped with the stage they happened in;
// a panic inside any stage comes back as a PanicError.
func (p *Pipeline) Run(records []Record) (result *Result, err error) {
	defer errors.Recover(&err, "pipeline.Run")
	start := time.Now()

	if len(records) == 0 {
		return nil, errors.NewModelError("pipeline.Run", "empty data", errors.ErrEmptyData)
	}
	ids := dataset.IDs(records)
	labels := dataset.Labels(records)

	split, err := model_selection.Split(p.strategy, ids, labels, p.cfg.TrainProportion, p.cfg.Seed)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.PhaseSplit)
	}
	if len(split.Train) == 0 || len(split.Test) == 0 {
		return nil, errors.Wrapf(
			errors.NewValueError("pipeline.Run", "a partition is empty; use more records or another train proportion"),
			"stage %s", log.PhaseSplit)
	}
	p.logger.Info("Records split",
		log.PhaseKey, log.PhaseSplit,
		log.SplitStrategyKey, string(p.strategy),
		log.RandomSeedKey, p.cfg.Seed,
		log.TrainSamplesKey, len(split.Train),
		log.TestSamplesKey, len(split.Test),
		log.TrainProportionKey, split.TrainProportion(),
	)

	train, test, vocabSize, err := p.extract(records, split)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.PhaseExtraction)
	}
	yTrain, yTest, err := split.ApplyLabels(labels)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.PhaseSplit)
	}

	classes := sortedClasses(labels)
	result = &Result{
		Config:         p.cfg,
		Classes:        classes,
		VocabularySize: vocabSize,
		TrainSamples:   len(yTrain),
		TestSamples:    len(yTest),
		Split:          split,
	}

	for _, nc := range p.classifiers {
		report, err := p.evaluate(nc, train, test, yTrain, yTest, classes)
		if err != nil {
			return nil, err
		}
		result.Reports = append(result.Reports, report)
	}

	result.ElapsedMillis = time.Since(start).Milliseconds()
	p.logger.Info("Run finished",
		log.SamplesKey, len(records),
		log.VocabularySizeKey, vocabSize,
		log.DurationMsKey, result.ElapsedMillis,
	)
	return result, nil
}

// extract builds the train and test feature matrices according to the
// vocabulary scope, applying tf-idf weighting when configured.
func (p *Pipeline) extract(records []Record, split *model_selection.SplitAssignment) (train, test mat.Matrix, vocabSize int, err error) {
	docs := documents(records)
	vectorizer := p.newVectorizer()

	switch p.scope {
	case ScopeTrainOnly:
		trainDocs, testDocs := pick(docs, split.Train), pick(docs, split.Test)
		trainM, err := vectorizer.FitTransform(trainDocs)
		if err != nil {
			return nil, nil, 0, err
		}
		testM, err := vectorizer.Transform(testDocs)
		if err != nil {
			return nil, nil, 0, err
		}
		train, test, vocabSize = trainM, testM, trainM.Vocabulary.Len()
	default:
		m, err := vectorizer.FitTransform(docs)
		if err != nil {
			return nil, nil, 0, err
		}
		if train, test, err = split.Apply(m); err != nil {
			return nil, nil, 0, err
		}
		vocabSize = m.Vocabulary.Len()
	}

	if vocabSize == 0 {
		return nil, nil, 0, errors.NewValueError("pipeline.extract",
			"vocabulary is empty; lower min_df or the n-gram range")
	}
	p.logger.Debug("Features extracted",
		log.PhaseKey, log.PhaseExtraction,
		log.VocabularyScopeKey, string(p.scope),
		log.VocabularySizeKey, vocabSize,
	)

	if !p.cfg.UseTfidf {
		return train, test, vocabSize, nil
	}
	tfidf := preprocessing.NewTfidfTransformer()
	if train, err = tfidf.FitTransform(train); err != nil {
		return nil, nil, 0, err
	}
	if test, err = tfidf.Transform(test); err != nil {
		return nil, nil, 0, err
	}
	return train, test, vocabSize, nil
}

func (p *Pipeline) evaluate(nc model.NamedClassifier, train, test mat.Matrix, yTrain, yTest, classes []string) (*metrics.Report, error) {
	logger := p.logger.With(log.ModelNameKey, nc.Name)

	start := time.Now()
	fitted, err := nc.Classifier.Fit(train, yTrain)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s: model %s", log.PhaseTraining, nc.Name)
	}
	logger.Debug("Model trained",
		log.PhaseKey, log.PhaseTraining,
		log.TrainSamplesKey, len(yTrain),
		log.FeaturesKey, fitted.NFeatures(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	predicted, err := fitted.Predict(test)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s: model %s", log.PhaseInference, nc.Name)
	}

	opts := []metrics.EvaluateOption{
		metrics.WithClasses(classes),
		metrics.WithModelName(nc.Name),
		metrics.WithLogger(logger),
	}
	if p.cfg.PositiveClass != "" {
		opts = append(opts, metrics.WithPositiveClass(p.cfg.PositiveClass))
	}
	report, err := metrics.Evaluate(predicted, yTest, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s: model %s", log.PhaseEvaluation, nc.Name)
	}
	return report, nil
}

func (p *Pipeline) newVectorizer() *feature_extraction.CharNGramVectorizer {
	return feature_extraction.NewCharNGramVectorizer(
		feature_extraction.WithNGramRange(p.cfg.NGramMin, p.cfg.NGramMax),
		feature_extraction.WithLowercase(p.cfg.Lowercase),
		feature_extraction.WithMinDocumentFrequency(p.cfg.MinDocumentFrequency),
		feature_extraction.WithLogger(p.logger),
	)
}

// VocabularyStats describes the vocabulary before and after trimming.
type VocabularyStats struct {
	NGramMin int      `json:"ngram_min" yaml:"ngram_min"`
	NGramMax int      `json:"ngram_max" yaml:"ngram_max"`
	Before   int      `json:"before" yaml:"before"`
	After    int      `json:"after" yaml:"after"`
	Tokens   []string `json:"tokens" yaml:"tokens"`
}

// Vocabulary builds the full-corpus vocabulary of records and trims it with
// the configured minimum document frequency.
func (p *Pipeline) Vocabulary(records []Record) (*VocabularyStats, error) {
	vectorizer := feature_extraction.NewCharNGramVectorizer(
		feature_extraction.WithNGramRange(p.cfg.NGramMin, p.cfg.NGramMax),
		feature_extraction.WithLowercase(p.cfg.Lowercase),
		feature_extraction.WithLogger(p.logger),
	)
	m, err := vectorizer.FitTransform(documents(records))
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.PhaseExtraction)
	}
	trimmed, err := vectorizer.Trim(m, p.cfg.MinDocumentFrequency)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.PhaseExtraction)
	}
	minN, maxN := vectorizer.NGramRange()
	return &VocabularyStats{
		NGramMin: minN,
		NGramMax: maxN,
		Before:   m.Vocabulary.Len(),
		After:    trimmed.Vocabulary.Len(),
		Tokens:   trimmed.Vocabulary.Tokens(),
	}, nil
}

func documents(records []Record) []feature_extraction.Document {
	docs := make([]feature_extraction.Document, len(records))
	for i, r := range records {
		docs[i] = feature_extraction.Document{ID: r.ID, Text: r.Text}
	}
	return docs
}

func pick(docs []feature_extraction.Document, idx []int) []feature_extraction.Document {
	out := make([]feature_extraction.Document, len(idx))
	for k, i := range idx {
		out[k] = docs[i]
	}
	return out
}

func sortedClasses(labels []string) []string {
	seen := make(map[string]bool)
	var classes []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			classes = append(classes, l)
		}
	}
	sort.Strings(classes)
	return classes
}
