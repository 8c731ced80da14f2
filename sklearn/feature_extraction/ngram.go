// Package feature_extraction turns raw text into character n-gram count
// matrices with a deterministic, first-seen-order vocabulary.
package feature_extraction

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/YuminosukeSato/scitext/core/model"
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/pkg/log"
)

// Document is one text to vectorize, identified by ID.
type Document struct {
	ID   string
	Text string
}

// CharNGramVectorizer counts contiguous character n-grams for every n in
// [minN, maxN]. Texts are split into runes, so multi-byte characters count
// as one character.
type CharNGramVectorizer struct {
	state *model.StateManager

	minN      int
	maxN      int
	lowercase bool
	unicodeNF bool
	minDF     int

	vocab  *Vocabulary
	logger log.Logger
}

// VectorizerOption is a functional option for CharNGramVectorizer.
type VectorizerOption func(*CharNGramVectorizer)

// WithNGramRange sets the inclusive n-gram length range.
func WithNGramRange(minN, maxN int) VectorizerOption {
	return func(v *CharNGramVectorizer) {
		v.minN = minN
		v.maxN = maxN
	}
}

// WithLowercase folds text to lower case before extraction (default true).
func WithLowercase(lower bool) VectorizerOption {
	return func(v *CharNGramVectorizer) {
		v.lowercase = lower
	}
}

// WithUnicodeNormalization applies NFC before extraction (default true), so
// precomposed and combining forms produce the same n-grams.
func WithUnicodeNormalization(enabled bool) VectorizerOption {
	return func(v *CharNGramVectorizer) {
		v.unicodeNF = enabled
	}
}

// WithMinDocumentFrequency trims the vocabulary built by FitTransform to
// n-grams present in at least minDF documents. Zero disables trimming.
func WithMinDocumentFrequency(minDF int) VectorizerOption {
	return func(v *CharNGramVectorizer) {
		v.minDF = minDF
	}
}

// WithLogger sets the logger used for extraction events.
func WithLogger(logger log.Logger) VectorizerOption {
	return func(v *CharNGramVectorizer) {
		v.logger = logger
	}
}

// NewCharNGramVectorizer creates a vectorizer for unigrams by default.
func NewCharNGramVectorizer(opts ...VectorizerOption) *CharNGramVectorizer {
	v := &CharNGramVectorizer{
		state:     model.NewStateManager(),
		minN:      1,
		maxN:      1,
		lowercase: true,
		unicodeNF: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = log.GetLoggerWithName("feature_extraction")
	}
	return v
}

func (v *CharNGramVectorizer) validate() error {
	if v.minN < 1 {
		return errors.NewValidationError("ngram_min", "must be >= 1", v.minN)
	}
	if v.maxN < v.minN {
		return errors.NewValidationError("ngram_max", fmt.Sprintf("must be >= ngram_min (%d)", v.minN), v.maxN)
	}
	if v.minDF < 0 {
		return errors.NewValidationError("min_df", "must be >= 0", v.minDF)
	}
	return nil
}

// Fit builds the vocabulary from docs in first-seen order. Fit does not
// apply the minimum document frequency; FitTransform and Trim do.
func (v *CharNGramVectorizer) Fit(docs []Document) error {
	if err := v.validate(); err != nil {
		return err
	}
	if len(docs) == 0 {
		return errors.NewModelError("CharNGramVectorizer.Fit", "empty data", errors.ErrEmptyData)
	}

	vocab := NewVocabulary()
	for _, doc := range docs {
		v.eachNGram(doc.Text, func(gram string) {
			vocab.Add(gram)
		})
	}

	v.vocab = vocab
	v.state.SetDimensions(vocab.Len(), len(docs))
	v.state.SetFitted()

	v.logger.Debug("Vocabulary built",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, len(docs),
		log.VocabularySizeKey, vocab.Len(),
		log.NGramMinKey, v.minN,
		log.NGramMaxKey, v.maxN,
	)
	return nil
}

// Transform counts vocabulary n-grams in each document. N-grams outside the
// vocabulary are ignored, and a text shorter than minN yields a zero row.
func (v *CharNGramVectorizer) Transform(docs []Document) (*DocumentFeatureMatrix, error) {
	if err := v.state.RequireFitted("CharNGramVectorizer", "Transform"); err != nil {
		return nil, err
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	m := newDocumentFeatureMatrix(ids, v.vocab)
	for i, doc := range docs {
		row := m.data[i*m.cols : (i+1)*m.cols]
		v.eachNGram(doc.Text, func(gram string) {
			if j, ok := v.vocab.Index(gram); ok {
				row[j]++
			}
		})
	}
	return m, nil
}

// FitTransform fits the vocabulary, counts, and applies the configured
// minimum document frequency.
func (v *CharNGramVectorizer) FitTransform(docs []Document) (*DocumentFeatureMatrix, error) {
	start := time.Now()
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	m, err := v.Transform(docs)
	if err != nil {
		return nil, err
	}
	if v.minDF > 0 {
		if m, err = v.Trim(m, v.minDF); err != nil {
			return nil, err
		}
	}
	v.logger.Info("Feature matrix extracted",
		log.OperationKey, log.OperationFitTransform,
		log.SamplesKey, len(docs),
		log.FeaturesKey, m.cols,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

// Trim narrows m to columns with document frequency >= minDF and makes the
// trimmed vocabulary the vectorizer's own, so later Transform calls produce
// the same columns. m must have been produced by this vectorizer.
func (v *CharNGramVectorizer) Trim(m *DocumentFeatureMatrix, minDF int) (*DocumentFeatureMatrix, error) {
	if err := v.state.RequireFitted("CharNGramVectorizer", "Trim"); err != nil {
		return nil, err
	}
	if m.Vocabulary != v.vocab {
		return nil, errors.NewDimensionMismatchError("CharNGramVectorizer.Trim", v.vocab.Len(), m.Vocabulary.Len(), 1)
	}
	before := m.cols
	trimmed := m.Trim(minDF)
	v.vocab = trimmed.Vocabulary
	v.state.SetDimensions(v.vocab.Len(), m.rows)

	v.logger.Debug("Vocabulary trimmed",
		log.OperationKey, log.OperationTrim,
		log.MinDocumentFrequencyKey, minDF,
		"features.before", before,
		log.VocabularySizeKey, trimmed.cols,
	)
	return trimmed, nil
}

// Vocabulary returns the fitted vocabulary, nil before Fit.
func (v *CharNGramVectorizer) Vocabulary() *Vocabulary {
	return v.vocab
}

// NGramRange returns the configured range.
func (v *CharNGramVectorizer) NGramRange() (minN, maxN int) {
	return v.minN, v.maxN
}

// normalize applies the configured Unicode normalization and case folding.
func (v *CharNGramVectorizer) normalize(text string) string {
	if v.unicodeNF {
		text = norm.NFC.String(text)
	}
	if v.lowercase {
		text = cases.Lower(language.Und).String(text)
	}
	return text
}

func (v *CharNGramVectorizer) eachNGram(text string, fn func(gram string)) {
	runes := []rune(v.normalize(text))
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(runes); i++ {
			fn(string(runes[i : i+n]))
		}
	}
}
