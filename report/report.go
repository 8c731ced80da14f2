// Package report renders evaluation results as a text table, JSON, YAML or
// a PNG bar chart.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"go.yaml.in/yaml/v3"

	"github.com/YuminosukeSato/scitext/metrics"
	"github.com/YuminosukeSato/scitext/pipeline"
	"github.com/YuminosukeSato/scitext/pkg/errors"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json, yaml or yml. Empty selects text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.NewValidationError("format", "must be text, json or yaml", s)
}

// Write renders res to w in the given format.
func Write(w io.Writer, res *pipeline.Result, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, res)
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatYAML:
		return WriteYAML(w, res)
	}
	return errors.NewValidationError("format", "must be text, json or yaml", string(format))
}

// metricView mirrors metrics.Report with undefined values as null.
type metricView struct {
	Model           string            `json:"model" yaml:"model"`
	PositiveClass   string            `json:"positive_class" yaml:"positive_class"`
	Samples         int               `json:"samples" yaml:"samples"`
	Accuracy        float64           `json:"accuracy" yaml:"accuracy"`
	Precision       *float64          `json:"precision" yaml:"precision"`
	Recall          *float64          `json:"recall" yaml:"recall"`
	F1              *float64          `json:"f1" yaml:"f1"`
	ConfusionMatrix confusionView     `json:"confusion_matrix" yaml:"confusion_matrix"`
	PerClass        []classMetricView `json:"per_class" yaml:"per_class"`
}

type confusionView struct {
	Classes []string `json:"classes" yaml:"classes"`
	// Counts[predicted][true]
	Counts [][]int `json:"counts" yaml:"counts"`
}

type classMetricView struct {
	Class     string   `json:"class" yaml:"class"`
	Precision *float64 `json:"precision" yaml:"precision"`
	Recall    *float64 `json:"recall" yaml:"recall"`
	F1        *float64 `json:"f1" yaml:"f1"`
	Support   int      `json:"support" yaml:"support"`
}

type resultView struct {
	NGramMin        int          `json:"ngram_min" yaml:"ngram_min"`
	NGramMax        int          `json:"ngram_max" yaml:"ngram_max"`
	MinDF           int          `json:"min_df" yaml:"min_df"`
	Split           string       `json:"split" yaml:"split"`
	Seed            int64        `json:"seed" yaml:"seed"`
	VocabularyScope string       `json:"vocabulary_scope" yaml:"vocabulary_scope"`
	Tfidf           bool         `json:"tfidf" yaml:"tfidf"`
	Classes         []string     `json:"classes" yaml:"classes"`
	VocabularySize  int          `json:"vocabulary_size" yaml:"vocabulary_size"`
	TrainSamples    int          `json:"train_samples" yaml:"train_samples"`
	TestSamples     int          `json:"test_samples" yaml:"test_samples"`
	Models          []metricView `json:"models" yaml:"models"`
}

func defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func newMetricView(r *metrics.Report) metricView {
	v := metricView{
		Model:         r.Model,
		PositiveClass: r.PositiveClass,
		Samples:       r.Samples,
		Accuracy:      r.Accuracy,
		Precision:     defined(r.Precision),
		Recall:        defined(r.Recall),
		F1:            defined(r.F1),
	}
	if r.ConfusionMatrix != nil {
		v.ConfusionMatrix = confusionView{Classes: r.ConfusionMatrix.Classes, Counts: r.ConfusionMatrix.Counts}
	}
	for _, c := range r.PerClass {
		v.PerClass = append(v.PerClass, classMetricView{
			Class:     c.Class,
			Precision: defined(c.Precision),
			Recall:    defined(c.Recall),
			F1:        defined(c.F1),
			Support:   c.Support,
		})
	}
	return v
}

func newResultView(res *pipeline.Result) resultView {
	v := resultView{
		NGramMin:        res.Config.NGramMin,
		NGramMax:        res.Config.NGramMax,
		MinDF:           res.Config.MinDocumentFrequency,
		Split:           res.Config.SplitStrategy,
		Seed:            res.Config.Seed,
		VocabularyScope: string(res.Config.VocabularyScope),
		Tfidf:           res.Config.UseTfidf,
		Classes:         res.Classes,
		VocabularySize:  res.VocabularySize,
		TrainSamples:    res.TrainSamples,
		TestSamples:     res.TestSamples,
	}
	for _, r := range res.Reports {
		v.Models = append(v.Models, newMetricView(r))
	}
	return v
}

// WriteJSON writes res as indented JSON. Undefined metrics become null.
func WriteJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newResultView(res)); err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return nil
}

// WriteYAML writes res as YAML. Undefined metrics become null.
func WriteYAML(w io.Writer, res *pipeline.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newResultView(res)); err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	return errors.Wrap(enc.Close(), "marshaling YAML")
}

// WriteText writes a human readable summary: one block per model with the
// headline metrics, the confusion matrix and the per-class table.
func WriteText(w io.Writer, res *pipeline.Result) error {
	fmt.Fprintf(w, "records: train=%d test=%d  vocabulary=%d  ngram=%d..%d  split=%s seed=%d\n",
		res.TrainSamples, res.TestSamples, res.VocabularySize,
		res.Config.NGramMin, res.Config.NGramMax, res.Config.SplitStrategy, res.Config.Seed)

	for _, r := range res.Reports {
		fmt.Fprintf(w, "\n== %s (positive class %q)\n", r.Model, r.PositiveClass)
		fmt.Fprintf(w, "accuracy  %s\nprecision %s\nrecall    %s\nf1        %s\n\n",
			formatMetric(r.Accuracy), formatMetric(r.Precision), formatMetric(r.Recall), formatMetric(r.F1))
		if r.ConfusionMatrix != nil {
			fmt.Fprint(w, r.ConfusionMatrix.String())
			fmt.Fprintln(w)
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "class\tprecision\trecall\tf1\tsupport\t")
		for _, c := range r.PerClass {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t\n",
				c.Class, formatMetric(c.Precision), formatMetric(c.Recall), formatMetric(c.F1), c.Support)
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "writing report")
		}
	}
	return nil
}

func formatMetric(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", v)
}
