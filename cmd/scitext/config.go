package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/scitext/dataset"
	"github.com/YuminosukeSato/scitext/pipeline"
	"github.com/YuminosukeSato/scitext/pkg/errors"
)

// flagKeys maps command-line flags to pipeline.Config keys.
var flagKeys = map[string]string{
	"ngram-min": "ngram_min",
	"ngram-max": "ngram_max",
	"min-df":    "min_df",
	"lowercase": "lowercase",
	"train":     "train_proportion",
	"seed":      "seed",
	"split":     "split",
	"vocab":     "vocabulary_scope",
	"tfidf":     "tfidf",
	"models":    "models",
	"c":         "c",
	"alpha":     "alpha",
	"max-iter":  "max_iter",
	"positive":  "positive_class",
}

func setDefaults() {
	d := pipeline.DefaultConfig()
	viper.SetDefault("ngram_min", d.NGramMin)
	viper.SetDefault("ngram_max", d.NGramMax)
	viper.SetDefault("min_df", d.MinDocumentFrequency)
	viper.SetDefault("lowercase", d.Lowercase)
	viper.SetDefault("train_proportion", d.TrainProportion)
	viper.SetDefault("seed", d.Seed)
	viper.SetDefault("split", d.SplitStrategy)
	viper.SetDefault("vocabulary_scope", string(d.VocabularyScope))
	viper.SetDefault("tfidf", d.UseTfidf)
	viper.SetDefault("models", d.Models)
	viper.SetDefault("c", d.C)
	viper.SetDefault("alpha", d.Alpha)
	viper.SetDefault("max_iter", d.MaxIter)
	viper.SetDefault("positive_class", "")
}

// bindFlags binds the pipeline flags of cmd to their viper keys. Commands
// share keys, so binding happens when the command runs.
func bindFlags(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = viper.BindPFlag(key, f)
	})
	return bindErr
}

func addPipelineFlags(cmd *cobra.Command) {
	d := pipeline.DefaultConfig()
	f := cmd.Flags()
	f.Int("ngram-min", d.NGramMin, "smallest n-gram length")
	f.Int("ngram-max", d.NGramMax, "largest n-gram length")
	f.Int("min-df", d.MinDocumentFrequency, "drop n-grams found in fewer records (0 keeps all)")
	f.Bool("lowercase", d.Lowercase, "lower-case texts before extraction")
}

func addDataFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("data", "", "CSV file with one record per row (required)")
	f.String("text-column", "", "header name of the text column (default: text)")
	f.String("label-column", "", "header name of the label column (default: label)")
	f.String("id-column", "", "header name of the record ID column (default: row number)")
	_ = cmd.MarkFlagRequired("data")
}

// loadConfig assembles the pipeline configuration from defaults, the config
// file, SCITEXT_* environment variables and flags.
func loadConfig() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadRecords reads the CSV named by the data flags of cmd.
func loadRecords(cmd *cobra.Command) ([]pipeline.Record, error) {
	path, _ := cmd.Flags().GetString("data")
	textCol, _ := cmd.Flags().GetString("text-column")
	labelCol, _ := cmd.Flags().GetString("label-column")
	idCol, _ := cmd.Flags().GetString("id-column")

	var opts []dataset.Option
	if textCol != "" || labelCol != "" {
		if textCol == "" {
			textCol = "text"
		}
		if labelCol == "" {
			labelCol = "label"
		}
		opts = append(opts, dataset.WithColumns(textCol, labelCol))
	}
	if idCol != "" {
		opts = append(opts, dataset.WithIDColumn(idCol))
	}
	return dataset.LoadCSV(path, opts...)
}
