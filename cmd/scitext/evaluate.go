package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scitext/pipeline"
	"github.com/YuminosukeSato/scitext/report"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Train the configured models and report test metrics",
	Long: `Evaluate loads labelled records from a CSV file, builds the character n-gram
feature matrix, splits the records with the configured seed and evaluates
every model on the same test partition.

Example:
  scitext evaluate --data names.csv --text-column name --label-column gender \
    --ngram-max 2 --min-df 2 --models nb,ridge,lasso --positive F`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd)
	},
	RunE: runEvaluate,
}

func init() {
	addDataFlags(evaluateCmd)
	addPipelineFlags(evaluateCmd)

	d := pipeline.DefaultConfig()
	f := evaluateCmd.Flags()
	f.Float64("train", d.TrainProportion, "share of records in the training partition, in (0, 1)")
	f.Int64("seed", d.Seed, "random seed of the split")
	f.String("split", d.SplitStrategy, "split strategy: random, exact or stratified")
	f.String("vocab", string(d.VocabularyScope), "vocabulary scope: full (whole corpus) or train")
	f.Bool("tfidf", d.UseTfidf, "weight counts with tf-idf before training")
	f.StringSlice("models", d.Models, "models to evaluate: nb, ridge, lasso, logistic")
	f.Float64("c", d.C, "inverse regularization strength of ridge and lasso")
	f.Float64("alpha", d.Alpha, "naive Bayes smoothing")
	f.Int("max-iter", d.MaxIter, "iterations of the logistic regression solver")
	f.String("positive", "", "positive class for precision and recall (default: first class)")
	f.String("format", "text", "output format: text, json or yaml")
	f.String("chart", "", "also write a bar chart of the metrics to this file (png, svg, pdf)")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := loadRecords(cmd)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	res, err := p.Run(records)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), res, format); err != nil {
		return err
	}
	if chart, _ := cmd.Flags().GetString("chart"); chart != "" {
		if err := report.SaveMetricsChart(chart, res.Reports); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Chart written to", chart)
	}
	return nil
}
