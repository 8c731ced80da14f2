// Package scitext evaluates character n-gram text classifiers.
//
// A run turns labelled texts into a document-feature matrix of character
// n-gram counts, splits the records into train and test partitions with an
// explicit seed, trains one or more classifiers on the train rows and scores
// their predictions on the test rows with a confusion matrix, precision,
// recall and accuracy. The motivating use is guessing a gender label from the
// characters of a first name.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/scitext/dataset"
//	    "github.com/YuminosukeSato/scitext/pipeline"
//	    "github.com/YuminosukeSato/scitext/report"
//	)
//
//	func main() {
//	    records, err := dataset.LoadCSV("names.csv", dataset.WithColumns("name", "gender"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    cfg := pipeline.DefaultConfig()
//	    cfg.NGramMax = 2
//	    cfg.MinDocumentFrequency = 2
//
//	    p, err := pipeline.New(cfg)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    res, err := p.Run(records)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = report.WriteText(os.Stdout, res)
//	}
//
// # Packages
//
//   - sklearn/feature_extraction: CharNGramVectorizer, Vocabulary, DocumentFeatureMatrix
//   - sklearn/model_selection: seeded random, exact and stratified train/test splits
//   - sklearn/naive_bayes: MultinomialNB and its string-label Classifier
//   - sklearn/linear_model: L1/L2 logistic regression (lasso and ridge classifiers)
//   - preprocessing: LabelEncoder, TfidfTransformer
//   - metrics: ConfusionMatrix, Precision, Recall, Accuracy, F1Score, Evaluate
//   - core/model: Classifier and FittedModel contracts shared by every algorithm
//   - pipeline: Config and the end-to-end evaluation run
//   - dataset: CSV loading
//   - report: text, JSON and YAML output and a bar chart of the metrics
//   - pkg/errors, pkg/log: typed errors and structured logging
//
// The scitext command in cmd/scitext exposes the pipeline on the command line.
package scitext
