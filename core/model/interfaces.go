// Package model defines the capability contracts shared by estimators and
// the evaluation pipeline.
package model

import "gonum.org/v1/gonum/mat"

// Fitter は数値ラベル (n×1) で学習可能な推定器のインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能な推定器のインターフェース
type Predictor interface {
	// Predict は入力データに対するクラスインデックス (n×1) を返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は数値ラベルを扱う教師あり推定器
type Estimator interface {
	Fitter
	Predictor
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the capability the evaluation pipeline consumes. Any
// algorithm can sit behind it.
//
// Fit fails with a TrainingError when X has no rows, when the row count of
// X differs from len(y), or when y has fewer than two distinct labels.
type Classifier interface {
	Fit(X mat.Matrix, y []string) (FittedModel, error)
}

// FittedModel is a trained classifier with a fixed feature dimension.
//
// Predict fails with a DimensionMismatchError when the column count of X
// differs from NFeatures.
type FittedModel interface {
	Predict(X mat.Matrix) ([]string, error)
	NFeatures() int
	Classes() []string
}

// NamedClassifier pairs a classifier with the name used in reports.
type NamedClassifier struct {
	Name       string
	Classifier Classifier
}
