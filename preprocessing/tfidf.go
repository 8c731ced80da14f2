package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/scitext/core/model"
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TfidfTransformer はn-gram出現回数行列をtf-idf重みに変換する
// scikit-learnのTfidfTransformerと同じ平滑化idfを使用する:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
type TfidfTransformer struct {
	state *model.StateManager

	// IDF は各特徴量の逆文書頻度
	IDF []float64

	// SmoothIDF は文書数と文書頻度に1を加えるかどうか (デフォルト: true)
	SmoothIDF bool

	// SublinearTF はtfを1+ln(tf)に置き換えるかどうか (デフォルト: false)
	SublinearTF bool

	// Normalize は各行をL2ノルム1に正規化するかどうか (デフォルト: true)
	Normalize bool
}

// TfidfOption is a functional option for TfidfTransformer.
type TfidfOption func(*TfidfTransformer)

// WithSmoothIDF sets idf smoothing.
func WithSmoothIDF(smooth bool) TfidfOption {
	return func(t *TfidfTransformer) { t.SmoothIDF = smooth }
}

// WithSublinearTF replaces tf with 1 + ln(tf).
func WithSublinearTF(sublinear bool) TfidfOption {
	return func(t *TfidfTransformer) { t.SublinearTF = sublinear }
}

// WithL2Normalize toggles per-row L2 normalization.
func WithL2Normalize(normalize bool) TfidfOption {
	return func(t *TfidfTransformer) { t.Normalize = normalize }
}

// NewTfidfTransformer は新しいTfidfTransformerを作成する
//
// 使用例:
//
//	tfidf := preprocessing.NewTfidfTransformer()
//	weighted, err := tfidf.FitTransform(counts)
func NewTfidfTransformer(opts ...TfidfOption) *TfidfTransformer {
	t := &TfidfTransformer{
		state:     model.NewStateManager(),
		SmoothIDF: true,
		Normalize: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fit は出現回数行列から各列の文書頻度を数えidfを計算する
func (t *TfidfTransformer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("TfidfTransformer.Fit", "empty data", errors.ErrEmptyData)
	}

	smooth := 0.0
	if t.SmoothIDF {
		smooth = 1.0
	}

	t.IDF = make([]float64, c)
	for j := 0; j < c; j++ {
		df := 0.0
		for i := 0; i < r; i++ {
			v := X.At(i, j)
			if v < 0 {
				return errors.NewValueError("TfidfTransformer.Fit", "negative counts are not allowed")
			}
			if v > 0 {
				df++
			}
		}
		t.IDF[j] = math.Log((float64(r)+smooth)/(df+smooth)) + 1
	}

	t.state.SetDimensions(c, r)
	t.state.SetFitted()
	return nil
}

// Transform は学習済みidfで重み付けした新しい行列を返す
func (t *TfidfTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.state.RequireFitted("TfidfTransformer", "Transform"); err != nil {
		return nil, err
	}
	if err := t.state.CheckFeatures("TfidfTransformer.Transform", X); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	result := mat.NewDense(r, c, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			tf := X.At(i, j)
			if t.SublinearTF && tf > 0 {
				tf = 1 + math.Log(tf)
			}
			row[j] = tf * t.IDF[j]
		}
		if t.Normalize {
			if norm := floats.Norm(row, 2); norm > 0 {
				floats.Scale(1/norm, row)
			}
		}
		result.SetRow(i, row)
	}
	return result, nil
}

// FitTransform はFitとTransformを続けて実行する
func (t *TfidfTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}

// String はtransformerの文字列表現を返す
func (t *TfidfTransformer) String() string {
	nFeatures, _ := t.state.GetDimensions()
	return fmt.Sprintf("TfidfTransformer(smooth_idf=%t, sublinear_tf=%t, norm=%t, n_features=%d)",
		t.SmoothIDF, t.SublinearTF, t.Normalize, nFeatures)
}
