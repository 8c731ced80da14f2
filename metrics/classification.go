package metrics

import (
	"math"

	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/pkg/log"
)

// Precision は TP / (TP + FP) を計算する
//
// 陽性クラスの予測が一つもない場合は UndefinedMetricError を返し、
// UndefinedMetricWarning を errors.Warn で通知する。
func Precision(cm *ConfusionMatrix, positive string) (float64, error) {
	tp, fp, _, err := cm.BinaryCounts(positive)
	if err != nil {
		return 0, err
	}
	if tp+fp == 0 {
		return undefined("precision", "no predicted samples for class "+positive)
	}
	return float64(tp) / float64(tp+fp), nil
}

// Recall は TP / (TP + FN) を計算する
//
// 正解に陽性クラスが一つもない場合は UndefinedMetricError を返す。
func Recall(cm *ConfusionMatrix, positive string) (float64, error) {
	tp, _, fn, err := cm.BinaryCounts(positive)
	if err != nil {
		return 0, err
	}
	if tp+fn == 0 {
		return undefined("recall", "no true samples for class "+positive)
	}
	return float64(tp) / float64(tp+fn), nil
}

// Accuracy は対角成分の合計 / 全体
func Accuracy(cm *ConfusionMatrix) (float64, error) {
	if cm.Total() == 0 {
		return 0, errors.NewValueError("Accuracy", "empty confusion matrix")
	}
	return float64(cm.Correct()) / float64(cm.Total()), nil
}

// F1Score は適合率と再現率の調和平均
//
// どちらかが未定義なら UndefinedMetricError。両方 0 の場合は 0 を返す。
func F1Score(cm *ConfusionMatrix, positive string) (float64, error) {
	p, err := Precision(cm, positive)
	if err != nil {
		return 0, err
	}
	r, err := Recall(cm, positive)
	if err != nil {
		return 0, err
	}
	return harmonicMean(p, r), nil
}

func undefined(metric, condition string) (float64, error) {
	errors.Warn(errors.NewUndefinedMetricWarning(metric, condition, math.NaN()))
	return 0, errors.NewUndefinedMetricError(metric, condition)
}

// ClassMetrics はクラスごとの評価値。未定義の値は NaN
type ClassMetrics struct {
	Class     string  `json:"class" yaml:"class"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
	Support   int     `json:"support" yaml:"support"`
}

// ClassificationReport は各クラスを陽性とみなした指標を Classes の順に返す
// 未定義の値は警告なしで NaN になる
func ClassificationReport(cm *ConfusionMatrix) []ClassMetrics {
	out := make([]ClassMetrics, len(cm.Classes))
	for i, c := range cm.Classes {
		tp, fp, fn, _ := cm.BinaryCounts(c)
		p, r := ratio(tp, tp+fp), ratio(tp, tp+fn)
		out[i] = ClassMetrics{
			Class:     c,
			Precision: p,
			Recall:    r,
			F1:        harmonicMean(p, r),
			Support:   cm.Support(c),
		}
	}
	return out
}

// ratio returns NaN for a zero denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}

// harmonicMean propagates NaN and is 0 when both inputs are 0.
func harmonicMean(p, r float64) float64 {
	if math.IsNaN(p) || math.IsNaN(r) {
		return math.NaN()
	}
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Report はひとつのモデルの評価結果
//
// Precision/Recall/F1 が未定義の場合は NaN が入り、対応する *Defined が false になる。
type Report struct {
	Model           string           `json:"model,omitempty" yaml:"model,omitempty"`
	PositiveClass   string           `json:"positive_class" yaml:"positive_class"`
	Samples         int              `json:"samples" yaml:"samples"`
	ConfusionMatrix *ConfusionMatrix `json:"confusion_matrix" yaml:"confusion_matrix"`

	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`

	PrecisionDefined bool `json:"precision_defined" yaml:"precision_defined"`
	RecallDefined    bool `json:"recall_defined" yaml:"recall_defined"`

	PerClass []ClassMetrics `json:"per_class" yaml:"per_class"`
}

// EvaluateOption は Evaluate の関数オプション
type EvaluateOption func(*evaluateConfig)

type evaluateConfig struct {
	positive string
	classes  []string
	model    string
	logger   log.Logger
}

// WithPositiveClass は陽性クラスを指定する (デフォルト: クラス順序の先頭)
func WithPositiveClass(class string) EvaluateOption {
	return func(c *evaluateConfig) { c.positive = class }
}

// WithClasses はクラスの固定順序を指定する
func WithClasses(classes []string) EvaluateOption {
	return func(c *evaluateConfig) { c.classes = classes }
}

// WithModelName は Report.Model に記録する名前を指定する
func WithModelName(name string) EvaluateOption {
	return func(c *evaluateConfig) { c.model = name }
}

// WithLogger sets the logger used for the evaluation summary.
func WithLogger(logger log.Logger) EvaluateOption {
	return func(c *evaluateConfig) { c.logger = logger }
}

// Evaluate は予測と正解から Report を作成する
//
// 入力が空の場合は ValueError、長さが異なる場合は InputShapeError。
// 適合率・再現率が未定義でもエラーにはせず、Report に NaN を記録する。
func Evaluate(predicted, truth []string, opts ...EvaluateOption) (*Report, error) {
	cfg := &evaluateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("metrics")
	}

	cm, err := NewConfusionMatrix(predicted, truth, cfg.classes)
	if err != nil {
		return nil, err
	}
	positive := cfg.positive
	if positive == "" {
		positive = cm.Classes[0]
	}

	accuracy, err := Accuracy(cm)
	if err != nil {
		return nil, err
	}
	report := &Report{
		Model:           cfg.model,
		PositiveClass:   positive,
		Samples:         cm.Total(),
		ConfusionMatrix: cm,
		Accuracy:        accuracy,
		PerClass:        ClassificationReport(cm),
	}

	var undefinedErr *errors.UndefinedMetricError
	report.Precision, err = Precision(cm, positive)
	switch {
	case err == nil:
		report.PrecisionDefined = true
	case errors.As(err, &undefinedErr):
		report.Precision = math.NaN()
	default:
		return nil, err
	}
	report.Recall, err = Recall(cm, positive)
	switch {
	case err == nil:
		report.RecallDefined = true
	case errors.As(err, &undefinedErr):
		report.Recall = math.NaN()
	default:
		return nil, err
	}
	report.F1 = harmonicMean(report.Precision, report.Recall)

	cfg.logger.Info("Evaluation finished",
		log.OperationKey, log.OperationScore,
		log.ModelNameKey, cfg.model,
		log.SamplesKey, report.Samples,
		log.PositiveClassKey, positive,
		log.AccuracyKey, report.Accuracy,
		log.PrecisionKey, report.Precision,
		log.RecallKey, report.Recall,
	)
	return report, nil
}
