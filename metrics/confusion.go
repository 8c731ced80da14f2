// Package metrics は分類結果の評価指標を提供する。
//
// すべての指標は混同行列 (ConfusionMatrix) から計算される。混同行列は
// [予測ラベル][正解ラベル] の順にインデックスされる。
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/YuminosukeSato/scitext/pkg/errors"
)

// ConfusionMatrix は予測ラベルと正解ラベルのクロス集計
type ConfusionMatrix struct {
	// Classes はクラスの固定順序。行と列の両方がこの順序に従う
	Classes []string `json:"classes" yaml:"classes"`

	// Counts[p][t] は予測 Classes[p]、正解 Classes[t] のレコード数
	Counts [][]int `json:"counts" yaml:"counts"`

	index map[string]int
	total int
}

// NewConfusionMatrix は予測と正解のラベル列から混同行列を作成する
//
// classes が nil の場合、両方のラベル列の和集合をソートした順序を使う。
// 長さが異なる場合は InputShapeError、classes に含まれないラベルは ValueError。
func NewConfusionMatrix(predicted, truth, classes []string) (*ConfusionMatrix, error) {
	if len(predicted) != len(truth) {
		return nil, errors.NewInputShapeErrorFor("evaluation", "labels", []int{len(truth)}, []int{len(predicted)})
	}
	if len(truth) == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty label sequences")
	}

	if classes == nil {
		classes = unionSorted(predicted, truth)
	}
	cm := &ConfusionMatrix{
		Classes: append([]string(nil), classes...),
		Counts:  make([][]int, len(classes)),
		index:   make(map[string]int, len(classes)),
	}
	for i, c := range cm.Classes {
		if _, dup := cm.index[c]; dup {
			return nil, errors.NewValueError("NewConfusionMatrix", fmt.Sprintf("duplicate class %q", c))
		}
		cm.index[c] = i
		cm.Counts[i] = make([]int, len(classes))
	}

	for i := range truth {
		p, ok := cm.index[predicted[i]]
		if !ok {
			return nil, errors.NewValueError("NewConfusionMatrix", fmt.Sprintf("predicted label %q not in classes", predicted[i]))
		}
		t, ok := cm.index[truth[i]]
		if !ok {
			return nil, errors.NewValueError("NewConfusionMatrix", fmt.Sprintf("true label %q not in classes", truth[i]))
		}
		cm.Counts[p][t]++
		cm.total++
	}
	return cm, nil
}

// Total はセルの合計。常に評価したレコード数と等しい
func (cm *ConfusionMatrix) Total() int {
	return cm.total
}

// Count は予測 predicted、正解 truth のセルの値を返す
func (cm *ConfusionMatrix) Count(predicted, truth string) int {
	p, ok := cm.index[predicted]
	if !ok {
		return 0
	}
	t, ok := cm.index[truth]
	if !ok {
		return 0
	}
	return cm.Counts[p][t]
}

// Correct は対角成分の合計
func (cm *ConfusionMatrix) Correct() int {
	n := 0
	for i := range cm.Classes {
		n += cm.Counts[i][i]
	}
	return n
}

// BinaryCounts は positive を陽性クラスとした TP, FP, FN を返す
func (cm *ConfusionMatrix) BinaryCounts(positive string) (tp, fp, fn int, err error) {
	k, ok := cm.index[positive]
	if !ok {
		return 0, 0, 0, errors.NewValueError("ConfusionMatrix", fmt.Sprintf("positive class %q not in classes", positive))
	}
	tp = cm.Counts[k][k]
	for j := range cm.Classes {
		if j == k {
			continue
		}
		fp += cm.Counts[k][j]
		fn += cm.Counts[j][k]
	}
	return tp, fp, fn, nil
}

// Support は正解が class であるレコード数
func (cm *ConfusionMatrix) Support(class string) int {
	t, ok := cm.index[class]
	if !ok {
		return 0
	}
	n := 0
	for p := range cm.Classes {
		n += cm.Counts[p][t]
	}
	return n
}

// String は行を予測、列を正解とした表を返す
func (cm *ConfusionMatrix) String() string {
	width := len("pred\\true")
	for _, c := range cm.Classes {
		if len(c) > width {
			width = len(c)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", width, "pred\\true")
	for _, c := range cm.Classes {
		fmt.Fprintf(&b, " %*s", width, c)
	}
	b.WriteByte('\n')
	for p, c := range cm.Classes {
		fmt.Fprintf(&b, "%-*s", width, c)
		for t := range cm.Classes {
			fmt.Fprintf(&b, " %*d", width, cm.Counts[p][t])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]struct{}, 2)
	var out []string
	for _, labels := range [][]string{a, b} {
		for _, l := range labels {
			if _, ok := seen[l]; !ok {
				seen[l] = struct{}{}
				out = append(out, l)
			}
		}
	}
	sort.Strings(out)
	return out
}
