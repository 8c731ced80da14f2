package feature_extraction

import (
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DocumentFeatureMatrix is a record-by-n-gram count table. Rows follow the
// input document order and are labelled by RowIDs; columns follow the
// Vocabulary. It implements mat.Matrix and is read-only after construction.
type DocumentFeatureMatrix struct {
	RowIDs     []string
	Vocabulary *Vocabulary

	rows, cols int
	data       []float64 // row-major
}

var _ mat.Matrix = (*DocumentFeatureMatrix)(nil)

func newDocumentFeatureMatrix(ids []string, vocab *Vocabulary) *DocumentFeatureMatrix {
	return &DocumentFeatureMatrix{
		RowIDs:     ids,
		Vocabulary: vocab,
		rows:       len(ids),
		cols:       vocab.Len(),
		data:       make([]float64, len(ids)*vocab.Len()),
	}
}

// Dims implements mat.Matrix.
func (m *DocumentFeatureMatrix) Dims() (r, c int) {
	return m.rows, m.cols
}

// At implements mat.Matrix.
func (m *DocumentFeatureMatrix) At(i, j int) float64 {
	if i < 0 || i >= m.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= m.cols {
		panic(mat.ErrColAccess)
	}
	return m.data[i*m.cols+j]
}

// T implements mat.Matrix.
func (m *DocumentFeatureMatrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Count returns the count of token in row i, zero when token is not in the
// vocabulary.
func (m *DocumentFeatureMatrix) Count(i int, token string) float64 {
	j, ok := m.Vocabulary.Index(token)
	if !ok {
		return 0
	}
	return m.At(i, j)
}

// RawRow returns a copy of row i.
func (m *DocumentFeatureMatrix) RawRow(i int) []float64 {
	out := make([]float64, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

// DocumentFrequency returns, per column, the number of rows with a
// non-zero count.
func (m *DocumentFeatureMatrix) DocumentFrequency() []int {
	df := make([]int, m.cols)
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, v := range row {
			if v != 0 {
				df[j]++
			}
		}
	}
	return df
}

// Trim returns a narrower matrix keeping only the columns whose document
// frequency is at least minDocumentFrequency. A threshold <= 0 keeps every
// column. The receiver is not modified.
func (m *DocumentFeatureMatrix) Trim(minDocumentFrequency int) *DocumentFeatureMatrix {
	if minDocumentFrequency <= 0 {
		return m.selectColumns(allColumns(m.cols))
	}
	keep := make([]int, 0, m.cols)
	for j, df := range m.DocumentFrequency() {
		if df >= minDocumentFrequency {
			keep = append(keep, j)
		}
	}
	return m.selectColumns(keep)
}

// Rows returns the sub-matrix of the given rows, in the given order.
func (m *DocumentFeatureMatrix) Rows(indices []int) (*DocumentFeatureMatrix, error) {
	ids := make([]string, len(indices))
	for k, i := range indices {
		if i < 0 || i >= m.rows {
			return nil, errors.NewValueError("DocumentFeatureMatrix.Rows", "row index out of range")
		}
		ids[k] = m.RowIDs[i]
	}
	out := newDocumentFeatureMatrix(ids, m.Vocabulary)
	for k, i := range indices {
		copy(out.data[k*m.cols:(k+1)*m.cols], m.data[i*m.cols:(i+1)*m.cols])
	}
	return out, nil
}

func (m *DocumentFeatureMatrix) selectColumns(keep []int) *DocumentFeatureMatrix {
	out := newDocumentFeatureMatrix(append([]string(nil), m.RowIDs...), m.Vocabulary.subset(keep))
	for i := 0; i < m.rows; i++ {
		src := m.data[i*m.cols : (i+1)*m.cols]
		dst := out.data[i*out.cols : (i+1)*out.cols]
		for k, j := range keep {
			dst[k] = src[j]
		}
	}
	return out
}

func allColumns(n int) []int {
	cols := make([]int, n)
	for j := range cols {
		cols[j] = j
	}
	return cols
}
