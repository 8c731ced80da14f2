// Package dataset loads labelled text records from CSV files.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/pkg/log"
)

// Record is one labelled text. Records are immutable once loaded.
type Record struct {
	ID    string `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Label string `json:"label" yaml:"label"`
}

// Option configures LoadCSV and Read.
type Option func(*config)

type config struct {
	textColumn   string
	labelColumn  string
	idColumn     string
	explicitCols bool
	comma        rune
	logger       log.Logger
}

// WithColumns selects the text and label columns by header name. A file
// read with explicit columns must have a header row.
func WithColumns(text, label string) Option {
	return func(c *config) {
		c.textColumn = text
		c.labelColumn = label
		c.explicitCols = true
	}
}

// WithIDColumn selects a column holding record IDs. Without it records are
// numbered by their 1-based data row.
func WithIDColumn(name string) Option {
	return func(c *config) {
		c.idColumn = name
	}
}

// WithComma sets the field delimiter (default ',').
func WithComma(r rune) Option {
	return func(c *config) {
		c.comma = r
	}
}

// WithLogger sets the logger used for load events.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// LoadCSV reads records from the CSV file at path.
func LoadCSV(path string, opts ...Option) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer file.Close()

	records, err := Read(file, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "load dataset %s", path)
	}
	return records, nil
}

// Read parses records from r.
//
// The first row is a header when it names both the text and the label
// column (case-insensitive, defaults "text" and "label"). Without a header
// the first two fields are text and label. Rows without a label are
// skipped; an empty text is kept.
func Read(r io.Reader, opts ...Option) ([]Record, error) {
	cfg := &config{textColumn: "text", labelColumn: "label", comma: ','}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("dataset")
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("dataset.Read", "empty data", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read dataset line 1")
	}

	textIdx, labelIdx, idIdx, header := cfg.columns(first)
	if !header && (cfg.explicitCols || cfg.idColumn != "") {
		return nil, errors.NewValidationError("columns", "header row does not name the requested columns", strings.Join(first, ","))
	}

	var (
		records []Record
		skipped int
		line    = 1
	)
	row := first
	if header {
		row = nil
	}
	for {
		if row == nil {
			line++
			row, err = reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, errors.Wrapf(err, "read dataset line %d", line)
			}
		}

		need := max(textIdx, labelIdx, idIdx)
		if len(row) <= need || strings.TrimSpace(row[labelIdx]) == "" {
			skipped++
			row = nil
			continue
		}
		id := strconv.Itoa(len(records) + skipped + 1)
		if idIdx >= 0 {
			id = strings.TrimSpace(row[idIdx])
		}
		records = append(records, Record{
			ID:    id,
			Text:  strings.TrimSpace(row[textIdx]),
			Label: strings.TrimSpace(row[labelIdx]),
		})
		row = nil
	}

	if len(records) == 0 {
		return nil, errors.NewModelError("dataset.Read", "empty data", errors.ErrEmptyData)
	}
	cfg.logger.Debug("Dataset loaded",
		log.SamplesKey, len(records),
		"data.skipped_rows", skipped,
		"data.header", header,
	)
	return records, nil
}

// columns resolves column positions from a candidate header row.
func (c *config) columns(first []string) (text, label, id int, header bool) {
	text, label, id = -1, -1, -1
	for i, name := range first {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case strings.ToLower(c.textColumn):
			text = i
		case strings.ToLower(c.labelColumn):
			label = i
		}
		if c.idColumn != "" && name == strings.ToLower(c.idColumn) {
			id = i
		}
	}
	if text >= 0 && label >= 0 && (c.idColumn == "" || id >= 0) {
		return text, label, id, true
	}
	return 0, 1, -1, false
}

// Labels returns the label of every record in order.
func Labels(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Label
	}
	return out
}

// IDs returns the ID of every record in order.
func IDs(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
