package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/pkg/log"
)

func quiet() Option {
	l, _ := log.NewTestLogger(log.LevelDebug)
	return WithLogger(l)
}

func TestLoadCSVWithColumns(t *testing.T) {
	records, err := LoadCSV(filepath.Join("testdata", "names.csv"),
		WithColumns("name", "gender"), WithIDColumn("id"), quiet())
	require.NoError(t, err)

	// the row without a label is skipped, the empty name is kept
	require.Len(t, records, 5)
	assert.Equal(t, Record{ID: "1", Text: "anna", Label: "F"}, records[0])
	assert.Equal(t, Record{ID: "5", Text: "", Label: "F"}, records[4])
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	assert.Equal(t, []string{"anna", "john", "mary", "mark", ""}, texts)
	assert.Equal(t, []string{"F", "M", "F", "M", "F"}, Labels(records))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, IDs(records))
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    []Option
		want    []Record
		wantErr bool
	}{
		{
			name:  "default header",
			input: "text,label\nanna,F\njohn,M\n",
			want: []Record{
				{ID: "1", Text: "anna", Label: "F"},
				{ID: "2", Text: "john", Label: "M"},
			},
		},
		{
			name:  "no header uses first two fields",
			input: "anna,F\njohn,M\n",
			want: []Record{
				{ID: "1", Text: "anna", Label: "F"},
				{ID: "2", Text: "john", Label: "M"},
			},
		},
		{
			name:  "header columns in any order and case",
			input: "Gender,Name\nF,anna\n",
			opts:  []Option{WithColumns("name", "gender")},
			want:  []Record{{ID: "1", Text: "anna", Label: "F"}},
		},
		{
			name:  "semicolon delimited",
			input: "text;label\n mary ; F\n",
			opts:  []Option{WithComma(';')},
			want:  []Record{{ID: "1", Text: "mary", Label: "F"}},
		},
		{
			name:  "short rows skipped",
			input: "text,label\nanna\njohn,M\n",
			want:  []Record{{ID: "2", Text: "john", Label: "M"}},
		},
		{
			name:    "explicit columns without header",
			input:   "anna,F\n",
			opts:    []Option{WithColumns("name", "gender")},
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "header only",
			input:   "text,label\n",
			wantErr: true,
		},
		{
			name:    "malformed quoting",
			input:   "text,label\n\"anna,F\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input), append(tt.opts, quiet())...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestReadEmptyIsErrEmptyData(t *testing.T) {
	_, err := Read(strings.NewReader(""), quiet())
	assert.True(t, errors.Is(err, errors.ErrEmptyData), "got %v", err)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join("testdata", "missing.csv"), quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}
