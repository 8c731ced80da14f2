package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetCommands clears flag values and viper state left by a previous
// Execute in the same process.
func resetCommands(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if _, ok := f.Value.(pflag.SliceValue); !ok {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetCommands(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	resetCommands(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvaluateCommand(t *testing.T) {
	out, err := execute(t, "evaluate",
		"--data", "testdata/names.csv",
		"--text-column", "name", "--label-column", "gender", "--id-column", "id",
		"--ngram-max", "2", "--split", "stratified", "--train", "0.7",
		"--models", "nb", "--format", "json")
	require.NoError(t, err)

	var decoded struct {
		TrainSamples int `json:"train_samples"`
		TestSamples  int `json:"test_samples"`
		Models       []struct {
			Model         string  `json:"model"`
			PositiveClass string  `json:"positive_class"`
			Accuracy      float64 `json:"accuracy"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	// 10 records per label, 7 of each in train
	assert.Equal(t, 14, decoded.TrainSamples)
	assert.Equal(t, 6, decoded.TestSamples)
	require.Len(t, decoded.Models, 1)
	assert.Equal(t, "nb", decoded.Models[0].Model)
	assert.Equal(t, "F", decoded.Models[0].PositiveClass)
}

func TestEvaluateCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad split", []string{"evaluate", "--data", "testdata/names.csv", "--text-column", "name", "--label-column", "gender", "--split", "kfold"}},
		{"bad format", []string{"evaluate", "--data", "testdata/names.csv", "--text-column", "name", "--label-column", "gender", "--format", "csv"}},
		{"missing file", []string{"evaluate", "--data", "testdata/missing.csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestVocabCommand(t *testing.T) {
	out, err := execute(t, "vocab",
		"--data", "testdata/names.csv",
		"--text-column", "name", "--label-column", "gender",
		"--min-df", "3", "--tokens")
	require.NoError(t, err)
	assert.Contains(t, out, "records:    20")
	assert.Contains(t, out, "ngram:      1..1")
	assert.Contains(t, out, "trimmed:")
	assert.Contains(t, out, "(min_df=3)")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "scitext dev\n", out)
}
