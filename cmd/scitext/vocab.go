package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scitext/pipeline"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the n-gram vocabulary size before and after trimming",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
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
		stats, err := p.Vocabulary(records)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "records:    %d\n", len(records))
		fmt.Fprintf(out, "ngram:      %d..%d\n", stats.NGramMin, stats.NGramMax)
		fmt.Fprintf(out, "vocabulary: %d\n", stats.Before)
		fmt.Fprintf(out, "trimmed:    %d (min_df=%d)\n", stats.After, p.Config().MinDocumentFrequency)
		if show, _ := cmd.Flags().GetBool("tokens"); show {
			fmt.Fprintln(out, strings.Join(stats.Tokens, " "))
		}
		return nil
	},
}

func init() {
	addDataFlags(vocabCmd)
	addPipelineFlags(vocabCmd)
	vocabCmd.Flags().Bool("tokens", false, "print the trimmed vocabulary")

	rootCmd.AddCommand(vocabCmd)
}
