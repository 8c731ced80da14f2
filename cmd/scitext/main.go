// Package main is the entry point for the scitext CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/scitext/pkg/log"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "scitext",
	Short: "Evaluate character n-gram text classifiers",
	Long: `scitext extracts character n-gram counts from labelled texts, splits the
records into train and test partitions with a fixed seed, trains one or more
classifiers and reports the confusion matrix, precision, recall and accuracy
of each on the test partition.

Settings are read from flags, SCITEXT_* environment variables and an optional
scitext.yaml file, in that order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.SetupLogger(cmd.ErrOrStderr(), viper.GetString("log_level"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scitext.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scitext")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SCITEXT")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
