package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "zetwerk",
	Short: "Chapter rebuild, polish and audit pipeline for layout snapshots",
	Long: `Zetwerk reworks chapters of educational textbooks held as layout
snapshots: it isolates a chapter into a baseline document, polishes the body
text with a fixed rule set, audits the result against the layout profile, and
exports figures and interchange packages.

The pipeline stages:
  - rebuild  isolate one chapter into a baseline snapshot
  - polish   apply the body-text rewrite rules
  - audit    validate the chapter and write a report
  - figures  extract figure/caption records
  - export   write an interchange package`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./zetwerk.yaml or ~/.zetwerk/config.yaml)",
	)
	rootCmd.PersistentFlags().IntP("chapter", "c", 1, "chapter number to operate on")
	rootCmd.PersistentFlags().String("profile", "", "layout profile JSON file")
	rootCmd.PersistentFlags().String("manifest", "", "book manifest resolving chapter snapshots")
	rootCmd.PersistentFlags().String("report-dir", "rapporten", "directory audit reports are written to")
	rootCmd.PersistentFlags().StringP("output", "o", "yaml", "summary format: yaml or json")

	for _, key := range []string{"chapter", "profile", "manifest", "report-dir", "output"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig()
	}

	rootCmd.AddCommand(rebuildCmd, polishCmd, auditCmd, figuresCmd, exportCmd, versionCmd)
}

// initConfig wires the config file and environment into viper. A missing
// config file is fine; a broken one is not.
func initConfig() error {
	viper.SetEnvPrefix("ZETWERK")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("zetwerk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.zetwerk")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}
