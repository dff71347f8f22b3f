package main

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/attrition/internal/datagen"
	"github.com/okian/attrition/pkg/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "attrition-gen",
		Short:        "Generate synthetic employee datasets for the attrition service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				return logger.SetLevelString("debug")
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newGenerateCmd(), newSmokeCmd())
	return root
}

func addDatasetFlags(cmd *cobra.Command, cfg *datagen.Config) {
	cmd.Flags().IntVarP(&cfg.Rows, "rows", "n", datagen.DefaultRows, "number of employees")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", datagen.DefaultSeed, "random seed")
}

func newGenerateCmd() *cobra.Command {
	var (
		cfg    datagen.Config
		output string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic employee CSV to a file or stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			if err := datagen.Write(w, cfg); err != nil {
				return err
			}
			if output != "" && output != "-" {
				logger.Get().Info(cmd.Context(), "dataset written",
					logger.String("path", output),
					logger.Int("rows", cfg.Rows),
				)
			}
			return nil
		},
	}
	addDatasetFlags(cmd, &cfg)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newSmokeCmd() *cobra.Command {
	var cfg datagen.Config
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Upload a generated dataset to a running service and exercise every endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := datagen.NewClient(cfg.BaseURL, cfg.Timeout).Smoke(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"session %s: %d rows, attrition %.1f%%, top role %s, accuracy %.3f, p=%.3f (%s)\n",
				res.SessionID, res.Rows, res.AttritionRate, res.TopJobRole, res.Accuracy, res.Probability, res.Duration)
			return nil
		},
	}
	addDatasetFlags(cmd, &cfg)
	cmd.Flags().StringVar(&cfg.BaseURL, "url", datagen.DefaultBaseURL, "base URL of the service")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", datagen.DefaultTimeout, "HTTP request timeout")
	return cmd
}
