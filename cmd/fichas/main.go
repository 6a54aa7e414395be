// Package main provides the CLI entry point for fichas.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fichas-go/internal/config"
	"github.com/ukaji3/fichas-go/internal/logging"
	"go.uber.org/zap"
)

// app holds state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	cfgPath string
	verbose bool
	backend string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "fichas",
		Short: "Daily health-inspection fichas dashboard",
		Long: `fichas lists the day's health-inspection records from the backing
spreadsheet, lets an operator pick rows, and sends them for printing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "fichas.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.backend, "backend", "", "Backend: remote, workbook, fixture, disconnected (overrides config)")

	rootCmd.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newGenerateCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend.Mode = a.backend
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}
