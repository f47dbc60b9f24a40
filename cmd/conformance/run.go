/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/asyncquery"
	"github.com/suparena/asyncquery/config"
	"github.com/suparena/asyncquery/conformance"
)

var runFlags struct {
	provider    string
	operators   []string
	kinds       []string
	policies    []string
	parallelism int
	seed        uint64
	size        int
	format      string
	output      string
	metricsFile string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the conformance matrix against a provider",
	Long: `Seeds reference sequences into the configured provider, runs every
selected case and writes a report. Exits non-zero when any case fails.`,
	Args: cobra.NoArgs,
	RunE: runConformance,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.provider, "provider", "p", "", "Provider name (memory, sqlite, dynamodb, redis)")
	f.StringSliceVar(&runFlags.operators, "operator", nil, "Only run these operators")
	f.StringSliceVar(&runFlags.kinds, "kind", nil, "Only run these element kinds")
	f.StringSliceVar(&runFlags.policies, "policy", nil, "Only run cases under these policies")
	f.IntVar(&runFlags.parallelism, "parallelism", 0, "Concurrent cases")
	f.Uint64Var(&runFlags.seed, "seed", 0, "Reference data seed")
	f.IntVar(&runFlags.size, "size", 0, "Length of the first input sequence")
	f.StringVarP(&runFlags.format, "format", "f", "", "Report format (json, yaml)")
	f.StringVarP(&runFlags.output, "output", "o", "", "Report file (default: stdout)")
	f.StringVar(&runFlags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
}

// loadConfig reads the env files and configuration, then applies flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnv(envFiles...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = runFlags.provider
	}
	if flags.Changed("operator") {
		cfg.Operators = runFlags.operators
	}
	if flags.Changed("kind") {
		cfg.Kinds = runFlags.kinds
	}
	if flags.Changed("policy") {
		cfg.Policies = runFlags.policies
	}
	if flags.Changed("parallelism") {
		cfg.Parallelism = runFlags.parallelism
	}
	if flags.Changed("seed") {
		cfg.Seed = runFlags.seed
	}
	if flags.Changed("size") {
		cfg.Size = runFlags.size
	}
	if flags.Changed("format") {
		cfg.Report.Format = runFlags.format
	}
	if flags.Changed("output") {
		cfg.Report.Path = runFlags.output
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.File = runFlags.metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConformance(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, closeStore, err := asyncquery.DefaultProviders().Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close provider", zap.Error(err))
		}
	}()

	opts, err := cfg.RunOptions()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	opts.Metrics = conformance.NewMetrics(reg)
	opts.Logger = logger

	report, err := conformance.Run(ctx, conformance.StoreFixture(store), opts)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), cfg.Report, report); err != nil {
		return err
	}
	if cfg.Metrics.File != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.File, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	fmt.Fprintln(cmd.ErrOrStderr(), report.Summary())
	if !report.OK() {
		return fmt.Errorf("%d of %d cases did not pass", report.Failed+report.Errored, report.Total)
	}
	return nil
}

func writeReport(stdout io.Writer, rc config.ReportConfig, report *conformance.Report) error {
	if rc.Path == "" {
		return report.Write(stdout, rc.Format)
	}

	f, err := os.Create(rc.Path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := report.Write(f, rc.Format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
