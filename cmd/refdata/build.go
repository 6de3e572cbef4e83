package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/refdata/internal/blob"
	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/logging"
	"github.com/JonMunkholm/refdata/internal/matrix"
	"github.com/JonMunkholm/refdata/internal/metrics"
	"github.com/JonMunkholm/refdata/internal/model"
	"github.com/JonMunkholm/refdata/internal/packaging"
)

// LibrariesDir is the directory below BUILD_DIR that holds the libraries.
const LibrariesDir = "libraries"

func (a *app) buildCmd() *cobra.Command {
	var noPublish bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the reference data libraries",
		Long: `Reads all tables and writes the libraries of the build plan to
<build>/libraries: one directory and one <name>_lib.zip per library. The
library carrying the matrix gets C.npz, index_C.csv and index_B.csv.
Archives are published to the blob store when BLOB_DRIVER is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithRun(cmd.Context(), logging.NewRunID())
			result, err := a.build(ctx)
			if err != nil {
				return err
			}
			for _, zip := range result.Zips() {
				fmt.Fprintln(cmd.OutOrStdout(), zip)
			}
			if noPublish {
				return nil
			}
			return a.publish(ctx, result.Zips())
		},
	}
	cmd.Flags().BoolVar(&noPublish, "no-publish", false, "Skip publishing even if a blob driver is configured")
	return cmd
}

// build reads the graph and runs the library builder.
func (a *app) build(ctx context.Context) (*packaging.Result, error) {
	start := time.Now()
	report := core.NewReport(logging.FromContext(ctx))

	data, err := a.read(report, model.SubsetAll)
	if err != nil {
		return nil, err
	}
	for _, issue := range model.Lint(data) {
		report.Logger().Warn("lint", "issue", issue.String())
	}

	plan, err := a.plan()
	if err != nil {
		return nil, err
	}
	order, err := matrix.ParseIndexOrder(a.cfg.Build.MatrixIndexOrder)
	if err != nil {
		return nil, err
	}

	b := &packaging.Builder{
		Root:   filepath.Join(a.cfg.Build.Dir, LibrariesDir),
		Plan:   plan,
		Order:  order,
		Report: report,
	}
	result, err := b.Build(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := a.writeMetrics(start, report, data, result.Export); err != nil {
		return nil, err
	}

	report.Logger().Info("build finished",
		"libraries", len(result.Libraries),
		"skipped", report.SkippedTotal(),
		"warnings", len(report.Warnings()),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// writeMetrics records a finished run in the metrics file, if one is
// configured.
func (a *app) writeMetrics(start time.Time, report *core.Report, data *model.RefData, export *matrix.Export) error {
	path := a.cfg.Build.MetricsFile
	if path == "" {
		return nil
	}
	c := metrics.New()
	c.ObserveRun(start, report, data, export)
	if err := c.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

func (a *app) plan() (*packaging.Plan, error) {
	if a.cfg.Build.PlanFile == "" {
		return packaging.DefaultPlan(a.cfg.Build.Version), nil
	}
	return packaging.LoadPlan(a.cfg.Build.PlanFile, a.cfg.Build.Version)
}

// publish uploads files to the configured blob store, if any.
func (a *app) publish(ctx context.Context, files []string) error {
	store, err := blob.Open(ctx, a.blobConfig())
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}

	p := &packaging.Publisher{
		Store:     store,
		Prefix:    a.cfg.Blob.Prefix,
		Overwrite: a.cfg.Blob.Overwrite,
		Metadata: map[string]string{
			"version": a.cfg.Build.Version,
			"run-id":  logging.RunID(ctx).String(),
		},
		Report: core.NewReport(logging.FromContext(ctx)),
	}
	_, err = p.Publish(ctx, files)
	return err
}

func (a *app) packsCmd() *cobra.Command {
	var noPublish bool

	cmd := &cobra.Command{
		Use:   "packs",
		Short: "Build the cumulative single-file reference data packs",
		Long: `Writes three self-contained packs to the build directory: units,
units and flows, and everything including the LCIA methods. Impact
categories keep their factors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			ctx := logging.WithRun(cmd.Context(), logging.NewRunID())
			report := core.NewReport(logging.FromContext(ctx))

			data, err := a.read(report, model.SubsetAll)
			if err != nil {
				return err
			}
			files, err := packaging.BuildPacks(ctx, a.cfg.Build.Dir, a.cfg.Build.Version, data, report)
			if err != nil {
				return err
			}
			if err := a.writeMetrics(start, report, data, nil); err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			if noPublish {
				return nil
			}
			return a.publish(ctx, files)
		},
	}
	cmd.Flags().BoolVar(&noPublish, "no-publish", false, "Skip publishing even if a blob driver is configured")
	return cmd
}
