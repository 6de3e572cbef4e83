package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/logging"
	"github.com/JonMunkholm/refdata/internal/matrix"
	"github.com/JonMunkholm/refdata/internal/model"
	"github.com/JonMunkholm/refdata/internal/store"
)

func (a *app) exportDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-db",
		Short: "Write the matrix and its index tables to PostgreSQL",
		Long: `Assembles the characterization matrix and stores it as one run in
the refdata_* tables of DATABASE_URL. The tables are created if missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Database.URL == "" {
				return errors.New("export-db: DATABASE_URL is not set")
			}
			start := time.Now()
			runID := logging.NewRunID()
			ctx := logging.WithRun(cmd.Context(), runID)
			report := core.NewReport(logging.FromContext(ctx))

			data, err := a.read(report, model.SubsetAll)
			if err != nil {
				return err
			}
			order, err := matrix.ParseIndexOrder(a.cfg.Build.MatrixIndexOrder)
			if err != nil {
				return err
			}
			export, err := matrix.Assemble(data, matrix.Options{Order: order, Report: report})
			if err != nil {
				return err
			}
			if export == nil {
				return fmt.Errorf("export-db: %w: no characterization matrix", core.ErrConfiguration)
			}

			db, err := store.Open(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := db.SaveExport(ctx, store.Run{ID: runID, Version: a.cfg.Build.Version}, export); err != nil {
				return err
			}
			if err := a.writeMetrics(start, report, data, export); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), runID.String())
			return nil
		},
	}
}
