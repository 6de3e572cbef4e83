package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/logging"
	"github.com/JonMunkholm/refdata/internal/model"
	"github.com/JonMunkholm/refdata/internal/report"
)

func (a *app) orderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Sort every table in place by its key columns",
		Long: `Sorts the data rows of every table, and of every factor partition,
by the table's sort columns. The header row stays first. Files are
rewritten with LF line endings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := a.source(core.NewReport(logging.FromContext(cmd.Context())))
			files, err := src.SortTables()
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func (a *app) reportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write an HTML listing of the reference flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.read(core.NewReport(logging.FromContext(cmd.Context())), model.SubsetFlows)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.WriteFlows(cmd.Context(), f, data); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "flows.html", "Output file")
	return cmd
}

func (a *app) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Print the distinct flow categories, sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.read(core.NewReport(logging.FromContext(cmd.Context())), model.SubsetFlows)
			if err != nil {
				return err
			}
			for _, c := range data.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
