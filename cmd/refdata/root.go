package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/refdata/internal/blob"
	"github.com/JonMunkholm/refdata/internal/config"
	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/core/tables"
	"github.com/JonMunkholm/refdata/internal/logging"
	"github.com/JonMunkholm/refdata/internal/model"
)

// app carries the loaded configuration into the subcommands.
type app struct {
	cfg *config.Config

	envFile  string
	dataDir  string
	buildDir string
	version  string
	order    string
	metrics  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "refdata",
		Short: "Build openLCA reference data libraries",
		Long: `refdata reads the reference data tables (units, flow properties,
currencies, flows, locations, LCIA categories, factors and methods), resolves
them into one entity graph and packages it as versioned libraries. The LCIA
library carries the characterization matrix C.npz with its index tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "Environment file loaded before the configuration")
	flags.StringVarP(&a.dataDir, "data", "d", "", "Reference data directory (overrides REFDATA_DIR)")
	flags.StringVarP(&a.buildDir, "build", "b", "", "Build output directory (overrides BUILD_DIR)")
	flags.StringVar(&a.version, "lib-version", "", "Library version (overrides LIB_VERSION)")
	flags.StringVar(&a.order, "index-order", "", "Matrix index order: first-seen or sorted (overrides MATRIX_INDEX_ORDER)")
	flags.StringVar(&a.metrics, "metrics-file", "", "Write run metrics to this file (overrides BUILD_METRICS_FILE)")

	cmd.AddCommand(
		a.buildCmd(),
		a.packsCmd(),
		a.orderCmd(),
		a.serveCmd(),
		a.reportCmd(),
		a.categoriesCmd(),
		a.exportDBCmd(),
		versionCmd(),
	)
	return cmd
}

// load reads the env file, the configuration and the flag overrides and
// sets up logging.
func (a *app) load(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Overload(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Dir = a.dataDir
	}
	if flags.Changed("build") {
		cfg.Build.Dir = a.buildDir
	}
	if flags.Changed("lib-version") {
		cfg.Build.Version = a.version
	}
	if flags.Changed("index-order") {
		cfg.Build.MatrixIndexOrder = a.order
	}
	if flags.Changed("metrics-file") {
		cfg.Build.MetricsFile = a.metrics
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())
	a.cfg = cfg
	return nil
}

// source returns the table source for the configured data directory.
func (a *app) source(report *core.Report) *core.Source {
	src := core.NewSource(a.cfg.Data.Dir, report)
	if a.cfg.Data.FactorsDir != "" {
		src.Paths = map[string]string{tables.ImpactFactors: a.cfg.Data.FactorsDir}
	}
	return src
}

// read builds the entity graph for subset.
func (a *app) read(report *core.Report, subset model.Subset) (*model.RefData, error) {
	if _, err := os.Stat(a.cfg.Data.Dir); err != nil {
		return nil, err
	}
	return model.Read(a.source(report), subset)
}

func (a *app) blobConfig() blob.Config {
	b := a.cfg.Blob
	return blob.Config{
		Driver: blob.Driver(b.Driver),
		Prefix: b.Prefix,
		FSRoot: b.FSRoot,
		S3: blob.S3Config{
			Bucket:          b.S3Bucket,
			Region:          b.S3Region,
			Endpoint:        b.S3Endpoint,
			AccessKeyID:     b.S3AccessKeyID,
			SecretAccessKey: b.S3SecretAccessKey,
			SessionToken:    b.S3SessionToken,
			PathStyle:       b.S3PathStyle,
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// The version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "refdata version %s\n", Version)
		},
	}
}
