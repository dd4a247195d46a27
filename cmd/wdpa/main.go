// Package main provides the wdpa command-line tool. It runs the same breakdown
// queries as the server against a dataset and writes reports, workbooks and charts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/protectedareas/wdpa-server/internal/config"
	"github.com/protectedareas/wdpa-server/internal/di"
	"github.com/protectedareas/wdpa-server/internal/logger"
	"github.com/protectedareas/wdpa-server/internal/service"
)

// configFlags are forwarded to the config parser when set, so the CLI shares the
// server's flag > env > .env > default precedence.
var configFlags = []string{
	"dataset",
	"dataset-format",
	"dataset-table",
	"dataset-sheet",
	"area-column",
	"country-codes",
	"max-countries",
	"log-level",
	"env-file",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wdpa",
		Short: "Protected-area breakdowns by country",
		Long: `Break down a WDPA protected-area dataset by country.

Every command loads the dataset once, aggregates area per country across six
dimensions (protection status, governance, ownership, IUCN category,
verification and parent country) and prints or writes the result.

Countries may be given as display names ("Kenya") or ISO3 codes ("KEN").`,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringP("dataset", "d", "", "Path to the WDPA dataset (or set DATASET_PATH)")
	pf.String("dataset-format", "", "Dataset format override (csv, sqlite, xlsx)")
	pf.String("dataset-table", "", "Table to read from a SQLite/GeoPackage dataset")
	pf.String("dataset-sheet", "", "Sheet to read from an XLSX dataset")
	pf.String("area-column", "", "Area column to aggregate (default: GIS_AREA)")
	pf.String("country-codes", "", "Path to a country code table (.csv or .html)")
	pf.String("max-countries", "", "Maximum countries per selection (default: 3)")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("env-file", ".env", "Path to .env file")
	pf.BoolP("quiet", "q", false, "Suppress log output")

	root.AddCommand(newReportCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newChartCmd())
	root.AddCommand(newCountriesCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app holds the services one command needs.
type app struct {
	log       *logger.Logger
	injector  *do.RootScope
	breakdown *service.BreakdownService
	countries *service.CountryService
}

func configArgs(cmd *cobra.Command) []string {
	var args []string
	for _, name := range configFlags {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			args = append(args, "-"+name, f.Value.String())
		}
	}
	return args
}

// setup loads config and the dataset. Logs go to stderr so stdout stays clean for reports.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configArgs(cmd))
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Writer:      cmd.ErrOrStderr(),
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		log = logger.Discard()
	}

	injector := di.NewQueryContainer(cfg, log)
	a := &app{log: log, injector: injector}

	if a.breakdown, err = do.Invoke[*service.BreakdownService](injector); err != nil {
		a.Close()
		return nil, err
	}
	if a.countries, err = do.Invoke[*service.CountryService](injector); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the dataset and the search index.
func (a *app) Close() {
	if err := a.injector.Shutdown(); err != nil {
		a.log.Warn("shutdown error", "error", err)
	}
}
