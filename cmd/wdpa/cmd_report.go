package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
	"github.com/protectedareas/wdpa-server/internal/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [country...]",
		Short: "Print breakdown tables",
		Long: `Print breakdown tables as Markdown or HTML.

With no countries, prints every dimension's full table across the dataset.
With countries, prints each country's rows for every dimension in the given order.`,
		Example: `  wdpa report --dimension iucn_category
  wdpa report Kenya PER --format html > compare.html`,
		RunE: runReport,
	}
	cmd.Flags().StringP("format", "f", "markdown", "Output format (markdown, html)")
	cmd.Flags().String("dimension", "", "Limit the full-table report to one dimension")
	return cmd
}

type tableWriter func(io.Writer, domain.Breakdown, report.Namer) error

type countriesWriter func(io.Writer, []domain.CountryBreakdown, report.Namer) error

func reportWriters(format string) (tableWriter, countriesWriter, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return report.WriteTableMarkdown, report.WriteCountriesMarkdown, nil
	case "html":
		return report.WriteTableHTML, report.WriteCountriesHTML, nil
	default:
		return nil, nil, errors.Validationf("unknown format %q (want markdown or html)", format)
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	dimension, _ := cmd.Flags().GetString("dimension")

	writeTable, writeCountries, err := reportWriters(format)
	if err != nil {
		return err
	}

	dims := domain.AllDimensions()
	if dimension != "" {
		dim, ok := domain.ParseDimension(dimension)
		if !ok {
			return errors.NotFoundf("unknown dimension %q", dimension)
		}
		dims = []domain.Dimension{dim}
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		all, err := a.breakdown.Compute(ctx)
		if err != nil {
			return err
		}
		for _, dim := range dims {
			if err := writeTable(out, all.Table(dim), a.countries); err != nil {
				return err
			}
		}
		return nil
	}

	selected, err := a.breakdown.Select(ctx, args)
	if err != nil {
		return err
	}
	return writeCountries(out, selected, a.countries)
}
