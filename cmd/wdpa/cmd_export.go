package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/report"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export country...",
		Short: "Write an XLSX workbook for selected countries",
		Long: `Write an XLSX workbook with a summary sheet and one sheet per dimension.

The default file name is wdpa-<codes>.xlsx in the current directory.
Use --output - to write the workbook to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExport,
	}
	cmd.Flags().StringP("output", "o", "", "Output file")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	selected, err := a.breakdown.Select(cmd.Context(), args)
	if err != nil {
		return err
	}

	if output == "-" {
		return report.WriteWorkbook(cmd.OutOrStdout(), selected, a.countries)
	}
	if output == "" {
		codes := lo.Map(selected, func(cb domain.CountryBreakdown, _ int) string { return cb.CountryCode })
		output = fmt.Sprintf("wdpa-%s.xlsx", strings.ToLower(strings.Join(codes, "-")))
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := report.WriteWorkbook(f, selected, a.countries); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	a.log.Info("workbook written", "path", output, "countries", len(selected))
	return nil
}
