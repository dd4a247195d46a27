package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
	"github.com/protectedareas/wdpa-server/internal/report"
)

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart country dimension",
		Short: "Render a PNG bar chart of one country's percentages",
		Example: `  wdpa chart Kenya iucn_category -o kenya-iucn.png`,
		Args:    cobra.ExactArgs(2),
		RunE:    runChart,
	}
	cmd.Flags().StringP("output", "o", "", "Output file (default: <code>-<dimension>.png)")
	return cmd
}

func runChart(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	dim, ok := domain.ParseDimension(args[1])
	if !ok {
		return errors.NotFoundf("unknown dimension %q", args[1])
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	codes, err := a.breakdown.ResolveSelectors(args[:1])
	if err != nil {
		return err
	}
	cb, err := a.breakdown.ForCode(cmd.Context(), codes[0])
	if err != nil {
		return err
	}

	if output == "" {
		output = fmt.Sprintf("%s-%s.png", strings.ToLower(cb.CountryCode), dim)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := report.WriteBarChart(f, cb, dim); err != nil {
		_ = f.Close()
		_ = os.Remove(output)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	a.log.Info("chart written", "path", output, "country", cb.CountryCode, "dimension", dim)
	return nil
}
