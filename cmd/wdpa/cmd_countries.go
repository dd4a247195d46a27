package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protectedareas/wdpa-server/internal/report"
	"github.com/protectedareas/wdpa-server/internal/search"
)

func newCountriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries [query]",
		Short: "List or search reference countries",
		Long: `List reference countries alphabetically, or search them by name fragment or code.

Each line shows the ISO3 code, the display name and the country's total protected area.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCountries,
	}
	cmd.Flags().Bool("with-data", false, "Only countries with records in the dataset")
	cmd.Flags().Int("limit", 20, "Maximum countries to print")
	return cmd
}

func runCountries(cmd *cobra.Command, args []string) error {
	withData, _ := cmd.Flags().GetBool("with-data")
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.countries.Search(cmd.Context(), search.SearchParams{
		Query:        strings.Join(args, " "),
		WithDataOnly: withData,
		Limit:        limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, hit := range res.Hits {
		area := "-"
		if hit.HasData {
			area = report.FormatArea(hit.TotalSqKm) + " sq km"
		}
		fmt.Fprintf(out, "%-4s %-44s %s\n", hit.ISO3, hit.Name, area)
	}
	if uint64(len(res.Hits)) < res.Total {
		fmt.Fprintf(out, "(%d of %d shown)\n", len(res.Hits), res.Total)
	}
	return nil
}
