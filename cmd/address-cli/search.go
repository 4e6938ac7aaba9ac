package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"address-validator/internal/app"
	"address-validator/internal/models"
	searchlocations "address-validator/internal/resolvers/locality/search-locations"
)

func newSearchCmd() *cobra.Command {
	var categories []string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search localities by name or postcode",
		Long:  "Searches the upstream postcode API. Repeat --category to keep only matching categories.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], categories)
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "Keep only these categories (e.g. \"Delivery Area\")")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, categories []string) error {
	return withApp(func(a *app.App) error {
		out := a.Searcher.Execute(cmd.Context(), &searchlocations.Input{
			Query:      query,
			Categories: categories,
		})
		return writeLocations(cmd.OutOrStdout(), out.Locations, globalJSON)
	})
}

func writeLocations(w io.Writer, locations []models.Locality, asJSON bool) error {
	if asJSON {
		return printJSON(w, locations)
	}
	if len(locations) == 0 {
		_, err := fmt.Fprintln(w, "No localities found.")
		return err
	}

	fmt.Fprintf(w, "Found %d localities:\n\n", len(locations))
	for i, loc := range locations {
		fmt.Fprintf(w, "%d. %s %s %s", i+1, loc.Location, loc.State, loc.Postcode)
		if loc.Category != "" {
			fmt.Fprintf(w, " [%s]", loc.Category)
		}
		if loc.Latitude != nil && loc.Longitude != nil {
			fmt.Fprintf(w, " (%.4f, %.4f)", *loc.Latitude, *loc.Longitude)
		}
		fmt.Fprintln(w)
	}
	return nil
}
