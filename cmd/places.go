package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/solarmap/solarmap/internal/places"
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Browse the place gazetteer",
}

var placesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known places",
	RunE: func(cmd *cobra.Command, _ []string) error {
		g, err := initGazetteer()
		if err != nil {
			return err
		}
		formatPlaces(os.Stdout, g.All())
		return nil
	},
}

var placesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search places by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := initGazetteer()
		if err != nil {
			return err
		}
		matches := g.Search(args[0])
		if len(matches) == 0 {
			fmt.Fprintln(os.Stderr, "No matching places.")
			return nil
		}
		formatPlaces(os.Stdout, matches)
		return nil
	},
}

func init() {
	placesCmd.AddCommand(placesListCmd)
	placesCmd.AddCommand(placesSearchCmd)
	rootCmd.AddCommand(placesCmd)
}

func formatPlaces(out io.Writer, list []places.Place) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCATEGORY\tLAT\tLON")
	for _, p := range list {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\n", p.Name, p.Category, p.Lat, p.Lon)
	}
	_ = w.Flush()
}
