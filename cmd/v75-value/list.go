package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List race, market and track files in the data directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := catalog()
		out := cmd.OutOrStdout()

		csvFiles, err := c.ListCSV()
		if err != nil {
			return err
		}
		markets, err := c.MarketFiles()
		if err != nil {
			return err
		}
		tracks, err := c.TrackFiles()
		if err != nil {
			return err
		}

		for _, section := range []struct {
			title string
			dir   string
			files []string
		}{
			{"Race files", c.CSVDir, csvFiles},
			{"Market files", c.JSONDir, markets},
			{"Track files", c.JSONDir, tracks},
		} {
			fmt.Fprintf(out, "%s (%s):\n", section.title, section.dir)
			if len(section.files) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, f := range section.files {
				fmt.Fprintf(out, "  %s\n", f)
			}
		}
		return nil
	},
}
