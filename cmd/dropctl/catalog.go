package main

import (
	"fmt"
	"sort"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [file]",
	Short: "Validate a card catalog file and summarize it by group",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := dropbot.LoadConfig(configPath)
			if err != nil {
				return err
			}
			path = cfg.Catalog.Path
		}

		c, err := catalog.Load(cmd.Context(), catalog.FileSource{Path: path}, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d cards\n", c.Len())
		for _, line := range groupSummary(c.Cards()) {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func groupSummary(cards []catalog.Card) []string {
	counts := make(map[string]int)
	for _, c := range cards {
		group := c.Group
		if group == "" {
			group = "(no group)"
		}
		counts[group]++
	}

	groups := make([]string, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("  %s: %d", g, counts[g]))
	}
	return lines
}
