package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var findLimit int

var findCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Print files matching a fuzzy query, best first",
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

func init() {
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 0, "maximum number of results (0 = all)")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	if notice := slowRootNotice(engine); notice != "" {
		cmd.PrintErrln("warning:", notice)
	}
	ranked, err := engine.FuzzySearch(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("find failed: %w", err)
	}
	if findLimit > 0 && len(ranked) > findLimit {
		ranked = ranked[:findLimit]
	}
	out := cmd.OutOrStdout()
	for _, f := range ranked {
		fmt.Fprintln(out, f)
	}
	return nil
}
