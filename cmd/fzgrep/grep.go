package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fzgrep/fzgrep/internal/search"
)

var grepJSON bool

var grepCmd = &cobra.Command{
	Use:   "grep [query]",
	Short: "Search file contents case-insensitively",
	Long: `Prints every line containing the query as path:line:content.
Binary, media and archive files, files over 10 MB and lines over 1000 bytes
are skipped. At most 100 matching lines are reported per file.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrep,
}

func init() {
	grepCmd.Flags().BoolVar(&grepJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(grepCmd)
}

func runGrep(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	if notice := slowRootNotice(engine); notice != "" {
		cmd.PrintErrln("warning:", notice)
	}
	results, err := engine.SearchContent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("grep failed: %w", err)
	}

	if grepJSON {
		return outputGrepJSON(cmd, results)
	}
	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "%s:%d:%s\n", r.FilePath, r.LineNumber, r.LineContent)
	}
	return nil
}

func outputGrepJSON(cmd *cobra.Command, results []search.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
