package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every file fzgrep would search",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	if notice := slowRootNotice(engine); notice != "" {
		cmd.PrintErrln("warning:", notice)
	}
	files, err := engine.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, f := range files {
		fmt.Fprintln(out, f)
	}
	return nil
}
