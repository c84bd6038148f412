package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dropwalk/internal/compare"
	"dropwalk/internal/manifest"
)

// errChanges exits with status 1 without printing an error.
var errChanges = errors.New("changes detected")

func newCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <old.json> <new.json>",
		Short: "Compare two saved drop manifests",
		Long: `Compare two manifests saved with --output and report added, removed and
modified files, and whether the same files resolved in a different order.

Exits with status 1 when the drops differ.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			oldDrop, err := manifest.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}
			newDrop, err := manifest.Load(args[1])
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}

			result := compare.Compare(oldDrop, newDrop)
			fmt.Fprintln(cmd.OutOrStdout(), compare.FormatReport(result))

			if result.HasChanges() {
				return errChanges
			}
			return nil
		},
	}
}
