package main

import (
	"fmt"
	"os"

	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/tree"

	"github.com/spf13/cobra"
)

var validateLevels int

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a category tree JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		levels := domain.ResolveMaxLevels(validateLevels)
		parsed, err := domain.ParseTree(string(raw))
		if err == nil {
			err = tree.ValidateHierarchy(parsed, levels)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		catalog := tree.FlattenLeaves(parsed, domain.BuildLevelKeys(levels), tree.DefaultLabelBudget)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d levels, %d roots, %d selectable leaves\n",
			args[0], parsed.Depth(), len(parsed.Items), len(catalog.Options))
		return nil
	},
}

func init() {
	validateCmd.Flags().IntVar(&validateLevels, "levels", domain.DefaultMaxLevels, "maximum nesting level")
}
