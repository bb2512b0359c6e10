package main

import (
	"context"
	"fmt"
	"strconv"

	"hierarchicalmenu/profilefield/internal/container"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <fieldID> <url>",
	Short: "Replace the category tree of a field with one fetched from a URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fieldID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid field id %q: %w", args[0], err)
		}

		return runContainer(func(ctx context.Context, app *container.Container) error {
			def, err := app.Service.ImportTree(ctx, fieldID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "field %d: imported tree with %d levels\n", def.ID, def.MaxLevels)
			return nil
		})
	},
}
