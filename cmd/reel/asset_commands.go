package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/state"
	"reel/internal/studio"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Browse and select generated video assets",
	}

	assetsCmd.AddCommand(newAssetsListCommand(ctx))
	assetsCmd.AddCommand(newAssetsSelectCommand(ctx))
	assetsCmd.AddCommand(newAssetsOpenURLCommand(ctx))

	return assetsCmd
}

func newAssetsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <profile-id>",
		Short: "List assets for a profile, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			assets, err := client.ListAssets(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(assets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No assets")
				return nil
			}

			var selectedID string
			err = ctx.withStore(func(store *state.Store) error {
				selection, err := store.Selection(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if selection != nil {
					selectedID = selection.AssetID
				}
				return nil
			})
			if err != nil {
				return err
			}

			table := renderTable(
				[]column{{title: ""}, {title: "ID"}, {title: "Filename"}, {title: "Size"}, {title: "Duration", right: true}, {title: "Created"}},
				buildAssetRows(assets, selectedID),
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newAssetsSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <profile-id> <asset-id>",
		Short: "Mark an asset as the profile's selected video",
		Long: "Records an explicit selection. It sticks until the next job completion\n" +
			"for the profile, whose output takes over once.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			assets, err := client.ListAssets(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var asset *studio.Asset
			for i := range assets {
				if assets[i].ID == args[1] {
					asset = &assets[i]
					break
				}
			}
			if asset == nil {
				return fmt.Errorf("asset %s not found for profile %s", args[1], args[0])
			}

			return ctx.withStore(func(store *state.Store) error {
				previous, err := store.Selection(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				selection := state.Selection{
					ProfileID: args[0],
					AssetID:   asset.ID,
					Explicit:  true,
				}
				if previous != nil {
					selection.LastJobID = previous.LastJobID
				}
				if err := store.SaveSelection(cmd.Context(), selection); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected asset %s for profile %s\n", asset.ID, args[0])
				return nil
			})
		},
	}
}

func newAssetsOpenURLCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "open-url <asset-id>",
		Aliases: []string{"url"},
		Short:   "Print the asset's video file URL",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.AssetFileURL(args[0]))
			return nil
		},
	}
}
