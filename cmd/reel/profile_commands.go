package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/state"
	"reel/internal/studio"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage character profiles",
	}

	profileCmd.AddCommand(newProfileListCommand(ctx))
	profileCmd.AddCommand(newProfileShowCommand(ctx))
	profileCmd.AddCommand(newProfileCreateCommand(ctx))
	profileCmd.AddCommand(newProfileUpdateCommand(ctx))
	profileCmd.AddCommand(newProfileSelectCommand(ctx))
	profileCmd.AddCommand(newProfileDeleteCommand(ctx))

	return profileCmd
}

func newProfileListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			profiles, err := client.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profiles")
				return nil
			}
			table := renderTable(
				[]column{{title: "ID"}, {title: "Name"}, {title: "Mode"}, {title: "Consent"}, {title: "Refs", right: true}, {title: "Lock"}},
				buildProfileRows(profiles),
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newProfileShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <profile-id>",
		Short: "Show profile details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			profile, err := client.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", profile.ID)
			fmt.Fprintf(out, "Name:    %s\n", profile.Name)
			fmt.Fprintf(out, "Mode:    %s\n", modeLabel(profile.Mode))
			fmt.Fprintf(out, "Consent: %s\n", yesNo(profile.ConsentChecked))
			if profile.CreatedAt != "" {
				fmt.Fprintf(out, "Created: %s\n", profile.CreatedAt)
			}
			if len(profile.References) == 0 {
				fmt.Fprintln(out, "References: none")
			} else {
				fmt.Fprintln(out, "References:")
				for i, name := range profile.References {
					fmt.Fprintf(out, "  %d. %s\n", i+1, name)
				}
			}
			if profile.Lock != nil {
				fmt.Fprintf(out, "Lock: strict=%s seed_strategy=%s reference_weight=%.2f loras=%s\n",
					yesNo(profile.Lock.StrictLock),
					profile.Lock.SeedStrategy,
					profile.Lock.ReferenceWeight,
					formatLoras(profile.Lock.Loras),
				)
			} else {
				fmt.Fprintln(out, "Lock: none")
			}
			return nil
		},
	}
}

func newProfileCreateCommand(ctx *commandContext) *cobra.Command {
	var mode string
	var consent bool
	var references []string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			profile, err := client.CreateProfile(cmd.Context(), studio.ProfileCreate{
				Name:           args[0],
				Mode:           studio.ProfileMode(mode),
				ConsentChecked: consent,
			})
			if err != nil {
				return err
			}
			if len(references) > 0 {
				profile, err = client.AttachReferences(cmd.Context(), profile.ID, references)
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s)\n", profile.ID, profile.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(studio.ModeFictional), "Profile mode: fictional or real_identity")
	cmd.Flags().BoolVar(&consent, "consent", false, "Confirm consent for a real_identity profile")
	cmd.Flags().StringSliceVar(&references, "ref", nil, "Reference image name (repeatable)")
	return cmd
}

func newProfileUpdateCommand(ctx *commandContext) *cobra.Command {
	var name string
	var mode string
	var consent bool

	cmd := &cobra.Command{
		Use:     "update <profile-id>",
		Aliases: []string{"save"},
		Short:   "Update profile fields",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}

			var update studio.ProfileUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("mode") {
				profileMode := studio.ProfileMode(mode)
				update.Mode = &profileMode
			}
			if cmd.Flags().Changed("consent") {
				update.ConsentChecked = &consent
			}
			if update.Name == nil && update.Mode == nil && update.ConsentChecked == nil {
				return fmt.Errorf("nothing to update; pass --name, --mode, or --consent")
			}

			profile, err := client.UpdateProfile(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated profile %s\n", profile.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New profile name")
	cmd.Flags().StringVar(&mode, "mode", "", "New profile mode")
	cmd.Flags().BoolVar(&consent, "consent", false, "Consent confirmation")
	return cmd
}

func newProfileSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <profile-id>",
		Short: "Make a profile the default target for generate and watch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			profile, err := client.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *state.Store) error {
				if err := store.SetActiveProfile(cmd.Context(), profile.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected profile %s (%s)\n", profile.ID, profile.Name)
				return nil
			})
		},
	}
}

func newProfileDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <profile-id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if err := client.DeleteProfile(cmd.Context(), args[0]); err != nil {
				return err
			}
			// Local state for the profile is now meaningless.
			if err := ctx.withStore(func(store *state.Store) error {
				if err := store.ClearSelection(cmd.Context(), args[0]); err != nil {
					return err
				}
				active, err := store.ActiveProfile(cmd.Context())
				if err != nil {
					return err
				}
				if active == args[0] {
					return store.SetActiveProfile(cmd.Context(), "")
				}
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
			return nil
		},
	}
}
