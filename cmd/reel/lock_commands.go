package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reel/internal/lockcfg"
)

func newLockCommand(ctx *commandContext) *cobra.Command {
	lockCmd := &cobra.Command{
		Use:   "lock",
		Short: "Manage a profile's generation lock",
	}

	lockCmd.AddCommand(newLockShowCommand(ctx))
	lockCmd.AddCommand(newLockSetCommand(ctx))
	lockCmd.AddCommand(newLockPresetCommand(ctx))
	lockCmd.AddCommand(newLockClearCommand(ctx))

	return lockCmd
}

func newLockShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <profile-id>",
		Short: "Print the lock as editable text",
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
			if profile.Lock == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No lock set")
				return nil
			}
			text, err := lockcfg.Encode(*profile.Lock)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newLockSetCommand(ctx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:     "set <profile-id>",
		Aliases: []string{"edit"},
		Short:   "Replace the lock from a text file",
		Long: "Reads lock text from --file, validates it, and replaces the profile's\n" +
			"lock. Invalid text leaves the existing lock untouched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFile == "" {
				return fmt.Errorf("pass the lock text with --file")
			}
			data, err := os.ReadFile(fromFile)
			if err != nil {
				return fmt.Errorf("read lock file: %w", err)
			}

			cfg, err := lockcfg.Decode(string(data))
			if err != nil {
				return err
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			profile, err := client.UpdateLock(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated lock for profile %s\n", profile.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "File containing the lock text")
	return cmd
}

func newLockPresetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preset <profile-id> strict",
		Short: "Apply a built-in lock preset",
		Long: "Applies a named preset. \"strict\" pins the seed, disables jitter, and\n" +
			"sets full reference weight for maximum character consistency.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var preset lockcfg.LockConfig
			switch args[1] {
			case "strict":
				preset = lockcfg.StrictCharacterPreset()
			default:
				return fmt.Errorf("unknown preset %q (available: strict)", args[1])
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			profile, err := client.UpdateLock(cmd.Context(), args[0], preset)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s preset to profile %s\n", args[1], profile.ID)
			return nil
		},
	}
}

func newLockClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <profile-id>",
		Short: "Reset the profile's lock to its defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			profile, err := client.ResetLock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset lock for profile %s\n", profile.ID)
			return nil
		},
	}
}
