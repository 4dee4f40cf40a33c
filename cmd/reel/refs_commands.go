package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"reel/internal/refset"
	"reel/internal/state"
)

func newRefsCommand(ctx *commandContext) *cobra.Command {
	refsCmd := &cobra.Command{
		Use:   "refs",
		Short: "Manage a profile's reference images",
	}

	refsCmd.AddCommand(newRefsShowCommand(ctx))
	refsCmd.AddCommand(newRefsAddCommand(ctx))
	refsCmd.AddCommand(newRefsRemoveCommand(ctx))
	refsCmd.AddCommand(newRefsMoveCommand(ctx))
	refsCmd.AddCommand(newRefsSetCommand(ctx))
	refsCmd.AddCommand(newRefsInboxCommand(ctx))

	return refsCmd
}

func newRefsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <profile-id>",
		Short: "Show the ordered reference list",
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
			if len(profile.References) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No references")
				return nil
			}
			table := renderTable(
				[]column{{title: "#", right: true}, {title: "Name"}},
				buildReferenceRows(profile.References),
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

// editReferences fetches the current list, applies edit, and pushes the
// result back as a wholesale replace.
func editReferences(ctx *commandContext, cmd *cobra.Command, profileID string, edit func(*refset.Set) error) error {
	client, err := ctx.client()
	if err != nil {
		return err
	}
	profile, err := client.GetProfile(cmd.Context(), profileID)
	if err != nil {
		return err
	}

	set := refset.New(profile.References...)
	if err := edit(set); err != nil {
		return err
	}

	updated, err := client.AttachReferences(cmd.Context(), profileID, set.Names())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile %s now has %d reference(s)\n", updated.ID, len(updated.References))
	return nil
}

func newRefsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <profile-id> <name>...",
		Short: "Append reference images",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editReferences(ctx, cmd, args[0], func(set *refset.Set) error {
				for _, name := range args[1:] {
					set.Add(name)
				}
				return nil
			})
		},
	}
}

func newRefsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <profile-id> <name>...",
		Short: "Remove reference images",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editReferences(ctx, cmd, args[0], func(set *refset.Set) error {
				for _, name := range args[1:] {
					if !set.Remove(name) {
						return fmt.Errorf("reference %q not found", refset.Sanitize(name))
					}
				}
				return nil
			})
		},
	}
}

func newRefsMoveCommand(ctx *commandContext) *cobra.Command {
	var up, down bool

	cmd := &cobra.Command{
		Use:   "move <profile-id> <position>",
		Short: "Move a reference up or down (positions are 1-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if up == down {
				return fmt.Errorf("pass exactly one of --up or --down")
			}
			position, err := strconv.Atoi(args[1])
			if err != nil || position < 1 {
				return fmt.Errorf("position must be a positive integer, got %q", args[1])
			}
			return editReferences(ctx, cmd, args[0], func(set *refset.Set) error {
				index := position - 1
				if index >= set.Len() {
					return fmt.Errorf("position %d out of range (%d references)", position, set.Len())
				}
				if up {
					set.MoveUp(index)
				} else {
					set.MoveDown(index)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&up, "up", false, "Move the reference one position earlier")
	cmd.Flags().BoolVar(&down, "down", false, "Move the reference one position later")
	return cmd
}

func newRefsSetCommand(ctx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "set <profile-id> [text]",
		Short: "Replace the reference list from free-form text",
		Long: "Replaces the whole reference list. Text is split on newlines and commas,\n" +
			"path prefixes are stripped, and duplicates keep their first position.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case fromFile != "":
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read reference file: %w", err)
				}
				text = string(data)
			case len(args) == 2:
				text = args[1]
			default:
				return fmt.Errorf("pass the reference text as an argument or use --file")
			}
			return editReferences(ctx, cmd, args[0], func(set *refset.Set) error {
				set.ReplaceFromText(text)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read reference text from a file")
	return cmd
}

func newRefsInboxCommand(ctx *commandContext) *cobra.Command {
	inboxCmd := &cobra.Command{
		Use:   "inbox",
		Short: "Queue references locally and merge them later",
	}

	inboxCmd.AddCommand(&cobra.Command{
		Use:   "add <profile-id> <name>...",
		Short: "Queue reference names for a profile",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *state.Store) error {
				queued, err := store.EnqueueReferences(cmd.Context(), args[0], args[1:])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %d reference(s)\n", queued)
				return nil
			})
		},
	})

	inboxCmd.AddCommand(&cobra.Command{
		Use:   "list <profile-id>",
		Short: "List queued references without consuming them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *state.Store) error {
				entries, err := store.PendingReferences(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Inbox is empty")
					return nil
				}
				names := make([]string, len(entries))
				for i, entry := range entries {
					names[i] = entry.Name
				}
				table := renderTable(
					[]column{{title: "#", right: true}, {title: "Name"}},
					buildReferenceRows(names),
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	})

	inboxCmd.AddCommand(&cobra.Command{
		Use:     "merge <profile-id>",
		Aliases: []string{"sync"},
		Short:   "Merge queued references into the profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *state.Store) error {
				entries, err := store.PendingReferences(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Inbox is empty")
					return nil
				}
				names := make([]string, len(entries))
				for i, entry := range entries {
					names[i] = entry.Name
				}
				err = editReferences(ctx, cmd, args[0], func(set *refset.Set) error {
					added := set.MergeInbox(names)
					fmt.Fprintf(cmd.OutOrStdout(), "Merged %d of %d queued reference(s)\n", added, len(names))
					return nil
				})
				if err != nil {
					return err
				}
				// Drain only after the replace succeeded so a failed push
				// keeps the inbox intact. Merging is idempotent, so a crash
				// between push and drain is safe.
				_, err = store.DrainReferences(cmd.Context(), args[0])
				return err
			})
		},
	})

	return inboxCmd
}
