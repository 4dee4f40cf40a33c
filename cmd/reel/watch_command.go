package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reel/internal/orchestrator"
	"reel/internal/state"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var profileID string
	var jobInterval time.Duration
	var assetInterval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow jobs and assets for a profile",
		Long: "Polls job state and asset availability on independent cadences and keeps\n" +
			"the selected asset reconciled: a finishing job's output is adopted once,\n" +
			"explicit selections stick otherwise. Ctrl-C stops the watch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			target, err := ctx.resolveProfileID(cmd.Context(), profileID)
			if err != nil {
				return err
			}

			if jobInterval <= 0 {
				jobInterval = cfg.JobPollInterval()
			}
			if assetInterval <= 0 {
				assetInterval = cfg.AssetPollInterval()
			}

			return ctx.withStore(func(store *state.Store) error {
				seed, err := store.Selection(cmd.Context(), target)
				if err != nil {
					return err
				}
				var reconcilerSeed *orchestrator.Selection
				if seed != nil {
					reconcilerSeed = &orchestrator.Selection{
						AssetID:   seed.AssetID,
						Explicit:  seed.Explicit,
						LastJobID: seed.LastJobID,
					}
				}

				out := cmd.OutOrStdout()
				watcher := orchestrator.NewWatcher(client, store, orchestrator.NewReconciler(reconcilerSeed), logger, orchestrator.WatcherOptions{
					ProfileID:     target,
					JobInterval:   jobInterval,
					AssetInterval: assetInterval,
					LockPath:      filepath.Join(cfg.Paths.StateDir, "watch.lock"),
					OnUpdate: func(snap orchestrator.Snapshot) {
						if !snap.Changed {
							return
						}
						if snap.Selection.AssetID == "" {
							fmt.Fprintln(out, "selected asset: none")
							return
						}
						fmt.Fprintf(out, "selected asset: %s (%s)\n",
							snap.Selection.AssetID, client.AssetFileURL(snap.Selection.AssetID))
					},
				})

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return watcher.Run(runCtx)
			})
		},
	}

	cmd.Flags().StringVarP(&profileID, "profile", "p", "", "Profile to watch (default: selected profile)")
	cmd.Flags().DurationVar(&jobInterval, "job-interval", 0, "Job poll interval (default from config)")
	cmd.Flags().DurationVar(&assetInterval, "asset-interval", 0, "Asset poll interval (default from config)")

	return cmd
}
