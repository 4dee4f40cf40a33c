package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/orchestrator"
	"reel/internal/studio"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var profileID string
	var prompt string
	var negative string
	var duration int
	var fps int
	var width int
	var height int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit a generation job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			target, err := ctx.resolveProfileID(cmd.Context(), profileID)
			if err != nil {
				return err
			}

			req := studio.GenerateRequest{
				ProfileID:      target,
				Prompt:         prompt,
				NegativePrompt: negative,
				DurationSec:    duration,
				FPS:            fps,
				Width:          width,
				Height:         height,
			}
			if req.Prompt == "" {
				req.Prompt = cfg.Generation.Prompt
			}
			if req.NegativePrompt == "" {
				req.NegativePrompt = cfg.Generation.NegativePrompt
			}
			if !cmd.Flags().Changed("duration") {
				req.DurationSec = cfg.Generation.DurationSec
			}
			if !cmd.Flags().Changed("fps") {
				req.FPS = cfg.Generation.FPS
			}
			if !cmd.Flags().Changed("width") {
				req.Width = cfg.Generation.Width
			}
			if !cmd.Flags().Changed("height") {
				req.Height = cfg.Generation.Height
			}

			submitter := orchestrator.NewSubmitter(client)
			job, err := submitter.Submit(cmd.Context(), target, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Submitted job %s (%s)\n", job.ID, job.Status.Display())
			fmt.Fprintf(out, "Follow it with: reel watch --profile %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileID, "profile", "p", "", "Profile to generate for (default: selected profile)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt text")
	cmd.Flags().StringVar(&negative, "negative", "", "Negative prompt text")
	cmd.Flags().IntVar(&duration, "duration", 0, "Clip duration in seconds (1-30)")
	cmd.Flags().IntVar(&fps, "fps", 0, "Frames per second (4-60)")
	cmd.Flags().IntVar(&width, "width", 0, "Video width (256-1920)")
	cmd.Flags().IntVar(&height, "height", 0, "Video height (256-1920)")

	return cmd
}
