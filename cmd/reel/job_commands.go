package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/orchestrator"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and cancel generation jobs",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsCancelCommand(ctx))

	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			jobs, err := client.ListJobs(cmd.Context(), profileID)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs")
				return nil
			}
			table := renderTable(
				[]column{{title: "ID"}, {title: "Profile"}, {title: "Status"}, {title: "Progress", right: true}, {title: "Output / Error"}},
				buildJobRows(jobs, shouldColorize(cmd.OutOrStdout())),
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileID, "profile", "p", "", "Only jobs for this profile")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show job details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			job, err := client.GetJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", job.ID)
			fmt.Fprintf(out, "Profile:  %s\n", job.ProfileID)
			fmt.Fprintf(out, "Status:   %s\n", job.Status.Display())
			if !job.Status.Terminal() {
				fmt.Fprintf(out, "Progress: %.0f%%\n", job.Progress)
			}
			if job.OutputVideoID != "" {
				fmt.Fprintf(out, "Output:   %s\n", job.OutputVideoID)
			}
			if job.Error != "" {
				fmt.Fprintf(out, "Error:    %s\n", job.Error)
			}
			if job.CreatedAt != "" {
				fmt.Fprintf(out, "Created:  %s\n", job.CreatedAt)
			}
			if job.UpdatedAt != "" {
				fmt.Fprintf(out, "Updated:  %s\n", job.UpdatedAt)
			}
			return nil
		},
	}
}

func newJobsCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a running job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			submitter := orchestrator.NewSubmitter(client)
			if err := submitter.Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancellation requested for job %s\n", args[0])
			return nil
		},
	}
}
