package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"canna-backoffice-requests/internal/app"
	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/logger"
	"canna-backoffice-requests/internal/service"

	"github.com/spf13/cobra"
)

// session is what the subcommands operate on. waitFollowUps blocks until deferred
// notifications have been delivered.
type session struct {
	requests      service.ReconciliationService
	actions       service.ActionService
	out           io.Writer
	waitFollowUps func()
}

type rootOptions struct {
	configPath string
	actor      string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "reqctl",
		Short:         "Inspect and resolve pending organization requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "config/config.dev.yaml", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.actor, "actor", "reqctl", "Name recorded in the decision audit")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print JSON instead of a table")

	cmd.AddCommand(
		newListCmd(opts),
		newStatsCmd(opts),
		newActionCmd(opts, domain.VerbApprove),
		newActionCmd(opts, domain.VerbReject),
	)
	return cmd
}

// withSession builds the application for one command and tears it down afterwards.
func withSession(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, s *session) error) error {
	cfg, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	// Keep stdout for command output
	logger.Set(logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format))

	out := cmd.OutOrStdout()
	a, err := app.Build(cmd.Context(), cfg, &printNotifier{out: out})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := service.WithActor(cmd.Context(), opts.actor)
	return fn(ctx, &session{
		requests:      a.Requests,
		actions:       a.Actions,
		out:           out,
		waitFollowUps: a.Deferred.Wait,
	})
}

func execute() {
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
