package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/j-veylop/ai-footprint-tui/internal/logger"
)

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the tracker without the interface",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, mgr, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := mgr.Start(ctx); err != nil {
				return fmt.Errorf("failed to start tracker: %w", err)
			}

			logger.Info("tracker running", "hint", "send SIGINT or SIGTERM to stop")
			<-ctx.Done()
			logger.Info("tracker stopping")
			return nil
		},
	}
}
