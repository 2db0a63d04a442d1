package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j-veylop/ai-footprint-tui/internal/config"
	"github.com/j-veylop/ai-footprint-tui/internal/services/focus"
)

// newFocusCmd writes the focus bridge file by hand, for scripting bridges and
// for testing without a browser extension.
func newFocusCmd() *cobra.Command {
	var event string

	cmd := &cobra.Command{
		Use:   "focus [url]",
		Short: "Write the focus bridge file (no url clears focus)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			snap := focus.Snapshot{Event: event}
			if len(args) == 1 {
				snap.WindowFocused = true
				snap.ActiveTab = &focus.Tab{URL: args[0]}
			}

			if err := focus.WriteSnapshot(cfg.FocusPath, snap); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Focus written to %s\n", cfg.FocusPath)
			return err
		},
	}

	cmd.Flags().StringVar(&event, "event", "tab_activated", "trigger name recorded in the bridge file")
	return cmd
}
