package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/ai-footprint-tui/internal/app"
	"github.com/j-veylop/ai-footprint-tui/internal/config"
	"github.com/j-veylop/ai-footprint-tui/internal/logger"
	"github.com/j-veylop/ai-footprint-tui/internal/services"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/tabs/info"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/tabs/overview"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/tabs/sites"
)

const longHelp = `aft tracks how long you spend on AI chat sites and estimates the
environmental impact of that time.

Keyboard Shortcuts:
  1-3             Switch between tabs (Overview, Sites, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  r               Refresh data
  x               Reset totals
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATABASE_PATH          SQLite database path
  FOCUS_PATH             Browser focus bridge file
  SITES_PATH             Extra tracked-site rules (TOML)
  LOG_PATH, LOG_LEVEL    Log destination and level
  TICK_INTERVAL          Reconciliation interval (default: 30s)
  NOTIFICATIONS_ENABLED  Desktop reminders (default: true)

The application also reads .env files from the current directory and
~/.config/ai-footprint/.env.`

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "aft",
		Short:         "AI Footprint TUI: track time on AI sites and its estimated impact",
		Long:          longHelp,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		newDaemonCmd(),
		newStatusCmd(),
		newResetCmd(),
		newFocusCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// bootstrap loads configuration, points the logger at the log file and opens
// the service manager. The returned cleanup closes both.
func bootstrap() (*config.Config, *services.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser, err := logger.Configure(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to configure logger: %w", err)
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		closeQuietly(logCloser)
		return nil, nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	cleanup := func() {
		if err := mgr.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", err)
		}
		closeQuietly(logCloser)
	}

	return cfg, mgr, cleanup, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

func runTUI(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, mgr, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("failed to start tracker: %w", err)
	}

	model := app.NewModel(mgr)
	state := model.GetState()
	model.SetTabs([]app.Tab{
		overview.New(state),
		sites.New(state, mgr.Classifier()),
		info.New(state, cfg, mgr.Classifier().Rules()),
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
