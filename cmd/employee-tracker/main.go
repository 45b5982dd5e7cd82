package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/employee-tracker/internal/repository"
	"github.com/employee-tracker/internal/service"
	"github.com/employee-tracker/internal/tui"
	"github.com/spf13/cobra"
)

// rootOptions - флаги, общие для всех команд
type rootOptions struct {
	configPath string
	offline    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:          "employee-tracker",
		Short:        "Manage departments, roles and employees from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default: $CONFIG_FILE)")
	cmd.PersistentFlags().BoolVar(&opts.offline, "offline", false, "Skip the database and work with in-memory data")

	cmd.AddCommand(newMigrateCmd(&opts))
	cmd.AddCommand(newReportCmd(&opts))
	return cmd
}

func runUI(ctx context.Context, opts rootOptions) error {
	rt, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	app := tui.New(ctx, service.New(rt.selector), rt.selector, rt.logger)
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	rt.selector.OnModeChange(func(mode repository.Mode, _ error) {
		program.Send(tui.ModeChangedMsg{Mode: mode})
	})

	rt.logger.Info("session started", slog.String("mode", rt.selector.Mode().String()))
	if _, err := program.Run(); err != nil {
		rt.logger.Error("terminal UI stopped", slog.Any("error", err))
		return err
	}
	rt.logger.Info("session finished")
	return nil
}
