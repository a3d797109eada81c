package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"deskwatch/internal/bootstrap"
	"deskwatch/internal/modules/tracker/dto"
	trackerusecase "deskwatch/internal/modules/tracker/usecase"
	"deskwatch/internal/platform/config"
	apperrors "deskwatch/internal/platform/errors"
	"deskwatch/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, owner string

	root := &cobra.Command{
		Use:           "deskwatch",
		Short:         "Desk presence session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "config file path")
	root.PersistentFlags().StringVar(&owner, "owner", "", "owner id (defaults to config default_owner, then $USER)")

	root.AddCommand(newWatchCmd(&configPath))
	root.AddCommand(newTUICmd(&configPath, &owner))
	root.AddCommand(newStatusCmd(&configPath))
	root.AddCommand(newStopCmd(&configPath))
	root.AddCommand(newSessionCmd(&configPath, &owner))
	root.AddCommand(newReportCmd(&configPath, &owner))
	return root
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "deskwatch.yaml"
	}
	return home + "/.deskwatch/deskwatch.yaml"
}

func loadApp(configPath string) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New("deskwatch", cfg.Debug))
}

func resolveOwner(app *bootstrap.App, owner string) (string, error) {
	if owner != "" {
		return owner, nil
	}
	if app.Config.DefaultOwner != "" {
		return app.Config.DefaultOwner, nil
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username, nil
	}
	return "", fmt.Errorf("%w: owner is required (--owner)", apperrors.ErrInvalidInput)
}

func newWatchCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the sensor ingest daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, closer, err := logging.NewFile("deskwatch", watchLogPath(cfg), cfg.Debug)
			if err != nil {
				return fmt.Errorf("open daemon log: %w", err)
			}
			defer closer.Close()

			app, err := bootstrap.New(cfg, log)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), app)
		},
	}
}

// watchLogPath mirrors FileDaemonStore's layout; the logger must exist
// before the app (and its daemon store) is built.
func watchLogPath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir, "watch.log")
}

func runWatch(parent context.Context, app *bootstrap.App) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Daemon.WritePID(ctx, os.Getpid()); err != nil {
		return err
	}
	defer func() {
		if err := app.Daemon.ClearPID(context.Background()); err != nil {
			app.Log.Warn("clear daemon pid", "error", err)
		}
	}()

	ingestDone := make(chan struct{})
	if app.Ingest != nil {
		go func() {
			defer close(ingestDone)
			if err := app.Ingest.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				app.Log.Error("ingest stopped", "error", err)
			}
		}()
	} else {
		close(ingestDone)
		app.Log.Warn("no sensor source configured; running web-only")
	}

	handler := trackerusecase.NewDaemonHandler(app.Tracker, cancel)
	err := app.IPCServer.Serve(ctx, app.Daemon.SocketPath(), handler)

	// Give the ingest loop a moment to close the transport.
	select {
	case <-ingestDone:
	case <-time.After(2 * time.Second):
		app.Log.Warn("ingest did not stop in time")
	}
	return err
}

func newTUICmd(configPath, owner *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive dashboard (ingests in-process)",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			who, err := resolveOwner(app, *owner)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if app.Ingest != nil {
				go func() {
					if err := app.Ingest.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						app.Log.Error("ingest stopped", "error", err)
					}
				}()
			}
			return bootstrap.RunTUI(app, who)
		},
	}
}

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session state from the watch daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			working, seconds, err := app.IPCClient.Elapsed(cmd.Context(), app.Daemon.SocketPath())
			if err != nil {
				return daemonUnreachable(err)
			}
			status := dto.StatusNotWorking
			if working {
				status = dto.StatusWorking
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s elapsed=%.0fs\n", status, seconds)
			return nil
		},
	}
}

func newStopCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the watch daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			if err := app.IPCClient.Stop(cmd.Context(), app.Daemon.SocketPath()); err != nil {
				return daemonUnreachable(err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "watch daemon stopping")
			return nil
		},
	}
}

func newSessionCmd(configPath, owner *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Manage work sessions"}

	toggle := func(action string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			who, err := resolveOwner(app, *owner)
			if err != nil {
				return err
			}
			if err := app.IPCClient.Toggle(cmd.Context(), app.Daemon.SocketPath(), who, action); err != nil {
				return daemonUnreachable(err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s requested\n", action)
			return nil
		}
	}
	session.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Manually open a session (no-op if one is open)",
		RunE:  toggle(dto.ActionStart),
	})
	session.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Manually close the open session",
		RunE:  toggle(dto.ActionStop),
	})

	session.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Claim unassigned sessions and list yours, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			who, err := resolveOwner(app, *owner)
			if err != nil {
				return err
			}
			workingSet, err := app.TrackerCLI.Sync(cmd.Context(), who)
			if err != nil {
				return err
			}
			if len(workingSet) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range workingSet {
				end := "open"
				if !s.Open {
					end = s.End.Format("2006-01-02 15:04:05")
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s  %s  %.2fh\n",
					s.ID, s.Start.Format("2006-01-02 15:04:05"), end, s.Hours)
			}
			return nil
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: session id %q", apperrors.ErrInvalidInput, args[0])
			}
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			who, err := resolveOwner(app, *owner)
			if err != nil {
				return err
			}
			if err := app.TrackerCLI.Delete(cmd.Context(), who, id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted session %d\n", id)
			return nil
		},
	})

	return session
}

func newReportCmd(configPath, owner *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Total hours plus the trailing 7-day breakdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			who, err := resolveOwner(app, *owner)
			if err != nil {
				return err
			}
			total, daily, err := app.TrackerCLI.Report(cmd.Context(), who, time.Now())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total: %.2fh\n", total)
			for _, day := range daily.Details {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %5.2fh\n", day.Date, day.Hours)
			}
			return nil
		},
	}
}

func daemonUnreachable(err error) error {
	return fmt.Errorf("watch daemon unreachable (start it with `deskwatch watch`): %w", err)
}
