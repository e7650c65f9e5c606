package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduled sweep loop until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logPath := filepath.Join(cfg.Paths.LogDir, "medley.log")
			rt, err := ctx.openRuntime("stdout", logPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			lockPath := filepath.Join(cfg.Paths.LogDir, "medley.lock")
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another medley serve instance is already running")
			}
			defer lock.Unlock()

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			interval := time.Duration(cfg.Refresh.SweepIntervalMinutes) * time.Minute
			rt.logger.Info("serve loop started",
				"interval", interval.String(),
				"lock", lockPath,
			)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				// Each sweep is a fresh pass; collaborator caches drop with it.
				rt.orch.SignalStalled()
				if _, err := rt.orch.AutoRefresh(signalCtx, rt.sweepOptions(false, 0), nil); err != nil {
					if errors.Is(err, context.Canceled) {
						rt.logger.Info("serve loop shutting down")
						return nil
					}
					rt.logger.Error("sweep failed", "error", err)
				}

				select {
				case <-signalCtx.Done():
					rt.logger.Info("serve loop shutting down")
					return nil
				case <-ticker.C:
				}
			}
		},
	}
}
