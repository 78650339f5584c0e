package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/askeza/internal/cli"
	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/watcher"
)

// WatchCmd keeps the askezas in step with the calendar until interrupted. It
// reconciles on start, on every tick, at local midnight and whenever one of
// the foreground signals arrives.
type WatchCmd struct{}

func (cmd *WatchCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	signals := make(chan os.Signal, 1)
	if fg := foregroundSignals(); len(fg) > 0 {
		signal.Notify(signals, fg...)
		defer signal.Stop(signals)
	}

	foreground := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigCtx.Done():
				return
			case s := <-signals:
				logger.Debug("Foreground signal received", "signal", s)
				select {
				case foreground <- struct{}{}:
				case <-sigCtx.Done():
					return
				}
			}
		}
	}()

	ctx.Printf("Watching %d active askezas (Ctrl+C to stop)\n", len(ctx.Askezas.Active()))
	return ctx.Watcher.Run(sigCtx, foreground)
}

// TickCmd runs one reconciliation pass and prints what changed.
type TickCmd struct {
	Force bool `help:"Advance every active askeza by one day regardless of the calendar."`
}

func (cmd *TickCmd) Run(ctx *cli.Context) error {
	if cmd.Force {
		summary, err := ctx.Askezas.ForceTickAll(ctx.Clock.Now())
		if err != nil {
			return err
		}
		if summary.Changed() {
			if err := ctx.Tracker.SyncFromAskezas(ctx.Askezas.Active()); err != nil {
				return err
			}
		}
		ctx.Printf("Force tick: %d advanced, %d completed\n", len(summary.Updated), len(summary.Completed))
		return nil
	}

	report, err := ctx.Watcher.Trigger(watcher.ReasonForeground)
	if err != nil {
		return err
	}
	ctx.Printf("Reconciled: %d updated, %d completed, %d unchanged\n",
		len(report.Reconciled.Updated), len(report.Reconciled.Completed), len(report.Reconciled.Unchanged))
	if report.DayChanged {
		ctx.Printf("New day: %d force ticked, %d completed\n",
			len(report.ForceTicked.Updated), len(report.ForceTicked.Completed))
	}
	return nil
}
