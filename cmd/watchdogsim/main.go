// cmd/watchdogsim/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/config"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/controller"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/status"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path (built-in defaults when omitted)"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Run struct {
		Duration time.Duration `short:"d" help:"Stop the simulation after this wall-time duration (0 = run until interrupted)"`
	} `cmd:"" help:"Run the controller on the simulated ATtiny85"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "run":
		if err := runSim(logger); err != nil {
			logger.Error("simulation failed", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("unknown command", "command", ctx.Command())
		os.Exit(1)
	}
}

func runSim(logger *slog.Logger) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg := &config.Config{}
	if CLI.Config != "" {
		loaded, err := config.Load(CLI.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	config.Normalize(cfg)

	logger.Info("simulated controller",
		"led_pin", *cfg.Controller.LEDPin,
		"rearm_strategy", cfg.Controller.RearmStrategy,
		"wake_interval", cfg.Controller.WakeInterval(),
		"time_scale", cfg.Sim.TimeScale,
	)

	// --------------------
	// Build + run
	// --------------------

	ctrl, rt, err := controller.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if CLI.Run.Duration > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, CLI.Run.Duration)
		defer cancel()
	}

	sigCh := make(chan os.Signal, 1)
	ossignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	done := make(chan error, 1)
	go func() { done <- ctrl.Run(runCtx) }()

	<-runCtx.Done()
	rt.Close()
	runErr := <-done
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return runErr
	}

	// ctrl.Run has returned, so the snapshot read is single-threaded.
	snap := ctrl.Status()
	logger.Info("simulation finished",
		"wakes", rt.Watchdog.Wakes(),
		"resets", rt.Watchdog.Resets(),
		"pin_edges", len(rt.Pin.Edges()),
	)
	logger.Info("final status",
		"phase", phaseName(snap.Phase),
		"wake_count", snap.WakeCount,
		"batches_left", snap.BatchesLeft,
		"armed", snap.Armed,
		"pin_high", snap.PinHigh,
	)
	return nil
}

func phaseName(code uint16) string {
	switch code {
	case status.PhaseRunning:
		return "RUNNING"
	case status.PhaseBatchComplete:
		return "BATCH_COMPLETE"
	case status.PhaseShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}
