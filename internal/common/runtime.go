package common

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/fleetsync/fleetsync/internal/config"
)

// TuneRuntime sizes GOMAXPROCS and GOMEMLIMIT from the cgroup limits.
func TuneRuntime(conf config.Runtime, logger logr.Logger) error {
	// maxprocs logs printf style, logr expects key/value pairs
	_, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.V(1).Info(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		return fmt.Errorf("failed to set max procs: %w", err)
	}

	limit, err := memlimit.SetGoMemLimit(conf.MemLimitRatio)
	if err != nil {
		return fmt.Errorf("failed to set go mem limit: %w", err)
	}

	if limit > 0 {
		logger.V(1).Info("Go memlimit configured", "ratio", conf.MemLimitRatio, "limit", humanize.IBytes(uint64(limit)))
	}

	return nil
}

// SetupSignalHandler cancels the returned context on the first SIGINT or SIGTERM.
// A second signal exits the process.
func SetupSignalHandler(ctx context.Context, logger logr.Logger) context.Context {
	ret, cancel := context.WithCancel(ctx)

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-signals
		logger.Info("Stopping", "signal", sig.String())
		cancel()

		sig = <-signals
		logger.Info("Signal received twice, exiting", "signal", sig.String())
		os.Exit(1)
	}()

	return ret
}
