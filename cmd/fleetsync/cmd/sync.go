package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/config"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/factory"
	"github.com/fleetsync/fleetsync/internal/log"
)

var conf *config.Config

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Load the landscape then follow the events pushed by the monitoring server",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		conf, err = config.Parse(cfgFile, envFile)
		if err != nil {
			return fmt.Errorf("failed to parse config %s: %w", cfgFile, err)
		}

		// Init logger
		err = log.Init(conf.Logs)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}

		logger := log.Logger()

		// Dump generic information
		logger.Info("Starting fleetsync",
			"version", version.Info(),
			"buildContext", version.BuildContext(),
		)
		logger.Info("Using config", "config", fmt.Sprintf("%+v", *conf))

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.Logger()

		err := common.TuneRuntime(conf.Runtime, logger)
		if err != nil {
			return err
		}

		ctx := common.SetupSignalHandler(context.Background(), log.Component("signal"))

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		// Create engine
		eng, ch, closeFn, err := factory.CreateEngine(ctx, *conf, registry)
		if err != nil {
			if closeFn != nil {
				_ = closeFn(context.Background())
			}

			return fmt.Errorf("failed to create engine: %w", err)
		}

		metricsServer := factory.CreateMetricsServer(conf.Metrics, registry, eng.Ready)

		g, gCtx := errgroup.WithContext(ctx)

		g.Go(func() error {
			err := metricsServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server failed: %w", err)
			}

			return nil
		})

		g.Go(func() error {
			logNotifications(gCtx, eng.Notifications())

			return nil
		})

		g.Go(func() error {
			defer shutdown(metricsServer, closeFn)

			return eng.Connect(gCtx, ch)
		})

		err = g.Wait()
		if err != nil {
			return err
		}

		logger.V(2).Info("Sync stopped")

		return nil
	},
}

func logNotifications(ctx context.Context, notifications <-chan entity.Notification) {
	logger := log.Component("notifications")

	for {
		select {
		case <-ctx.Done():
			return
		case notification := <-notifications:
			logger.Info(notification.Text, "icon", notification.Icon, "id", notification.ID)
		}
	}
}

func shutdown(metricsServer *http.Server, closeFn common.CloseFunc) {
	logger := log.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), conf.GracefulDuration)
	defer cancel()

	err := metricsServer.Shutdown(ctx)
	if err != nil {
		logger.Error(err, "failed to stop metrics server")
	}

	err = closeFn(ctx)
	if err != nil {
		logger.Error(err, "failed to release clients")
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
