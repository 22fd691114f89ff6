package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snapstub/snapstub/pkg/admin"
	"github.com/snapstub/snapstub/pkg/logging"
	"github.com/snapstub/snapstub/pkg/proxy"
	"github.com/snapstub/snapstub/pkg/record"
	"github.com/snapstub/snapstub/pkg/stub"
	"github.com/snapstub/snapstub/pkg/traffic"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

var (
	startProxyPort    int
	startAdminPort    int
	startLogLevel     string
	startLogFormat    string
	startMaxExchanges int
	startIncludePaths []string
	startExcludePaths []string
	startIncludeHosts []string
	startExcludeHosts []string
)

// startCmd represents the start command.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the recording proxy and admin API",
	Example: `  # Start with defaults (proxy on :8888, admin on :4290)
  snapstub start

  # Capture only API traffic from one host
  snapstub start --include-host api.example.com --include-path '/api/**'

  # JSON logs at debug level
  snapstub start --log-level debug --log-format json`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().IntVarP(&startProxyPort, "port", "p", 8888, "Forward proxy port")
	startCmd.Flags().IntVarP(&startAdminPort, "admin-port", "a", 4290, "Admin API port")
	startCmd.Flags().StringVar(&startLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	startCmd.Flags().StringVar(&startLogFormat, "log-format", "text", "Log format (text, json)")
	startCmd.Flags().IntVar(&startMaxExchanges, "max-log-entries", traffic.DefaultMaxEntries, "Maximum captured exchanges kept in memory")
	startCmd.Flags().StringSliceVar(&startIncludePaths, "include-path", nil, "Capture only paths matching this glob (repeatable)")
	startCmd.Flags().StringSliceVar(&startExcludePaths, "exclude-path", nil, "Never capture paths matching this glob (repeatable)")
	startCmd.Flags().StringSliceVar(&startIncludeHosts, "include-host", nil, "Capture only these hosts (repeatable)")
	startCmd.Flags().StringSliceVar(&startExcludeHosts, "exclude-host", nil, "Never capture these hosts (repeatable)")
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(startLogLevel),
		Format: logging.ParseFormat(startLogFormat),
	})

	trafficLog := traffic.NewLogWithCapacity(startMaxExchanges)
	stubs := stub.NewStore()
	recorder := record.NewRecorder(trafficLog, logger)

	p := proxy.New(proxy.Options{
		Log: trafficLog,
		Filter: &proxy.FilterConfig{
			IncludePaths: startIncludePaths,
			ExcludePaths: startExcludePaths,
			IncludeHosts: startIncludeHosts,
			ExcludeHosts: startExcludeHosts,
		},
		Logger: logger,
	})

	api := admin.New(admin.Options{
		Recorder: recorder,
		Stubs:    stubs,
		Traffic:  trafficLog,
		Logger:   logger,
	})

	proxyServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", startProxyPort),
		Handler:      p,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	adminServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", startAdminPort),
		Handler:      api,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("proxy listening", "addr", proxyServer.Addr)
		if err := proxyServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("proxy server: %w", err)
		}
	}()
	go func() {
		logger.Info("admin API listening", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("admin server: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := proxyServer.Shutdown(ctx); err != nil {
		logger.Error("proxy shutdown", "error", err)
	}
	if err := adminServer.Shutdown(ctx); err != nil {
		logger.Error("admin shutdown", "error", err)
	}
	return nil
}
