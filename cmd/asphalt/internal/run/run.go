// Package run implements "asphalt run".
package run

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-lynx/asphalt/boot"
	"github.com/go-lynx/asphalt/log"
	"github.com/go-lynx/asphalt/observability/metrics"
)

var (
	confPath    string
	metricsAddr string
)

// CmdRun loads a configuration file, starts the component hierarchy it
// describes and runs until interrupted.
var CmdRun = &cobra.Command{
	Use:   "run",
	Short: "Start the components described by a configuration file",
	Example: `  # Start the hierarchy described in config.yaml
  asphalt run --conf ./configs/config.yaml

  # Also expose Prometheus metrics
  asphalt run --conf ./configs --metrics-addr :9090`,
	RunE: runCommand,
}

func init() {
	CmdRun.Flags().StringVarP(&confPath, "conf", "c", "./configs", "config file or directory")
	CmdRun.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address")
}

func runCommand(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if metricsAddr != "" {
		srv := serveMetrics(metricsAddr)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	return boot.NewApplication(confPath).Run(ctx)
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server on %s stopped: %v", addr, err)
		}
	}()
	log.Infof("serving metrics on %s/metrics", addr)
	return srv
}
