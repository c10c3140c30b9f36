// Airq-exporter is a Prometheus exporter for air-Q air quality monitors.
//
// It polls one or more devices over their encrypted HTTP protocol and
// serves the readings as Prometheus metrics. Sensor warm-up phases and
// unexplained sensor dropouts are tracked explicitly, so scrapes tell
// the difference between "not ready yet" and "broken".
//
// Usage:
//
//	airq-exporter --device 192.168.1.50 --listen :9154
//
// See 'airq-exporter --help' for available options.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nanoklima/airq/internal/client"
	"github.com/nanoklima/airq/internal/exporter"
	"github.com/nanoklima/airq/internal/logging"
	"github.com/nanoklima/airq/internal/version"
)

const passwordEnvVar = "AIRQ_PASSWORD"

var (
	deviceAddrs  []string
	password     string
	listenAddr   string
	intervalSecs int
	timeoutSecs  int
)

func main() {
	logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "airq-exporter",
	Short: "Prometheus exporter for air-Q devices",
	Long: `A Prometheus exporter for air-Q air quality monitors.

Polls each configured device on a fixed interval and serves the
readings at /metrics. All devices must share the same password; run
one exporter per password otherwise.`,
	Example: `  # Export a single device
  AIRQ_PASSWORD=secret airq-exporter --device 192.168.1.50

  # Several devices, faster polling
  airq-exporter --device 192.168.1.50 --device 192.168.1.51 --interval 5`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExporter,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringArrayVar(&deviceAddrs, "device", nil, "Device address (repeatable)")
	rootCmd.Flags().StringVar(&password, "password", "", "Device password (default: $"+passwordEnvVar+")")
	rootCmd.Flags().StringVar(&listenAddr, "listen", ":9154", "Listen address for the metrics endpoint")
	rootCmd.Flags().IntVar(&intervalSecs, "interval", 10, "Poll interval in seconds")
	rootCmd.Flags().IntVar(&timeoutSecs, "timeout", 15, "Device HTTP timeout in seconds")
}

func runExporter(cmd *cobra.Command, args []string) error {
	if len(deviceAddrs) == 0 {
		return fmt.Errorf("no devices configured (use --device)")
	}
	if password == "" {
		password = os.Getenv(passwordEnvVar)
	}
	if password == "" {
		return fmt.Errorf("no password given (use --password or $%s)", passwordEnvVar)
	}

	log := logging.GetLogger()
	interval := time.Duration(intervalSecs) * time.Second

	reg := prometheus.NewRegistry()
	metrics := exporter.NewMetrics(reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, addr := range deviceAddrs {
		c := client.New(addr, password)
		c.SetTimeout(time.Duration(timeoutSecs) * time.Second)

		// The device id makes a stabler label than the address, but it
		// needs a successful poll to learn; fall back to the address.
		label := deviceLabel(ctx, c, addr)

		poller := exporter.NewPoller(c, label, metrics, interval)
		go poller.Run(ctx)

		log.Info("Polling device",
			zap.String("address", addr),
			zap.String("label", label),
			zap.Duration("interval", interval),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "airq-exporter - metrics at /metrics")
	})

	server := &http.Server{Addr: listenAddr, Handler: mux}
	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()

	log.Info("Exporter listening", zap.String("address", listenAddr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// deviceLabel asks the device for its id, falling back to the address
// when the device is unreachable at startup
func deviceLabel(ctx context.Context, c *client.Client, addr string) string {
	infoCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	info, err := c.DeviceInfo(infoCtx)
	if err != nil {
		return strings.TrimSuffix(addr, ":80")
	}
	return info.ID
}
