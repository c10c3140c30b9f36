// Airq-sim runs a simulated air-Q device for development and testing.
//
// The simulator speaks the same encrypted HTTP protocol as real
// firmware: every response is an AES-256-CBC envelope under a key
// derived from the configured password. It serves plausible jittered
// sensor values and can script warm-up phases, which makes it a handy
// peer for airq-ctl, airq-exporter, and integration tests.
//
// Usage:
//
//	airq-sim --password secret --listen :8080
//
// See 'airq-sim --help' for available options.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nanoklima/airq/internal/logging"
	"github.com/nanoklima/airq/internal/simulator"
	"github.com/nanoklima/airq/internal/version"
)

var (
	listenAddr  string
	password    string
	simID       string
	simName     string
	roomType    string
	warmupSecs  int
	warmupNames []string
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
	Use:   "airq-sim",
	Short: "Simulated air-Q device",
	Long: `Run a simulated air-Q device on a local port.

The simulator serves the same encrypted routes as real firmware
(/data, /average, /config, /log, /ping, /blink) and accepts
configuration posts. Point airq-ctl or airq-exporter at it with the
same password.`,
	Example: `  # Default device on :8080
  airq-sim --password secret

  # Start with the gas sensors in a 2-minute warm-up
  airq-sim --password secret --warmup 120 --warmup-sensor co --warmup-sensor o3`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSim,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "Listen address")
	rootCmd.Flags().StringVar(&password, "password", "airqsetup", "Device password")
	rootCmd.Flags().StringVar(&simID, "device-id", simulator.DefaultID, "Device id to report")
	rootCmd.Flags().StringVar(&simName, "name", simulator.DefaultName, "Device name to report")
	rootCmd.Flags().StringVar(&roomType, "room-type", simulator.DefaultRoomType, "Room type to report")
	rootCmd.Flags().IntVar(&warmupSecs, "warmup", 0, "Start the named sensors in a warm-up of this many seconds")
	rootCmd.Flags().StringArrayVar(&warmupNames, "warmup-sensor", nil, "Sensor to warm up (repeatable, needs --warmup)")
}

func runSim(cmd *cobra.Command, args []string) error {
	dev := simulator.New(simulator.Config{
		Password: password,
		ID:       simID,
		Name:     simName,
		RoomType: roomType,
	})

	if warmupSecs > 0 && len(warmupNames) > 0 {
		dev.StartWarmup(time.Duration(warmupSecs)*time.Second, warmupNames...)
	}

	log := logging.GetLogger()
	log.Info("Simulated device listening",
		zap.String("address", listenAddr),
		zap.String("id", dev.ID()),
	)
	fmt.Printf("airq-sim %s listening on %s (device id %s)\n", version.Version, listenAddr, dev.ID())

	server := &http.Server{Addr: listenAddr, Handler: dev.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
