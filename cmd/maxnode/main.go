// maxnode is a UDP OSC node which can communicate with a Max patcher:
// it receives control messages on one port, answers on another, and can pull
// accelerometer samples from a phone on the local network.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"maxnode/internal/config"
	"maxnode/internal/node"
	"maxnode/internal/sensor"
)

var (
	verbose     bool
	recvPort    int
	sendPort    int
	sensorURL   string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "maxnode",
	Short: "maxnode - OSC/UDP service node for Max",
	Long: `maxnode is a UDP OSC node which can communicate with Max. It listens for
control messages (/reset, /quit, /ping, /xfreq, /yfreq, /nextframe), keeps a
small set of generator parameters, and replies to the sender's host on the
fixed send port. /nextframe fetches a 3-channel accelerometer sample from an
HTTP sensor endpoint and answers with a /trajectory frame.

Configuration comes from the environment (OSC_RECV_PORT, OSC_SEND_PORT,
SENSOR_URL, SENSOR_TIMEOUT, METRICS_ADDR, LOG_LEVEL), optionally via a .env
file; flags override the environment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "emit debugging output")
	rootCmd.Flags().IntVar(&recvPort, "recv-port", node.DefaultRecvPort, "UDP port to receive OSC messages on")
	rootCmd.Flags().IntVar(&sendPort, "send-port", node.DefaultSendPort, "UDP port replies are sent to")
	rootCmd.Flags().StringVar(&sensorURL, "sensor-url", sensor.DefaultBaseURL, "base URL of the HTTP sensor endpoint")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address for the Prometheus /metrics listener (disabled if empty)")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("recv-port") {
		cfg.RecvPort = recvPort
	}
	if cmd.Flags().Changed("send-port") {
		cfg.SendPort = sendPort
	}
	if cmd.Flags().Changed("sensor-url") {
		cfg.SensorURL = sensorURL
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}

	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	metrics := node.NewMetrics()
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics.MustRegister(reg)
		go serveMetrics(cfg.MetricsAddr, reg, logger)
	}

	n := node.New(node.Options{
		RecvPort: cfg.RecvPort,
		SendPort: cfg.SendPort,
		Sensor:   sensor.NewHTTPSource(cfg.SensorURL, cfg.SensorTimeout),
		Logger:   logger,
		Metrics:  metrics,
	})

	if err := n.Listen(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return n.Run(ctx)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("metrics listener started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener failed", "error", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
