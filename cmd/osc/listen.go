package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/chabad360/nebosc/osc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	listenMetricsAddr string
	listenReadTimeout time.Duration
)

var listenCmd = &cobra.Command{
	Use:   "listen <host:port>",
	Short: "Print every OSC packet received on a UDP address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		server := &osc.Server{
			Addr:        args[0],
			ReadTimeout: listenReadTimeout,
			Logger:      &logger,
		}

		if listenMetricsAddr != "" {
			reg := prometheus.NewRegistry()
			server.Metrics = osc.NewMetrics(reg)
			go serveMetrics(ctx, listenMetricsAddr, reg)
		}

		out := make(chan osc.Received, 64)
		errc := make(chan error, 1)
		go func() {
			errc <- server.ListenAndServe(ctx, out)
			close(out)
		}()

		logger.Info().Str("addr", args[0]).Msg("listening")
		for r := range out {
			if r.Err != nil {
				logger.Warn().Err(r.Err).Stringer("from", r.Addr).Msg("dropped packet")
				continue
			}
			printPacket(cmd.OutOrStdout(), r.Packet, 0)
		}

		if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	listenCmd.Flags().StringVar(&listenMetricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	listenCmd.Flags().DurationVar(&listenReadTimeout, "read-timeout", 0, "per read socket timeout")
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server failed")
	}
}

// printPacket writes p to w, one line per message, indenting nested bundles.
func printPacket(w io.Writer, p osc.Packet, depth int) {
	indent := fmt.Sprintf("%*s", depth*2, "")
	switch p := p.(type) {
	case *osc.Message:
		fmt.Fprintf(w, "%s%s\n", indent, p)
	case *osc.Bundle:
		fmt.Fprintf(w, "%s%s\n", indent, p)
		for _, e := range p.Elements {
			printPacket(w, e, depth+1)
		}
	}
}
