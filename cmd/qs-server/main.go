// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command qs-server is the transparency log collector: it accepts ledger
// entries on POST /upload and appends them to a central ledger.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/release-utils/version"

	"github.com/qsnotary/qs-notary/pkg/config"
	"github.com/qsnotary/qs-notary/pkg/ledger"
	"github.com/qsnotary/qs-notary/pkg/logging"
	"github.com/qsnotary/qs-notary/pkg/mirror"
)

const (
	envPrefix       = "QS_SERVER"
	defaultAddr     = "0.0.0.0:8080"
	shutdownTimeout = 10 * time.Second
	readTimeout     = 10 * time.Second
)

type serverOptions struct {
	Addr       string
	LedgerPath string
	LogLevel   string
	LogFormat  string
}

func (o *serverOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Addr, "addr", defaultAddr, "Address to listen on.")
	cmd.Flags().StringVar(&o.LedgerPath, "ledger", mirror.DefaultCollectorLedger, "Path to the central ledger file.")
	cmd.Flags().StringVar(&o.LogLevel, "log-level", "info", "set the minimum log level (debug, info, warn, error, silent)")
	cmd.Flags().StringVar(&o.LogFormat, "log-format", "text", "set the log output format (text, json)")
}

func (o *serverOptions) newLogger() (logging.Logger, error) {
	level, err := logging.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(o.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{Level: level, Format: format}), nil
}

func newCommand() *cobra.Command {
	o := &serverOptions{}
	cmd := &cobra.Command{
		Use:               "qs-server",
		Short:             "Transparency log collector for qs-notary ledger entries.",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd.Flags(), envPrefix)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := o.newLogger()
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", o.Addr)
			if err != nil {
				return err
			}
			logger.Info("collector listening on %s, appending to %s", ln.Addr(), o.LedgerPath)
			return serve(cmd.Context(), ln, ledger.New(o.LedgerPath), logger)
		},
	}
	o.AddFlags(cmd)
	cmd.AddCommand(version.WithFont("starwars"))
	return cmd
}

// serve runs the collector on ln until ctx is done, then drains in-flight
// uploads.
func serve(ctx context.Context, ln net.Listener, l ledger.Appender, logger logging.Logger) error {
	srv := &http.Server{
		Handler:           mirror.NewHandler(l, logger),
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("error: %v", err)
	}
}
