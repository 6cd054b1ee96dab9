// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logf "github.com/sdcio/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore"
	"github.com/sdcio/fea-server/pkg/datastore/target"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	config *config.Config

	ds *datastore.Datastore

	router *mux.Router
	reg    *prometheus.Registry
	srv    *http.Server
}

// New creates the datastore with the plugins of the configured backend and
// the HTTP server exposing it.
func New(ctx context.Context, c *config.Config) (*Server, error) {
	ds, err := datastore.New(c)
	if err != nil {
		return nil, err
	}
	b, err := target.New(ctx, c.Backend)
	if err != nil {
		return nil, fmt.Errorf("creating %s backend: %w", c.Backend.Type, err)
	}
	if err := ds.RegisterBackend(ctx, b, false); err != nil {
		return nil, err
	}

	s := &Server{
		config: c,
		ds:     ds,
		router: mux.NewRouter(),
		reg:    prometheus.NewRegistry(),
	}
	if c.Prometheus != nil {
		if err := ds.RegisterMetrics(s.reg); err != nil {
			return nil, err
		}
		s.reg.MustRegister(collectors.NewGoCollector())
		s.reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		s.router.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}
	s.registerRoutes()
	s.srv = &http.Server{
		Addr:         c.HTTPServer.Address,
		Handler:      otelhttp.NewHandler(s.router, "fea-server"),
		ReadTimeout:  c.HTTPServer.Timeout,
		WriteTimeout: c.HTTPServer.Timeout,
	}
	return s, nil
}

func (s *Server) Datastore() *datastore.Datastore {
	return s.ds
}

// Serve starts the datastore, applies the configured interfaces and serves
// HTTP until ctx is done. The datastore is stopped on return.
func (s *Server) Serve(ctx context.Context) error {
	log := logf.FromContext(ctx).WithName("Server")
	if err := s.ds.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := s.ds.Stop(context.WithoutCancel(ctx)); err != nil {
			log.Error(err, "failed to stop datastore")
		}
	}()
	removeListener := s.ds.AddListener(datastore.UpdateListenerFunc(func(_ context.Context, ev datastore.Event) {
		log.V(logf.VDebug).Info("update", "event", ev.String())
	}))
	defer removeListener()

	if len(s.config.Interfaces) > 0 {
		if err := s.ds.ApplyInterfaces(ctx, s.config.Interfaces); err != nil {
			return fmt.Errorf("applying configured interfaces: %w (%s)", err, s.ds.TransactionError())
		}
		log.Info("configured interfaces applied", "count", len(s.config.Interfaces))
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.ds.Run(ctx)
		return nil
	})
	eg.Go(func() error {
		log.Info("starting http server", "address", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(sctx)
	})
	return eg.Wait()
}
