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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	logf "github.com/sdcio/logger"
	"github.com/spf13/pflag"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/server"
	"github.com/sdcio/fea-server/pkg/tracing"
)

var configFile string
var debug bool
var trace bool

var versionFlag bool
var version = "dev"
var commit = ""

var initTracing = tracing.Init

func main() {
	pflag.StringVarP(&configFile, "config", "c", "", "config file path")
	pflag.BoolVarP(&debug, "debug", "d", false, "set log level to DEBUG")
	pflag.BoolVarP(&trace, "trace", "t", false, "set log level to TRACE")
	pflag.BoolVarP(&versionFlag, "version", "v", false, "print version")
	pflag.Parse()

	if versionFlag {
		fmt.Println(version + "-" + commit)
		return
	}

	slogOpts := &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: logf.ReplaceTimeAttr,
	}
	if debug {
		slogOpts.Level = slog.Level(logf.VDebug)
	}
	if trace {
		slogOpts.Level = slog.Level(logf.VTrace)
	}

	log := logr.FromSlogHandler(slog.NewJSONHandler(os.Stdout, slogOpts))
	logf.SetDefaultLogger(log)
	ctx := logf.IntoContext(context.Background(), log)

	log.Info("fea-server bootstrap", "version", version, "commit", commit, "log-level", slogOpts.Level.Level().String())

	if err := run(ctx); err != nil {
		log.Error(err, "fea-server failed")
		os.Exit(1)
	}
	log.Info("terminated")
}

// run returns instead of exiting so the deferred shutdowns execute.
func run(ctx context.Context) error {
	log := logf.FromContext(ctx)

	cfg, err := config.New(configFile)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	log.Info("read config", "config", string(b))

	shutdownTracing, err := initTracing(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error(err, "tracing shutdown failed")
		}
	}()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := server.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := s.Serve(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
