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

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Backend      *BackendConfig      `yaml:"backend,omitempty" json:"backend,omitempty"`
	Transactions *TransactionsConfig `yaml:"transactions,omitempty" json:"transactions,omitempty"`
	// push the startup snapshot back to the substrate on shutdown
	RestoreOriginalConfigOnShutdown bool `yaml:"restore-original-config-on-shutdown,omitempty" json:"restore-original-config-on-shutdown,omitempty"`
	// size of the queue holding observed changes
	ObserverQueueSize int                `yaml:"observer-queue-size,omitempty" json:"observer-queue-size,omitempty"`
	HTTPServer        *HTTPServerConfig  `yaml:"http-server,omitempty" json:"http-server,omitempty"`
	Prometheus        *PromConfig        `yaml:"prometheus,omitempty" json:"prometheus,omitempty"`
	Tracing           *TracingConfig     `yaml:"tracing,omitempty" json:"tracing,omitempty"`
	Interfaces        []*InterfaceConfig `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
}

func New(file string) (*Config, error) {
	c := new(Config)
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		err = yaml.Unmarshal(b, c)
		if err != nil {
			return nil, err
		}
	}
	err := c.validateSetDefaults()
	return c, err
}

func (c *Config) validateSetDefaults() error {
	if c.Backend == nil {
		c.Backend = &BackendConfig{}
	}
	if err := c.Backend.validateSetDefaults(); err != nil {
		return err
	}
	if c.Transactions == nil {
		c.Transactions = &TransactionsConfig{}
	}
	if err := c.Transactions.validateSetDefaults(); err != nil {
		return err
	}
	if c.ObserverQueueSize <= 0 {
		c.ObserverQueueSize = defaultObserverQueueSize
	}
	if c.HTTPServer == nil {
		c.HTTPServer = &HTTPServerConfig{}
	}
	if c.HTTPServer.Address == "" {
		c.HTTPServer.Address = defaultHTTPAddress
	}
	if c.HTTPServer.Timeout <= 0 {
		c.HTTPServer.Timeout = defaultHTTPTimeout
	}
	if c.Tracing == nil {
		c.Tracing = &TracingConfig{}
	}
	if err := c.Tracing.validateSetDefaults(); err != nil {
		return err
	}
	if err := validateInterfaces(c.Interfaces); err != nil {
		return fmt.Errorf("interfaces: %w", err)
	}
	return nil
}

type TransactionsConfig struct {
	// maximum number of concurrently open transactions
	MaxPending int `yaml:"max-pending,omitempty" json:"max-pending,omitempty"`
	// open transactions idle for longer are dropped
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	// how often stale transactions are looked for
	SweepInterval time.Duration `yaml:"sweep-interval,omitempty" json:"sweep-interval,omitempty"`
}

func (t *TransactionsConfig) validateSetDefaults() error {
	if t.MaxPending < 0 {
		return fmt.Errorf("transactions max-pending must not be negative")
	}
	if t.MaxPending == 0 {
		t.MaxPending = defaultMaxPendingTransactions
	}
	if t.Timeout <= 0 {
		t.Timeout = defaultTransactionTimeout
	}
	if t.SweepInterval <= 0 {
		t.SweepInterval = defaultSweepInterval
	}
	return nil
}

type HTTPServerConfig struct {
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
	// per request timeout
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// PromConfig enables the /metrics endpoint on the HTTP server.
type PromConfig struct{}

type TracingConfig struct {
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	// one of stdout, otlp
	Exporter    string `yaml:"exporter,omitempty" json:"exporter,omitempty"`
	Endpoint    string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Insecure    bool   `yaml:"insecure,omitempty" json:"insecure,omitempty"`
	ServiceName string `yaml:"service-name,omitempty" json:"service-name,omitempty"`
}

func (t *TracingConfig) validateSetDefaults() error {
	if t.ServiceName == "" {
		t.ServiceName = defaultServiceName
	}
	if !t.Enabled {
		return nil
	}
	switch t.Exporter {
	case "":
		t.Exporter = TracingExporterStdout
	case TracingExporterStdout:
	case TracingExporterOTLP:
		if t.Endpoint == "" {
			t.Endpoint = defaultOTLPEndpoint
		}
	default:
		return fmt.Errorf("unknown tracing exporter %q", t.Exporter)
	}
	return nil
}
