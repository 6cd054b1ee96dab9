package config

import "time"

const (
	defaultBackendType = BackendTypeDummy

	defaultMaxPendingTransactions = 10
	defaultTransactionTimeout     = 5 * time.Second
	defaultSweepInterval          = time.Second

	defaultObserverQueueSize = 64

	defaultHTTPAddress = ":56090"
	defaultHTTPTimeout = time.Minute

	defaultServiceName  = "fea-server"
	defaultOTLPEndpoint = "localhost:4317"
)
