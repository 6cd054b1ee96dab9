package datastore

import "errors"

var (
	ErrNoBackend     = errors.New("no Get, Set or Observer plugin registered")
	ErrPluginFailure = errors.New("plugin failure")
	ErrNotFound      = errors.New("plugin not registered")
	ErrNotRunning    = errors.New("datastore not running")
)

// PluginError carries the failure reported by a backend plugin. It matches
// ErrPluginFailure as well as the plugin's own error.
type PluginError struct {
	Plugin string
	Err    error
}

func (e *PluginError) Error() string {
	return e.Plugin + ": " + e.Err.Error()
}

func (e *PluginError) Unwrap() []error {
	return []error{ErrPluginFailure, e.Err}
}

func pluginError(name string, err error) error {
	if err == nil {
		return nil
	}
	return &PluginError{Plugin: name, Err: err}
}
