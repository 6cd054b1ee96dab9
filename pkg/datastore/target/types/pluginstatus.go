package types

import "sync"

type PluginStatus struct {
	Status  PluginRunStatus
	Details string
}

func NewPluginStatus(status PluginRunStatus) *PluginStatus {
	return &PluginStatus{
		Status: status,
	}
}

func (ps *PluginStatus) IsRunning() bool {
	return ps.Status == PluginStatusRunning
}

func (ps *PluginStatus) String() string {
	if ps.Details == "" {
		return string(ps.Status)
	}
	return string(ps.Status) + ": " + ps.Details
}

type PluginRunStatus string

const (
	PluginStatusRunning PluginRunStatus = "running"
	PluginStatusStopped PluginRunStatus = "stopped"
	PluginStatusFailed  PluginRunStatus = "failed"
)

// StatusTracker is embedded by plugins to implement Status and the
// idempotent start/stop bookkeeping.
type StatusTracker struct {
	m      sync.RWMutex
	status PluginRunStatus
	detail string
}

func (s *StatusTracker) Status() *PluginStatus {
	s.m.RLock()
	defer s.m.RUnlock()
	st := s.status
	if st == "" {
		st = PluginStatusStopped
	}
	return &PluginStatus{Status: st, Details: s.detail}
}

// SetStatus records the run status. Details are cleared unless err is set.
func (s *StatusTracker) SetStatus(st PluginRunStatus, err error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.status = st
	s.detail = ""
	if err != nil {
		s.detail = err.Error()
	}
}
