package datastore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sdcio/fea-server/pkg/config"
	targettypes "github.com/sdcio/fea-server/pkg/datastore/target/types"
	"github.com/sdcio/fea-server/pkg/datastore/types"
	"github.com/sdcio/fea-server/pkg/tree"
	logf "github.com/sdcio/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/sdcio/fea-server/pkg/datastore"

// Datastore keeps the declared interface configuration in sync with the
// substrate through the registered backend plugins. A single mutex
// serializes every entry point.
type Datastore struct {
	m       sync.Mutex
	config  *config.Config
	running bool

	// configuration requested through transactions
	declared *tree.IfTree
	// most recent read of the substrate
	pulled *tree.IfTree
	// most recent successful write, the live configuration
	pushed *tree.IfTree
	// substrate state at startup
	original *tree.IfTree
	// declared configuration of the last successful commit
	knownGood *tree.IfTree

	gets      []targettypes.Get
	sets      []targettypes.Set
	observers []targettypes.Observer
	vlanGets  []targettypes.VlanGet
	vlanSets  []targettypes.VlanSet

	tm       *types.TransactionManager
	reporter *reporter
	observed chan targettypes.ObservedChange

	metrics *metrics
	tracer  trace.Tracer
}

// New returns a stopped datastore without plugins. A nil config is
// replaced by the defaults.
func New(cfg *config.Config) (*Datastore, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.New(""); err != nil {
			return nil, err
		}
	}
	m := newMetrics()
	return &Datastore{
		config:    cfg,
		declared:  tree.NewIfTree("declared"),
		pulled:    tree.NewIfTree("pulled"),
		pushed:    tree.NewIfTree("pushed"),
		original:  tree.NewIfTree("original"),
		knownGood: tree.NewIfTree("known-good"),
		tm:        types.NewTransactionManager(cfg.Transactions.MaxPending, cfg.Transactions.Timeout),
		reporter:  &reporter{metrics: m},
		observed:  make(chan targettypes.ObservedChange, cfg.ObserverQueueSize),
		metrics:   m,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// RegisterMetrics registers the datastore collectors with reg.
func (d *Datastore) RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range d.metrics.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// AddListener registers l for update events. The returned function
// removes it again.
func (d *Datastore) AddListener(l UpdateListener) func() {
	return d.reporter.addListener(l)
}

func (d *Datastore) IsRunning() bool {
	d.m.Lock()
	defer d.m.Unlock()
	return d.running
}

// DeclaredConfig returns a copy of the declared configuration.
func (d *Datastore) DeclaredConfig() *tree.IfTree {
	d.m.Lock()
	defer d.m.Unlock()
	return d.declared.Clone()
}

// SystemConfig returns a copy of the most recently pulled configuration.
func (d *Datastore) SystemConfig() *tree.IfTree {
	d.m.Lock()
	defer d.m.Unlock()
	return d.pulled.Clone()
}

// LiveConfig returns a copy of the most recently pushed configuration.
func (d *Datastore) LiveConfig() *tree.IfTree {
	d.m.Lock()
	defer d.m.Unlock()
	return d.pushed.Clone()
}

// OriginalConfig returns a copy of the substrate state at startup.
func (d *Datastore) OriginalConfig() *tree.IfTree {
	d.m.Lock()
	defer d.m.Unlock()
	return d.original.Clone()
}

// PluginStatus returns the status of every registered plugin by name.
func (d *Datastore) PluginStatus() map[string]*targettypes.PluginStatus {
	d.m.Lock()
	defer d.m.Unlock()
	result := map[string]*targettypes.PluginStatus{}
	for _, p := range d.plugins() {
		result[p.Name()] = p.Status()
	}
	return result
}

// plugins returns the registered plugins in start order.
func (d *Datastore) plugins() []targettypes.Plugin {
	var result []targettypes.Plugin
	for _, p := range d.gets {
		result = append(result, p)
	}
	for _, p := range d.sets {
		result = append(result, p)
	}
	for _, p := range d.observers {
		result = append(result, p)
	}
	for _, p := range d.vlanGets {
		result = append(result, p)
	}
	for _, p := range d.vlanSets {
		result = append(result, p)
	}
	return result
}

// Start starts the registered plugins in the order Get, Set, Observer,
// VlanGet, VlanSet and pulls the initial configuration. Get, Set and
// Observer are required, the VLAN roles are optional. If a plugin fails to
// start, the plugins started so far are stopped again.
func (d *Datastore) Start(ctx context.Context) error {
	d.m.Lock()
	defer d.m.Unlock()
	if d.running {
		return nil
	}
	switch {
	case len(d.gets) == 0:
		return fmt.Errorf("%w: no Get plugin", ErrNoBackend)
	case len(d.sets) == 0:
		return fmt.Errorf("%w: no Set plugin", ErrNoBackend)
	case len(d.observers) == 0:
		return fmt.Errorf("%w: no Observer plugin", ErrNoBackend)
	}
	log := logf.FromContext(ctx).WithName("Datastore")

	guard := types.NewTransactionGuard()
	defer guard.Done()
	for _, p := range d.plugins() {
		if err := p.Start(ctx); err != nil {
			log.Error(err, "plugin failed to start", "plugin", p.Name())
			return pluginError(p.Name(), err)
		}
		log.V(logf.VDebug).Info("plugin started", "plugin", p.Name())
		guard.Add(func() {
			if err := p.Stop(ctx); err != nil {
				log.Error(err, "failed to stop plugin", "plugin", p.Name())
			}
		})
	}
	d.running = true
	guard.Add(func() { d.running = false })

	if err := d.pullConfig(ctx); err != nil {
		return err
	}
	d.original.Set(d.pulled)
	d.pushed.Set(d.pulled)
	guard.Success()
	log.Info("started", "plugins", len(d.plugins()), "interfaces", len(d.pulled.Interfaces()))
	return nil
}

// Stop optionally restores the startup configuration and stops the plugins
// in reverse start order. Every failure is collected.
func (d *Datastore) Stop(ctx context.Context) error {
	d.m.Lock()
	defer d.m.Unlock()
	if !d.running {
		return nil
	}
	log := logf.FromContext(ctx).WithName("Datastore")
	var errs []error
	if d.config.RestoreOriginalConfigOnShutdown {
		if err := d.replaceWith(ctx, d.original); err != nil {
			log.Error(err, "failed to restore the original configuration")
			errs = append(errs, err)
		}
	}
	plugins := d.plugins()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Stop(ctx); err != nil {
			log.Error(err, "plugin failed to stop", "plugin", p.Name())
			errs = append(errs, pluginError(p.Name(), err))
		}
	}
	d.running = false
	log.Info("stopped")
	return errors.Join(errs...)
}

// replaceWith pushes t replacing whatever the substrate holds now.
func (d *Datastore) replaceWith(ctx context.Context, t *tree.IfTree) error {
	current := tree.NewIfTree("current")
	if len(d.gets) > 0 {
		if err := d.pullConfig(ctx); err != nil {
			return err
		}
		current.Set(d.pulled)
	}
	plan := t.Clone().PrepareReplacementState(current)
	return d.pushConfig(ctx, plan)
}

// PullConfig reads the substrate into the pulled tree and returns a copy.
func (d *Datastore) PullConfig(ctx context.Context) (*tree.IfTree, error) {
	d.m.Lock()
	defer d.m.Unlock()
	if err := d.pullConfig(ctx); err != nil {
		return nil, err
	}
	return d.pulled.Clone(), nil
}

// pullConfig asks the first Get plugin only. The first VlanGet plugin adds
// the VLAN membership.
func (d *Datastore) pullConfig(ctx context.Context) (err error) {
	ctx, span := d.tracer.Start(ctx, "pull-config")
	defer func() {
		d.metrics.pulls.WithLabelValues(result(err)).Inc()
		endSpan(span, err)
	}()

	d.pulled.Clear()
	if len(d.gets) == 0 {
		return ErrNoBackend
	}
	get := d.gets[0]
	if err := get.PullConfig(ctx, d.pulled); err != nil {
		return pluginError(get.Name(), err)
	}
	if len(d.vlanGets) > 0 {
		vg := d.vlanGets[0]
		if err := vg.PullVlanConfig(ctx, d.pulled); err != nil {
			return pluginError(vg.Name(), err)
		}
	}
	logf.FromContext(ctx).V(logf.VTrace).Info("pulled", "config", d.pulled.String())
	return nil
}

// PushConfig writes t through every Set plugin.
func (d *Datastore) PushConfig(ctx context.Context, t *tree.IfTree) error {
	d.m.Lock()
	defer d.m.Unlock()
	if !d.running {
		return ErrNotRunning
	}
	return d.pushConfig(ctx, t)
}

// pushConfig refreshes the baseline and calls the Set plugins in
// registration order. The live tree only changes when every plugin
// succeeded.
func (d *Datastore) pushConfig(ctx context.Context, t *tree.IfTree) (err error) {
	ctx, span := d.tracer.Start(ctx, "push-config")
	defer func() {
		d.metrics.pushes.WithLabelValues(result(err)).Inc()
		endSpan(span, err)
	}()

	if len(d.sets) == 0 {
		return fmt.Errorf("%w: no Set plugin", ErrNoBackend)
	}
	if len(d.gets) > 0 {
		if err := d.pullConfig(ctx); err != nil {
			return err
		}
	}
	for _, set := range d.sets {
		if err := set.PushConfig(ctx, t); err != nil {
			return pluginError(set.Name(), err)
		}
	}
	d.pushed.Set(t)
	d.pushed.FinalizeState()
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
