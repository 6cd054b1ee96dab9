package datastore

import (
	"context"
	"sync"
	"time"

	targettypes "github.com/sdcio/fea-server/pkg/datastore/target/types"
	logf "github.com/sdcio/logger"
)

// ObservedChange queues a change decoded by an Observer plugin. It blocks
// while the queue is full.
func (d *Datastore) ObservedChange(ctx context.Context, change targettypes.ObservedChange) {
	select {
	case d.observed <- change:
	case <-ctx.Done():
		logf.FromContext(ctx).Info("dropping observed change", "error", ctx.Err())
		d.metrics.observed.WithLabelValues("dropped").Inc()
	}
}

// Run applies the queued observed changes and sweeps stale transactions
// until ctx is done.
func (d *Datastore) Run(ctx context.Context) {
	log := logf.FromContext(ctx).WithName("Datastore")
	interval := d.config.Transactions.SweepInterval
	if interval <= 0 {
		interval = time.Second
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.tm.Run(ctx, interval)
	}()
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-d.observed:
			if err := d.applyObservedChange(ctx, change); err != nil {
				log.Error(err, "failed to apply observed change")
			}
		}
	}
}

// applyObservedChange updates the pulled tree with the change, merges the
// system owned parts into the live tree and reports them.
func (d *Datastore) applyObservedChange(ctx context.Context, change targettypes.ObservedChange) (err error) {
	ctx, span := d.tracer.Start(ctx, "observed-change")
	defer func() {
		d.metrics.observed.WithLabelValues(result(err)).Inc()
		endSpan(span, err)
	}()

	d.m.Lock()
	defer d.m.Unlock()
	if !d.running {
		return ErrNotRunning
	}
	defer d.pulled.FinalizeState()
	if err := change(d.pulled); err != nil {
		return err
	}
	d.pushed.AlignWithObservedChanges(d.pulled, d.declared)
	d.reporter.report(ctx, d.pushed)
	d.pushed.FinalizeState()
	logf.FromContext(ctx).V(logf.VTrace).Info("observed change applied", "live", d.pushed.String())
	return nil
}
