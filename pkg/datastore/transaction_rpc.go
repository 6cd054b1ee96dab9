package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore/ops"
	"github.com/sdcio/fea-server/pkg/datastore/types"
	"github.com/sdcio/fea-server/pkg/tree"
	logf "github.com/sdcio/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartTransaction opens a transaction and returns its id.
func (d *Datastore) StartTransaction(ctx context.Context) (uint32, error) {
	return d.tm.Start(ctx)
}

func (d *Datastore) AddTransactionOperation(ctx context.Context, tid uint32, op types.Operation) error {
	return d.tm.AddOperation(ctx, tid, op)
}

func (d *Datastore) AbortTransaction(ctx context.Context, tid uint32) error {
	return d.tm.Abort(ctx, tid)
}

// TransactionError returns the description of the operation that failed
// during the most recent commit.
func (d *Datastore) TransactionError() string {
	return d.tm.FirstError()
}

// CommitTransaction applies the transaction to the declared configuration
// and pushes the result. The pushed configuration is read back and the
// declared configuration aligned with it. A failed push or read-back is
// reversed by pushing the configuration pulled before the commit. Updates
// are only reported for a successful commit.
func (d *Datastore) CommitTransaction(ctx context.Context, tid uint32) (err error) {
	ctx, span := d.tracer.Start(ctx, "commit-transaction", trace.WithAttributes(attribute.Int64("transaction.id", int64(tid))))
	start := time.Now()
	defer func() {
		d.metrics.commits.WithLabelValues(result(err)).Inc()
		d.metrics.commitDuration.Observe(time.Since(start).Seconds())
		endSpan(span, err)
	}()

	d.m.Lock()
	defer d.m.Unlock()
	log := logf.FromContext(ctx).WithName("Datastore").WithValues("transaction-id", tid)
	ctx = logf.IntoContext(ctx, log)
	if !d.running {
		// the transaction is consumed either way
		_ = d.tm.Abort(ctx, tid)
		return ErrNotRunning
	}

	// baseline for the operations and for a reversal
	if err := d.pullConfig(ctx); err != nil {
		_ = d.tm.Abort(ctx, tid)
		return err
	}
	baseline := d.pulled.Clone()

	working := d.declared.Clone()
	if err := d.tm.Commit(ops.WithSystemConfig(ctx, baseline), tid, working); err != nil {
		log.Info("transaction rejected", "error", err)
		return err
	}
	d.declared.Set(working)
	log.V(logf.VDebug).Info("transaction applied", "declared", d.declared.String())

	var failure error
	if pushErr := d.pushConfig(ctx, d.declared); pushErr != nil {
		log.Error(pushErr, "push failed, reverting to the previous configuration")
		failure = pushErr
	} else if pullErr := d.pullConfig(ctx); pullErr != nil {
		log.Error(pullErr, "failed to verify the pushed configuration, reverting to the previous configuration")
		failure = pullErr
	} else {
		d.declared.AlignWith(d.pulled)
	}

	if failure != nil {
		if rbErr := d.revert(ctx, baseline); rbErr != nil {
			log.Error(rbErr, "reversal failed")
			failure = fmt.Errorf("%w [also failed to reverse-back to the previous config: %v]", failure, rbErr)
		}
		d.declared.Set(d.knownGood)
		if err := d.pullConfig(ctx); err == nil {
			d.declared.AlignWith(d.pulled)
		}
	}
	d.declared.PruneBogusDeletedState(d.knownGood)

	if failure == nil {
		d.reporter.report(ctx, d.declared)
	}
	d.declared.FinalizeState()
	if failure != nil {
		return failure
	}
	d.knownGood.Set(d.declared)
	d.knownGood.FinalizeState()
	log.Info("transaction committed")
	return nil
}

// ApplyInterfaces commits the records as one transaction.
func (d *Datastore) ApplyInterfaces(ctx context.Context, records []*config.InterfaceConfig) error {
	tid, err := d.StartTransaction(ctx)
	if err != nil {
		return err
	}
	for _, ic := range records {
		for _, op := range ops.FromInterfaceConfig(ic) {
			if err := d.AddTransactionOperation(ctx, tid, op); err != nil {
				_ = d.AbortTransaction(ctx, tid)
				return err
			}
		}
	}
	return d.CommitTransaction(ctx, tid)
}

// revert pushes baseline as a replacement of the current substrate state.
func (d *Datastore) revert(ctx context.Context, baseline *tree.IfTree) (err error) {
	defer func() { d.metrics.rollbacks.WithLabelValues(result(err)).Inc() }()
	return d.replaceWith(ctx, baseline)
}
