package types

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sdcio/fea-server/pkg/tree"
	logf "github.com/sdcio/logger"
)

var (
	ErrResourceExhausted  error = errors.New("too many open transactions")
	ErrInvalidTransaction error = errors.New("invalid transaction")
	ErrOperationFailed    error = errors.New("operation failed")
)

const (
	DefaultMaxPending = 10
	DefaultTimeout    = 5 * time.Second
)

// TransactionManager keeps the open transactions and executes them one
// commit at a time.
type TransactionManager struct {
	tmMutex      *sync.Mutex
	commitMutex  *sync.Mutex
	transactions map[uint32]*Transaction
	nextId       uint32
	maxPending   int
	timeout      time.Duration
	firstError   string
	now          func() time.Time
}

func NewTransactionManager(maxPending int, timeout time.Duration) *TransactionManager {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &TransactionManager{
		tmMutex:      &sync.Mutex{},
		commitMutex:  &sync.Mutex{},
		transactions: map[uint32]*Transaction{},
		maxPending:   maxPending,
		timeout:      timeout,
		now:          time.Now,
	}
}

// Start opens a new transaction and returns its id.
func (t *TransactionManager) Start(ctx context.Context) (uint32, error) {
	t.tmMutex.Lock()
	defer t.tmMutex.Unlock()
	if len(t.transactions) >= t.maxPending {
		return 0, fmt.Errorf("%w: limit of %d reached", ErrResourceExhausted, t.maxPending)
	}
	id := t.allocateId()
	t.transactions[id] = NewTransaction(id, t.now())

	log := logf.FromContext(ctx)
	log.V(logf.VDebug).Info("transaction started", "transaction-id", id, "open", len(t.transactions))
	return id, nil
}

// allocateId requires the caller to hold tmMutex.
func (t *TransactionManager) allocateId() uint32 {
	for {
		t.nextId++
		if t.nextId == 0 {
			continue
		}
		if _, exists := t.transactions[t.nextId]; !exists {
			return t.nextId
		}
	}
}

// getTransaction requires the caller to hold tmMutex. Expired transactions
// are dropped on access.
func (t *TransactionManager) getTransaction(id uint32) (*Transaction, error) {
	trans, exists := t.transactions[id]
	if !exists {
		return nil, fmt.Errorf("%w: transaction id %d is unknown", ErrInvalidTransaction, id)
	}
	if trans.expired(t.now(), t.timeout) {
		delete(t.transactions, id)
		return nil, fmt.Errorf("%w: transaction id %d expired", ErrInvalidTransaction, id)
	}
	return trans, nil
}

// AddOperation queues op in the open transaction.
func (t *TransactionManager) AddOperation(ctx context.Context, id uint32, op Operation) error {
	t.tmMutex.Lock()
	defer t.tmMutex.Unlock()
	trans, err := t.getTransaction(id)
	if err != nil {
		return err
	}
	trans.addOperation(op, t.now())
	logf.FromContext(ctx).V(logf.VTrace).Info("operation added", "transaction-id", id, "operation", op.String())
	return nil
}

// Abort discards the transaction.
func (t *TransactionManager) Abort(ctx context.Context, id uint32) error {
	t.tmMutex.Lock()
	defer t.tmMutex.Unlock()
	if _, err := t.getTransaction(id); err != nil {
		return err
	}
	delete(t.transactions, id)
	logf.FromContext(ctx).V(logf.VDebug).Info("transaction aborted", "transaction-id", id)
	return nil
}

// Commit executes the queued operations of the transaction against target
// in submission order. The first failing operation is recorded as the
// first error and the remaining operations are discarded.
func (t *TransactionManager) Commit(ctx context.Context, id uint32, target *tree.IfTree) error {
	t.commitMutex.Lock()
	defer t.commitMutex.Unlock()

	t.tmMutex.Lock()
	trans, err := t.getTransaction(id)
	if err == nil {
		delete(t.transactions, id)
	}
	t.firstError = ""
	t.tmMutex.Unlock()
	if err != nil {
		return err
	}

	log := logf.FromContext(ctx).WithValues("transaction-id", trans.transactionId)
	for _, op := range trans.GetOperations() {
		log.V(logf.VTrace).Info("dispatching", "operation", op.String())
		if err := op.Dispatch(ctx, target); err != nil {
			t.tmMutex.Lock()
			t.firstError = op.String()
			t.tmMutex.Unlock()
			flushed := trans.flush()
			log.Info("transaction operation failed", "operation", op.String(), "error", err, "flushed", flushed)
			return fmt.Errorf("%w: %s: %v", ErrOperationFailed, op.String(), err)
		}
	}
	log.V(logf.VDebug).Info("transaction committed", "operations", len(trans.GetOperations()))
	return nil
}

// FirstError returns the description of the operation that failed during the
// most recent commit, or an empty string.
func (t *TransactionManager) FirstError() string {
	t.tmMutex.Lock()
	defer t.tmMutex.Unlock()
	return t.firstError
}

// OpenTransactions returns the number of open transactions.
func (t *TransactionManager) OpenTransactions() int {
	t.tmMutex.Lock()
	defer t.tmMutex.Unlock()
	return len(t.transactions)
}

// Sweep drops the transactions that stayed open longer than the timeout and
// returns how many were dropped.
func (t *TransactionManager) Sweep(ctx context.Context) int {
	t.tmMutex.Lock()
	defer t.tmMutex.Unlock()
	now := t.now()
	count := 0
	for id, trans := range t.transactions {
		if trans.expired(now, t.timeout) {
			delete(t.transactions, id)
			count++
			logf.FromContext(ctx).Info("transaction timed out", "transaction-id", id)
		}
	}
	return count
}

// Run sweeps stale transactions every interval until ctx is done.
func (t *TransactionManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep(ctx)
		}
	}
}
