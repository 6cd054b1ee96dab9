package types

import (
	"context"
	"time"

	"github.com/sdcio/fea-server/pkg/tree"
)

// Operation is a single unit of work queued in a transaction.
type Operation interface {
	// Dispatch applies the operation to the target tree.
	Dispatch(ctx context.Context, t *tree.IfTree) error
	// String describes the operation, it is recorded as the first error of a
	// failing commit.
	String() string
}

type Transaction struct {
	transactionId uint32      // ID that identifies the Transaction
	ops           []Operation // queued operations in submission order
	lastActivity  time.Time   // refreshed on every added operation, drives expiry
}

func NewTransaction(id uint32, now time.Time) *Transaction {
	return &Transaction{
		transactionId: id,
		ops:           []Operation{},
		lastActivity:  now,
	}
}

func (t *Transaction) GetOperations() []Operation {
	return t.ops
}

func (t *Transaction) addOperation(op Operation, now time.Time) {
	t.ops = append(t.ops, op)
	t.lastActivity = now
}

func (t *Transaction) expired(now time.Time, timeout time.Duration) bool {
	return timeout > 0 && now.Sub(t.lastActivity) > timeout
}

// flush drops the queued operations.
func (t *Transaction) flush() int {
	n := len(t.ops)
	t.ops = nil
	return n
}
