package types

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sdcio/fea-server/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addIfOp struct {
	name string
	fail bool
}

func (o *addIfOp) Dispatch(_ context.Context, t *tree.IfTree) error {
	if o.fail {
		return errors.New("boom")
	}
	return t.AddInterface(o.name)
}

func (o *addIfOp) String() string {
	return fmt.Sprintf("AddInterface: %s", o.name)
}

func TestTransactionManager_ResourceBound(t *testing.T) {
	ctx := context.Background()
	tm := NewTransactionManager(DefaultMaxPending, DefaultTimeout)

	ids := map[uint32]struct{}{}
	for i := 0; i < DefaultMaxPending; i++ {
		id, err := tm.Start(ctx)
		require.NoError(t, err)
		ids[id] = struct{}{}
	}
	assert.Len(t, ids, DefaultMaxPending)

	_, err := tm.Start(ctx)
	assert.ErrorIs(t, err, ErrResourceExhausted)

	// freeing one slot allows a new start
	for id := range ids {
		require.NoError(t, tm.Abort(ctx, id))
		break
	}
	_, err = tm.Start(ctx)
	assert.NoError(t, err)
}

func TestTransactionManager_Commit(t *testing.T) {
	tests := []struct {
		name           string
		ops            []*addIfOp
		wantErr        bool
		wantFirstError string
		wantIfs        []string
	}{
		{
			name:    "all succeed",
			ops:     []*addIfOp{{name: "eth0"}, {name: "eth1"}},
			wantIfs: []string{"eth0", "eth1"},
		},
		{
			name:           "second fails, third not applied",
			ops:            []*addIfOp{{name: "eth0"}, {name: "eth1", fail: true}, {name: "eth2"}},
			wantErr:        true,
			wantFirstError: "AddInterface: eth1",
			wantIfs:        []string{"eth0"},
		},
		{
			name:    "empty transaction",
			wantIfs: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tm := NewTransactionManager(DefaultMaxPending, DefaultTimeout)
			target := tree.NewIfTree("target")

			id, err := tm.Start(ctx)
			require.NoError(t, err)
			for _, op := range tt.ops {
				require.NoError(t, tm.AddOperation(ctx, id, op))
			}

			err = tm.Commit(ctx, id, target)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOperationFailed)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantFirstError, tm.FirstError())

			got := []string{}
			for _, ifp := range target.Interfaces() {
				got = append(got, ifp.Name())
			}
			assert.Equal(t, tt.wantIfs, got)

			// the transaction is gone after commit
			assert.ErrorIs(t, tm.Commit(ctx, id, target), ErrInvalidTransaction)
			assert.Equal(t, 0, tm.OpenTransactions())
		})
	}
}

func TestTransactionManager_FirstErrorClearedOnCommit(t *testing.T) {
	ctx := context.Background()
	tm := NewTransactionManager(DefaultMaxPending, DefaultTimeout)
	target := tree.NewIfTree("target")

	id, _ := tm.Start(ctx)
	require.NoError(t, tm.AddOperation(ctx, id, &addIfOp{name: "eth0", fail: true}))
	require.Error(t, tm.Commit(ctx, id, target))
	require.Equal(t, "AddInterface: eth0", tm.FirstError())

	id, _ = tm.Start(ctx)
	require.NoError(t, tm.AddOperation(ctx, id, &addIfOp{name: "eth0"}))
	require.NoError(t, tm.Commit(ctx, id, target))
	assert.Empty(t, tm.FirstError())
}

func TestTransactionManager_InvalidId(t *testing.T) {
	ctx := context.Background()
	tm := NewTransactionManager(DefaultMaxPending, DefaultTimeout)

	assert.ErrorIs(t, tm.AddOperation(ctx, 42, &addIfOp{name: "eth0"}), ErrInvalidTransaction)
	assert.ErrorIs(t, tm.Abort(ctx, 42), ErrInvalidTransaction)
	assert.ErrorIs(t, tm.Commit(ctx, 42, tree.NewIfTree("x")), ErrInvalidTransaction)

	id, err := tm.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, tm.Abort(ctx, id))
	assert.ErrorIs(t, tm.AddOperation(ctx, id, &addIfOp{name: "eth0"}), ErrInvalidTransaction)
}

func TestTransactionManager_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tm := NewTransactionManager(DefaultMaxPending, DefaultTimeout)
	tm.now = func() time.Time { return now }

	stale, _ := tm.Start(ctx)
	now = now.Add(3 * time.Second)
	fresh, _ := tm.Start(ctx)

	now = now.Add(3 * time.Second)
	// activity on the fresh one pushes its deadline
	require.NoError(t, tm.AddOperation(ctx, fresh, &addIfOp{name: "eth0"}))

	assert.Equal(t, 1, tm.Sweep(ctx))
	assert.Equal(t, 1, tm.OpenTransactions())
	assert.ErrorIs(t, tm.Abort(ctx, stale), ErrInvalidTransaction)

	// an expired transaction is refused even before the sweep ran
	now = now.Add(DefaultTimeout + time.Second)
	assert.ErrorIs(t, tm.Commit(ctx, fresh, tree.NewIfTree("x")), ErrInvalidTransaction)
}

func TestTransactionManager_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tm := NewTransactionManager(DefaultMaxPending, time.Millisecond)

	_, err := tm.Start(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		tm.Run(ctx, 5*time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return tm.OpenTransactions() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestTransactionGuard(t *testing.T) {
	order := []int{}
	g := NewTransactionGuard(func() { order = append(order, 1) })
	g.Add(func() { order = append(order, 2) })
	g.Done()
	assert.Equal(t, []int{2, 1}, order)

	called := false
	g = NewTransactionGuard(func() { called = true })
	g.Success()
	g.Done()
	assert.False(t, called)
}
