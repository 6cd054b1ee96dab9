package types

// TransactionGuard collects undo steps while a multi step action is in
// progress. Unless Success is called, Done runs them in reverse order.
type TransactionGuard struct {
	cleanups []func()
}

// NewTransactionGuard initializes the guard with optional initial undo steps.
func NewTransactionGuard(cleanups ...func()) *TransactionGuard {
	return &TransactionGuard{cleanups: cleanups}
}

// Add registers an undo step.
func (tg *TransactionGuard) Add(cleanup func()) {
	tg.cleanups = append(tg.cleanups, cleanup)
}

// Success prevents the undo steps from being called.
func (tg *TransactionGuard) Success() {
	tg.cleanups = nil
}

// Done runs the pending undo steps, last registered first.
func (tg *TransactionGuard) Done() {
	for i := len(tg.cleanups) - 1; i >= 0; i-- {
		tg.cleanups[i]()
	}
	tg.cleanups = nil
}
