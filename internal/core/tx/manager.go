// Package tx provides transaction management abstractions.
// This package defines interfaces that decouple the ledger core from specific
// database implementations, following the Dependency Inversion Principle.
package tx

import (
	"context"
)

// Manager defines the contract for the ledger's unit of work.
// Implementations handle BEGIN, COMMIT, ROLLBACK, and nested transaction support.
//
// Every Ledger Service operation runs inside exactly one unit of work: the
// allocate-then-persist sequence either commits as a whole or leaves no
// partial writes behind.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Use for valuation queries that don't modify data (no locks taken).
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	// Attempts to modify data will fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
