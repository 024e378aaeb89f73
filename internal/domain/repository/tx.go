package repository

import "context"

// TxManager runs a function inside one database transaction. Every mutating
// ledger operation executes read-compute-write as a unit: either all of its
// writes commit or none do. Repositories called with the context passed to fn
// participate in the same transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
