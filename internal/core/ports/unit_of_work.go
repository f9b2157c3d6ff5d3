package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per command so concurrent
// commands never share a transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork spans one dispatch transaction. Repositories obtained from it
// write through the transaction opened by Begin; without Begin they run on
// the plain connection.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	// Commit fails when no transaction is open.
	Commit(ctx context.Context) error
	// Rollback after Commit reports an error that deferred callers ignore.
	Rollback(ctx context.Context) error

	ZoneRepository() ZoneRepository
	OrderRepository() OrderRepository
	RunRepository() RunRepository
	FleetRepository() FleetRepository
}
