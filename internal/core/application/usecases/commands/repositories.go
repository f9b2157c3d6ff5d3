// Package commands contains dispatch operations that modify system state.
// Every handler validates its command, opens a unit of work, and commits
// only after all repository writes succeed.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces scope each handler to the repositories it writes.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ZoneRepoFactory interface {
		ZoneRepository() ports.ZoneRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	RunRepoFactory interface {
		RunRepository() ports.RunRepository
	}

	FleetRepoFactory interface {
		FleetRepository() ports.FleetRepository
	}

	// ZoneUoW is used by template application.
	ZoneUoW interface {
		TxManager
		ZoneRepoFactory
	}

	ZoneUoWFactory interface {
		Create() ZoneUoW
	}

	// OrderUoW is used by order intake and geocoding.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// FleetUoW is used by driver and vehicle registration.
	FleetUoW interface {
		TxManager
		FleetRepoFactory
	}

	FleetUoWFactory interface {
		Create() FleetUoW
	}

	// UoW spans every aggregate touched by dispatch planning and run
	// assignment.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   r, err := uow.RunRepository().GetForUpdate(ctx, runID)
	//   orders, err := uow.OrderRepository().ListByRun(ctx, runID)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ZoneRepoFactory
		OrderRepoFactory
		RunRepoFactory
		FleetRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
