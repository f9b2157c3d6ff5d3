package postgres

import (
	"fmt"

	"dispatch/internal/adapters/out/postgres/fleetrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/receiptrepo"
	"dispatch/internal/adapters/out/postgres/runrepo"
	"dispatch/internal/adapters/out/postgres/zonerepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema, including the partial unique
// indexes AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&zonerepo.ZoneDTO{},
		&orderrepo.OrderDTO{},
		&runrepo.RunDTO{},
		&fleetrepo.DriverDTO{},
		&fleetrepo.VehicleDTO{},
		&receiptrepo.ReceiptDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, ddl := range runrepo.IndexDDL() {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
