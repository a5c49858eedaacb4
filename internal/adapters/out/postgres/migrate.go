package postgres

import (
	"qrcafe/internal/adapters/out/postgres/menurepo"
	"qrcafe/internal/adapters/out/postgres/orderrepo"
	"qrcafe/internal/adapters/out/postgres/staffrepo"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables of every repository.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&menurepo.MenuItemDTO{},
		&staffrepo.StaffMemberDTO{},
	)
}
