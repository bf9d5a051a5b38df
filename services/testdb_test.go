package services

import (
	"testing"

	"havana-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database per test. Single connection so
// the database survives for the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.GSTRate{},
		&models.Room{},
		&models.Booking{},
		&models.Checkout{},
		&models.Invoice{},
		&models.Payment{},
		&models.Vendor{},
		&models.PantryItem{},
		&models.KitchenStoreItem{},
		&models.PantryOrder{},
		&models.KitchenOrder{},
		&models.RestaurantOrder{},
		&models.RoomServiceOrder{},
		&models.LaundryOrder{},
		&models.RoomInspection{},
	))
	return db
}
