// Package storetest opens throwaway in-memory stores for tests.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ZamarianPatrick/lazypig-care/model"
	"github.com/ZamarianPatrick/lazypig-care/store"
)

// Open returns a migrated store backed by a private in-memory database that
// is closed when the test ends.
func Open(t testing.TB) *store.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	s, err := store.New(db)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Plant inserts a plant for userID with the given name and frequency.
func Plant(t testing.TB, s *store.DB, userID, name string, frequencyDays int) *model.Plant {
	t.Helper()

	p := &model.Plant{
		UserID:                userID,
		Name:                  name,
		WateringFrequencyDays: frequencyDays,
	}
	require.NoError(t, s.CreatePlant(context.Background(), p))
	return p
}
