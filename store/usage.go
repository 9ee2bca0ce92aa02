package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ZamarianPatrick/lazypig-care/model"
)

// FetchUsageRecord returns nil without error when the user has no record for
// monthKey yet.
func (s *DB) FetchUsageRecord(ctx context.Context, userID, monthKey string) (*model.UsageRecord, error) {
	var records []model.UsageRecord
	err := s.with(ctx).
		Where("user_id = ? AND month_year = ?", userID, monthKey).
		Limit(1).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("fetch usage of %s for %s: %w", userID, monthKey, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// UpsertUsageRecord creates the (user, month) record if missing and adds
// delta to its counter in a single statement, then reads the row back inside
// the same transaction. A delta of 0 only ensures the record exists.
func (s *DB) UpsertUsageRecord(ctx context.Context, userID, monthKey string, delta int) (*model.UsageRecord, error) {
	var record model.UsageRecord

	err := s.with(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		row := model.UsageRecord{
			UserID:                 userID,
			MonthYear:              monthKey,
			AIGenerationsThisMonth: delta,
			CreatedAt:              now,
			UpdatedAt:              now,
		}

		conflict := clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "month_year"}},
		}
		if delta == 0 {
			conflict.DoNothing = true
		} else {
			conflict.DoUpdates = clause.Assignments(map[string]interface{}{
				"ai_generations_this_month": gorm.Expr("ai_generations_this_month + ?", delta),
				"updated_at":                now,
			})
		}

		if err := tx.Clauses(conflict).Create(&row).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ? AND month_year = ?", userID, monthKey).Take(&record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("upsert usage of %s for %s: %w", userID, monthKey, err)
	}

	return &record, nil
}
