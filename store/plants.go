package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ZamarianPatrick/lazypig-care/model"
)

// FetchPlantsByUser returns every plant owned by userID ordered by name.
func (s *DB) FetchPlantsByUser(ctx context.Context, userID string) ([]model.Plant, error) {
	var plants []model.Plant
	err := s.with(ctx).
		Preload("Room").
		Where("user_id = ?", userID).
		Order("name ASC, id ASC").
		Find(&plants).Error
	if err != nil {
		return nil, fmt.Errorf("fetch plants of %s: %w", userID, err)
	}
	return plants, nil
}

// FetchPlant returns nil without error when the plant does not exist.
func (s *DB) FetchPlant(ctx context.Context, plantID uint64) (*model.Plant, error) {
	var plants []model.Plant
	err := s.with(ctx).Preload("Room").Where("id = ?", plantID).Limit(1).Find(&plants).Error
	if err != nil {
		return nil, fmt.Errorf("fetch plant %d: %w", plantID, err)
	}
	if len(plants) == 0 {
		return nil, nil
	}
	return &plants[0], nil
}

func (s *DB) CountPlantsByUser(ctx context.Context, userID string) (int, error) {
	var n int64
	err := s.with(ctx).Model(&model.Plant{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count plants of %s: %w", userID, err)
	}
	return int(n), nil
}

func (s *DB) CreatePlant(ctx context.Context, plant *model.Plant) error {
	if err := s.with(ctx).Omit(clause.Associations).Create(plant).Error; err != nil {
		return fmt.Errorf("create plant: %w", err)
	}
	return nil
}

func (s *DB) SavePlant(ctx context.Context, plant *model.Plant) error {
	if err := s.with(ctx).Omit(clause.Associations).Save(plant).Error; err != nil {
		return fmt.Errorf("save plant %d: %w", plant.ID, err)
	}
	return nil
}

// DeletePlant removes the plant together with its watering history.
func (s *DB) DeletePlant(ctx context.Context, plantID uint64) error {
	err := s.with(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plant_id = ?", plantID).Delete(&model.WateringEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Plant{}, plantID).Error
	})
	if err != nil {
		return fmt.Errorf("delete plant %d: %w", plantID, err)
	}
	return nil
}

// ListUserIDsWithPlants returns every user owning at least one plant.
func (s *DB) ListUserIDsWithPlants(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.with(ctx).
		Model(&model.Plant{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list plant owners: %w", err)
	}
	return ids, nil
}
