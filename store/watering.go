package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ZamarianPatrick/lazypig-care/model"
)

// FetchMostRecentWateringEvent returns nil without error for a plant that has
// never been watered.
func (s *DB) FetchMostRecentWateringEvent(ctx context.Context, plantID uint64) (*model.WateringEvent, error) {
	var events []model.WateringEvent
	err := s.with(ctx).
		Where("plant_id = ?", plantID).
		Order("watered_at DESC, id DESC").
		Limit(1).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("fetch last watering of plant %d: %w", plantID, err)
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// AppendWateringEvent records a watering. Events are never updated.
func (s *DB) AppendWateringEvent(ctx context.Context, plantID uint64, wateredAt time.Time) (*model.WateringEvent, error) {
	event := &model.WateringEvent{
		PlantID:   plantID,
		WateredAt: wateredAt.UTC(),
	}
	if err := s.with(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("append watering of plant %d: %w", plantID, err)
	}
	return event, nil
}

// ListWateringEvents returns the newest events first. limit <= 0 returns all.
func (s *DB) ListWateringEvents(ctx context.Context, plantID uint64, limit int) ([]model.WateringEvent, error) {
	q := s.with(ctx).
		Where("plant_id = ?", plantID).
		Order("watered_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var events []model.WateringEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list waterings of plant %d: %w", plantID, err)
	}
	return events, nil
}
