package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ZamarianPatrick/lazypig-care/model"
)

func (s *DB) CreateRoom(ctx context.Context, room *model.Room) error {
	if err := s.with(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (s *DB) SaveRoom(ctx context.Context, room *model.Room) error {
	if err := s.with(ctx).Save(room).Error; err != nil {
		return fmt.Errorf("save room %d: %w", room.ID, err)
	}
	return nil
}

// FetchRoom returns nil without error when the room does not exist.
func (s *DB) FetchRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
	var rooms []model.Room
	if err := s.with(ctx).Where("id = ?", roomID).Limit(1).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("fetch room %d: %w", roomID, err)
	}
	if len(rooms) == 0 {
		return nil, nil
	}
	return &rooms[0], nil
}

func (s *DB) FetchRoomsByUser(ctx context.Context, userID string) ([]model.Room, error) {
	var rooms []model.Room
	err := s.with(ctx).Where("user_id = ?", userID).Order("name ASC, id ASC").Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("fetch rooms of %s: %w", userID, err)
	}
	return rooms, nil
}

// DeleteRoom unassigns the room's plants and removes the room. Plants are
// kept.
func (s *DB) DeleteRoom(ctx context.Context, roomID uint64) error {
	err := s.with(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Plant{}).
			Where("room_id = ?", roomID).
			Update("room_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&model.Room{}, roomID).Error
	})
	if err != nil {
		return fmt.Errorf("delete room %d: %w", roomID, err)
	}
	return nil
}
