package plants

import (
	"context"

	"github.com/ZamarianPatrick/lazypig-care/domain"
	"github.com/ZamarianPatrick/lazypig-care/model"
)

func (s *Service) CreateRoom(ctx context.Context, userID string, input model.RoomInput) (*model.Room, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	room := &model.Room{UserID: userID, Name: input.Name}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}
	return room, nil
}

func (s *Service) RenameRoom(ctx context.Context, userID string, roomID uint64, input model.RoomInput) (*model.Room, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	room, err := s.ownedRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	room.Name = input.Name
	if err := s.store.SaveRoom(ctx, room); err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}

	s.invalidate(ctx, userID)
	return room, nil
}

// DeleteRoom removes the room. Its plants stay, without a room.
func (s *Service) DeleteRoom(ctx context.Context, userID string, roomID uint64) error {
	if _, err := s.ownedRoom(ctx, userID, roomID); err != nil {
		return err
	}

	if err := s.store.DeleteRoom(ctx, roomID); err != nil {
		return domain.NewStoreUnavailableError(err)
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) ListRooms(ctx context.Context, userID string) ([]model.Room, error) {
	rooms, err := s.store.FetchRoomsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}
	return rooms, nil
}

func (s *Service) ownedRoom(ctx context.Context, userID string, roomID uint64) (*model.Room, error) {
	room, err := s.store.FetchRoom(ctx, roomID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}
	if room == nil || room.UserID != userID {
		return nil, domain.NewNotFoundOrUnauthorizedError("room")
	}
	return room, nil
}
