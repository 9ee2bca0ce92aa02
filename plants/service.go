// Package plants manages a user's plants and rooms.
package plants

import (
	"context"
	"time"

	"github.com/ZamarianPatrick/lazypig-care/domain"
	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/metrics"
	"github.com/ZamarianPatrick/lazypig-care/model"
	"github.com/ZamarianPatrick/lazypig-care/schedule"
)

type Store interface {
	FetchPlantsByUser(ctx context.Context, userID string) ([]model.Plant, error)
	FetchPlant(ctx context.Context, plantID uint64) (*model.Plant, error)
	FetchMostRecentWateringEvent(ctx context.Context, plantID uint64) (*model.WateringEvent, error)
	CreatePlant(ctx context.Context, plant *model.Plant) error
	SavePlant(ctx context.Context, plant *model.Plant) error
	DeletePlant(ctx context.Context, plantID uint64) error

	CreateRoom(ctx context.Context, room *model.Room) error
	SaveRoom(ctx context.Context, room *model.Room) error
	FetchRoom(ctx context.Context, roomID uint64) (*model.Room, error)
	FetchRoomsByUser(ctx context.Context, userID string) ([]model.Room, error)
	DeleteRoom(ctx context.Context, roomID uint64) error
}

// QuotaGuard refuses new plants past the per-user limit.
type QuotaGuard interface {
	RequirePlantSlot(ctx context.Context, userID string) error
}

// Invalidator drops derived per-user views after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type Service struct {
	store   Store
	quota   QuotaGuard
	cache   Invalidator
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Options struct {
	Invalidator Invalidator
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

func NewService(store Store, quota QuotaGuard, log logger.Logger, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		store:   store,
		quota:   quota,
		cache:   opts.Invalidator,
		log:     log.Component("plants"),
		metrics: opts.Metrics,
		now:     opts.Now,
	}
}

func (s *Service) CreatePlant(ctx context.Context, userID string, input model.PlantInput) (*model.Plant, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}
	if err := s.checkRoom(ctx, userID, input.RoomID); err != nil {
		return nil, err
	}
	if err := s.quota.RequirePlantSlot(ctx, userID); err != nil {
		return nil, err
	}

	plant := &model.Plant{UserID: userID}
	apply(plant, input)

	if err := s.store.CreatePlant(ctx, plant); err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}

	s.metrics.PlantCreated("manual")
	s.log.Info("plant created", "user_id", userID, "plant_id", plant.ID)
	s.invalidate(ctx, userID)
	return plant, nil
}

func (s *Service) UpdatePlant(ctx context.Context, userID string, plantID uint64, input model.PlantInput) (*model.Plant, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	plant, err := s.ownedPlant(ctx, userID, plantID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRoom(ctx, userID, input.RoomID); err != nil {
		return nil, err
	}

	apply(plant, input)
	plant.Room = nil

	if err := s.store.SavePlant(ctx, plant); err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}

	s.invalidate(ctx, userID)
	return plant, nil
}

// DeletePlant removes the plant together with its watering history.
func (s *Service) DeletePlant(ctx context.Context, userID string, plantID uint64) error {
	if _, err := s.ownedPlant(ctx, userID, plantID); err != nil {
		return err
	}

	if err := s.store.DeletePlant(ctx, plantID); err != nil {
		return domain.NewStoreUnavailableError(err)
	}

	s.log.Info("plant deleted", "user_id", userID, "plant_id", plantID)
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) GetPlant(ctx context.Context, userID string, plantID uint64) (*model.PlantWithStatus, error) {
	plant, err := s.ownedPlant(ctx, userID, plantID)
	if err != nil {
		return nil, err
	}

	return s.withStatus(ctx, *plant, s.now())
}

// ListPlants returns all plants of the user ordered by name.
func (s *Service) ListPlants(ctx context.Context, userID string) ([]model.PlantWithStatus, error) {
	plants, err := s.store.FetchPlantsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}

	now := s.now()
	out := make([]model.PlantWithStatus, 0, len(plants))
	for _, p := range plants {
		ps, err := s.withStatus(ctx, p, now)
		if err != nil {
			return nil, err
		}
		out = append(out, *ps)
	}
	return out, nil
}

func (s *Service) withStatus(ctx context.Context, p model.Plant, now time.Time) (*model.PlantWithStatus, error) {
	latest, err := s.store.FetchMostRecentWateringEvent(ctx, p.ID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}

	return &model.PlantWithStatus{
		Plant:    p,
		Schedule: schedule.ForPlant(p, latest, now),
	}, nil
}

func (s *Service) ownedPlant(ctx context.Context, userID string, plantID uint64) (*model.Plant, error) {
	plant, err := s.store.FetchPlant(ctx, plantID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}
	if plant == nil || plant.UserID != userID {
		return nil, domain.NewNotFoundOrUnauthorizedError("plant")
	}
	return plant, nil
}

// checkRoom rejects a room the user does not own. A nil room is fine.
func (s *Service) checkRoom(ctx context.Context, userID string, roomID *uint64) error {
	if roomID == nil {
		return nil
	}

	room, err := s.store.FetchRoom(ctx, *roomID)
	if err != nil {
		return domain.NewStoreUnavailableError(err)
	}
	if room == nil || room.UserID != userID {
		return domain.NewFieldError("roomID", "must reference one of your rooms")
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}

func apply(p *model.Plant, in model.PlantInput) {
	p.Name = in.Name
	p.ScientificName = in.ScientificName
	p.WateringFrequencyDays = in.WateringFrequencyDays
	p.RoomID = in.RoomID
	p.PhotoURL = in.PhotoURL
	p.CareWatering = in.CareWatering
	p.CareLight = in.CareLight
	p.CareHumidity = in.CareHumidity
	p.CareTemperature = in.CareTemperature
	p.CareNotes = in.CareNotes
}
