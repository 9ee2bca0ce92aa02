package wizard

import (
	"context"
	"strings"

	"github.com/ZamarianPatrick/lazypig-care/domain"
	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/metrics"
	"github.com/ZamarianPatrick/lazypig-care/model"
	"github.com/ZamarianPatrick/lazypig-care/quota"
	"github.com/ZamarianPatrick/lazypig-care/store"
)

// MaxPhotoBytes bounds the photo sent to the provider.
const MaxPhotoBytes = 10 << 20

type Input struct {
	Photo Image

	// Name replaces the identified common name when set.
	Name   string
	RoomID *uint64
}

type Store interface {
	FetchRoom(ctx context.Context, roomID uint64) (*model.Room, error)
	Transaction(ctx context.Context, fn func(tx *store.DB) error) error
}

type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type Service struct {
	store    Store
	quota    *quota.Tracker
	provider Provider
	cache    Invalidator
	log      logger.Logger
	metrics  *metrics.Metrics
}

type Options struct {
	Invalidator Invalidator
	Metrics     *metrics.Metrics
}

func NewService(store Store, tracker *quota.Tracker, provider Provider, log logger.Logger, opts Options) *Service {
	return &Service{
		store:    store,
		quota:    tracker,
		provider: provider,
		cache:    opts.Invalidator,
		log:      log.Component("wizard", "provider", provider.Name()),
		metrics:  opts.Metrics,
	}
}

// CreatePlant identifies the photo, generates care instructions and stores
// the resulting plant. One AI generation is counted only when the plant was
// stored.
func (s *Service) CreatePlant(ctx context.Context, userID string, in Input) (*model.Plant, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if err := s.quota.RequireAIGeneration(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.quota.RequirePlantSlot(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.checkRoom(ctx, userID, in.RoomID); err != nil {
		return nil, err
	}

	id, err := s.provider.Identify(ctx, in.Photo)
	if err != nil {
		s.log.Warn("identification failed", "user_id", userID, "error", err)
		return nil, domain.NewAIUnavailableError(err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = id.Name
	}

	care, err := s.provider.GenerateCare(ctx, name)
	if err != nil {
		s.log.Warn("care generation failed", "user_id", userID, "plant", name, "error", err)
		return nil, domain.NewAIUnavailableError(err)
	}

	plant := &model.Plant{
		UserID:                userID,
		Name:                  truncate(name, model.MaxPlantNameLength),
		ScientificName:        id.ScientificName,
		WateringFrequencyDays: clampFrequency(care.WateringFrequencyDays),
		RoomID:                in.RoomID,
		CareWatering:          care.Watering,
		CareLight:             care.Light,
		CareHumidity:          care.Humidity,
		CareTemperature:       care.Temperature,
		CareNotes:             care.Notes,
		CreatedByAI:           true,
	}

	var used int
	err = s.store.Transaction(ctx, func(tx *store.DB) error {
		txQuota := s.quota.WithStore(tx)

		// Concurrent wizard runs may have used the allowance meanwhile.
		if err := txQuota.RequireAIGeneration(ctx, userID); err != nil {
			return err
		}
		if err := txQuota.RequirePlantSlot(ctx, userID); err != nil {
			return err
		}

		if err := tx.CreatePlant(ctx, plant); err != nil {
			return domain.NewStoreUnavailableError(err)
		}

		n, err := txQuota.IncrementAIUsage(ctx, userID)
		if err != nil {
			return err
		}
		used = n
		return nil
	})
	if err != nil {
		if _, ok := domain.AsDomainError(err); ok {
			return nil, err
		}
		return nil, domain.NewStoreUnavailableError(err)
	}

	s.metrics.PlantCreated("ai")
	s.log.Info("plant created by wizard", "user_id", userID, "plant_id", plant.ID, "name", plant.Name, "ai_generations_used", used)

	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return plant, nil
}

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

func validateInput(in Input) error {
	fields := map[string]string{}

	switch {
	case len(in.Photo.Data) == 0:
		fields["photo"] = "is required"
	case len(in.Photo.Data) > MaxPhotoBytes:
		fields["photo"] = "must be at most 10 MB"
	case !strings.HasPrefix(in.Photo.ContentType, "image/"):
		fields["photo"] = "must be an image"
	}

	if len([]rune(in.Name)) > model.MaxPlantNameLength {
		fields["name"] = "must be at most 100 characters"
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

func clampFrequency(days int) int {
	return min(max(days, model.MinWateringFrequencyDays), model.MaxWateringFrequencyDays)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
