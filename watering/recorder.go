// Package watering records watering events for a user's plants.
package watering

import (
	"context"
	"time"

	"github.com/ZamarianPatrick/lazypig-care/domain"
	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/metrics"
	"github.com/ZamarianPatrick/lazypig-care/model"
	"github.com/ZamarianPatrick/lazypig-care/notify"
)

type Store interface {
	FetchPlant(ctx context.Context, plantID uint64) (*model.Plant, error)
	AppendWateringEvent(ctx context.Context, plantID uint64, wateredAt time.Time) (*model.WateringEvent, error)
	ListWateringEvents(ctx context.Context, plantID uint64, limit int) ([]model.WateringEvent, error)
}

// Notifier is told about every recorded watering so derived views refresh.
type Notifier interface {
	Invalidate(ctx context.Context, userID string)
	ListPlantsNeedingWater(ctx context.Context, userID string) []notify.PlantNeedingWater
}

// Publisher pushes a fresh needs-water list to live subscribers.
type Publisher interface {
	Publish(userID string, list []notify.PlantNeedingWater) int
}

type Recorder struct {
	store     Store
	notifier  Notifier
	publisher Publisher
	log       logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Options struct {
	Notifier  Notifier
	Publisher Publisher
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

func NewRecorder(store Store, log logger.Logger, opts Options) *Recorder {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Recorder{
		store:     store,
		notifier:  opts.Notifier,
		publisher: opts.Publisher,
		log:       log.Component("watering"),
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
}

// RecordWatering appends a watering event for plantID, dated wateredAt or now.
// A plant that does not exist and a plant of another user fail alike.
func (r *Recorder) RecordWatering(ctx context.Context, plantID uint64, userID string, wateredAt *time.Time) (*model.WateringEvent, error) {
	if _, err := r.ownedPlant(ctx, plantID, userID); err != nil {
		return nil, err
	}

	at := r.now()
	if wateredAt != nil {
		at = *wateredAt
	}

	event, err := r.store.AppendWateringEvent(ctx, plantID, at.UTC())
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}

	r.metrics.WateringRecorded()
	r.log.Info("watering recorded", "user_id", userID, "plant_id", plantID, "watered_at", event.WateredAt)

	r.refresh(ctx, userID)
	return event, nil
}

// History returns up to limit watering events of the plant, newest first. A
// limit of zero or less returns all of them.
func (r *Recorder) History(ctx context.Context, plantID uint64, userID string, limit int) ([]model.WateringEvent, error) {
	if _, err := r.ownedPlant(ctx, plantID, userID); err != nil {
		return nil, err
	}

	events, err := r.store.ListWateringEvents(ctx, plantID, limit)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}
	return events, nil
}

func (r *Recorder) ownedPlant(ctx context.Context, plantID uint64, userID string) (*model.Plant, error) {
	plant, err := r.store.FetchPlant(ctx, plantID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}
	if plant == nil || plant.UserID != userID {
		return nil, domain.NewNotFoundOrUnauthorizedError("plant")
	}
	return plant, nil
}

// refresh drops the cached needs-water list and pushes the new one. The event
// is already stored, so nothing here may fail the request.
func (r *Recorder) refresh(ctx context.Context, userID string) {
	if r.notifier == nil {
		return
	}

	r.notifier.Invalidate(ctx, userID)
	if r.publisher == nil {
		return
	}

	list := r.notifier.ListPlantsNeedingWater(ctx, userID)
	r.publisher.Publish(userID, list)
}
