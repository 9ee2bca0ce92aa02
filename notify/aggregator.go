// Package notify builds the "needs water" view of a user's plants and pushes
// it to live subscribers.
package notify

import (
	"context"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/metrics"
	"github.com/ZamarianPatrick/lazypig-care/model"
	"github.com/ZamarianPatrick/lazypig-care/schedule"
)

type PlantNeedingWater struct {
	PlantID           uint64     `json:"plantID"`
	PlantName         string     `json:"plantName"`
	PhotoURL          string     `json:"photoURL"`
	LastWatered       *time.Time `json:"lastWatered"`
	NextWatering      *time.Time `json:"nextWatering"`
	DaysUntilWatering int        `json:"daysUntilWatering"`
	DaysOverdue       int        `json:"daysOverdue"`
}

type Summary struct {
	Total       int `json:"total"`
	Unscheduled int `json:"unscheduled"`
	Overdue     int `json:"overdue"`
	DueToday    int `json:"dueToday"`
	DueSoon     int `json:"dueSoon"`
	OK          int `json:"ok"`
}

// PlantReader is the part of the record store the aggregator reads from.
type PlantReader interface {
	FetchPlantsByUser(ctx context.Context, userID string) ([]model.Plant, error)
	FetchMostRecentWateringEvent(ctx context.Context, plantID uint64) (*model.WateringEvent, error)
}

type Options struct {
	DueSoonThreshold int
	OverdueThreshold int

	// Cache is optional.
	Cache   Cache
	Metrics *metrics.Metrics
	Now     func() time.Time
}

type Aggregator struct {
	store   PlantReader
	log     logger.Logger
	cache   Cache
	metrics *metrics.Metrics
	now     func() time.Time

	dueSoon int
	overdue int
}

func NewAggregator(store PlantReader, log logger.Logger, opts Options) *Aggregator {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Aggregator{
		store:   store,
		log:     log.Component("notify"),
		cache:   opts.Cache,
		metrics: opts.Metrics,
		now:     opts.Now,
		dueSoon: opts.DueSoonThreshold,
		overdue: opts.OverdueThreshold,
	}
}

// ListPlantsNeedingWater returns the user's plants due within the due-soon
// threshold, most overdue first. A store failure yields an empty list; the
// absence of notifications must never break the caller.
func (a *Aggregator) ListPlantsNeedingWater(ctx context.Context, userID string) []PlantNeedingWater {
	if cached, ok := a.cached(ctx, userID); ok {
		return cached
	}

	statuses, err := a.PlantsWithStatus(ctx, userID)
	if err != nil {
		a.log.Warn("needs-water list degraded to empty", "user_id", userID, "error", err)
		a.metrics.NotificationDegraded()
		return []PlantNeedingWater{}
	}

	out := make([]PlantNeedingWater, 0, len(statuses))
	for _, ps := range statuses {
		if !schedule.IsDueWithin(ps.Schedule, a.dueSoon) {
			continue
		}

		days := *ps.Schedule.DaysUntilWatering
		out = append(out, PlantNeedingWater{
			PlantID:           ps.ID,
			PlantName:         ps.Name,
			PhotoURL:          ps.PhotoURL,
			LastWatered:       ps.Schedule.LastWateredDate,
			NextWatering:      ps.Schedule.NextWateringDate,
			DaysUntilWatering: days,
			DaysOverdue:       max(0, -days),
		})
	}

	sortByUrgency(out)

	if a.cache != nil {
		if err := a.cache.Set(ctx, userID, out); err != nil {
			a.log.Warn("needs-water cache write failed", "user_id", userID, "error", err)
		}
	}

	return out
}

// Summary counts the user's plants per schedule classification. A store
// failure yields a zero summary.
func (a *Aggregator) Summary(ctx context.Context, userID string) Summary {
	statuses, err := a.PlantsWithStatus(ctx, userID)
	if err != nil {
		a.log.Warn("dashboard summary degraded to empty", "user_id", userID, "error", err)
		a.metrics.NotificationDegraded()
		return Summary{}
	}

	var s Summary
	for _, ps := range statuses {
		s.Total++
		switch schedule.Classify(ps.Schedule, a.dueSoon, a.overdue) {
		case schedule.Unscheduled:
			s.Unscheduled++
		case schedule.Overdue:
			s.Overdue++
		case schedule.DueToday:
			s.DueToday++
		case schedule.DueSoon:
			s.DueSoon++
		default:
			s.OK++
		}
	}
	return s
}

// Invalidate drops the cached list of userID. Callers invoke it after every
// watering or plant mutation.
func (a *Aggregator) Invalidate(ctx context.Context, userID string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Invalidate(ctx, userID); err != nil {
		a.log.Warn("needs-water cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (a *Aggregator) cached(ctx context.Context, userID string) ([]PlantNeedingWater, bool) {
	if a.cache == nil {
		return nil, false
	}

	list, ok, err := a.cache.Get(ctx, userID)
	switch {
	case err != nil:
		a.metrics.CacheLookup("error")
		a.log.Warn("needs-water cache read failed", "user_id", userID, "error", err)
		return nil, false
	case !ok:
		a.metrics.CacheLookup("miss")
		return nil, false
	default:
		a.metrics.CacheLookup("hit")
		return list, true
	}
}

// PlantsWithStatus returns every plant of userID with its schedule status.
// Unlike the needs-water list it propagates store errors.
func (a *Aggregator) PlantsWithStatus(ctx context.Context, userID string) ([]model.PlantWithStatus, error) {
	plants, err := a.store.FetchPlantsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := a.now()
	out := make([]model.PlantWithStatus, 0, len(plants))
	for _, p := range plants {
		latest, err := a.store.FetchMostRecentWateringEvent(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.PlantWithStatus{
			Plant:    p,
			Schedule: schedule.ForPlant(p, latest, now),
		})
	}
	return out, nil
}

// sortByUrgency orders by days until watering, then name, then id.
func sortByUrgency(list []PlantNeedingWater) {
	c := collate.New(language.Und)
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.DaysUntilWatering != b.DaysUntilWatering {
			return a.DaysUntilWatering < b.DaysUntilWatering
		}
		if cmp := c.CompareString(a.PlantName, b.PlantName); cmp != 0 {
			return cmp < 0
		}
		return a.PlantID < b.PlantID
	})
}
