// Package quota enforces the per-user plant limit and the monthly AI
// generation allowance.
package quota

import (
	"context"
	"time"

	"github.com/ZamarianPatrick/lazypig-care/domain"
	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/metrics"
	"github.com/ZamarianPatrick/lazypig-care/model"
)

// MonthKeyLayout formats the quota month, e.g. "2024-03".
const MonthKeyLayout = "2006-01"

type Store interface {
	CountPlantsByUser(ctx context.Context, userID string) (int, error)
	FetchUsageRecord(ctx context.Context, userID, monthKey string) (*model.UsageRecord, error)
	UpsertUsageRecord(ctx context.Context, userID, monthKey string, delta int) (*model.UsageRecord, error)
}

type Limit struct {
	Allowed bool `json:"allowed"`
	Limit   int  `json:"limit"`
	Used    int  `json:"used"`
}

type Usage struct {
	Month         string `json:"month"`
	Plants        Limit  `json:"plants"`
	AIGenerations Limit  `json:"aiGenerations"`
}

type Tracker struct {
	store   Store
	log     logger.Logger
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
}

type Options struct {
	// Location decides where a quota month starts. Defaults to UTC.
	Location *time.Location
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

func NewTracker(store Store, log logger.Logger, opts Options) *Tracker {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Tracker{
		store:   store,
		log:     log.Component("quota"),
		metrics: opts.Metrics,
		loc:     opts.Location,
		now:     opts.Now,
	}
}

// WithStore returns a tracker reading and writing through s, typically a
// transaction.
func (t *Tracker) WithStore(s Store) *Tracker {
	c := *t
	c.store = s
	return &c
}

// MonthKey returns the quota month of at in the tracker's location.
func (t *Tracker) MonthKey(at time.Time) string {
	return at.In(t.loc).Format(MonthKeyLayout)
}

func (t *Tracker) CheckPlantLimit(ctx context.Context, userID string) (Limit, error) {
	n, err := t.store.CountPlantsByUser(ctx, userID)
	if err != nil {
		return Limit{}, domain.NewStoreUnavailableError(err)
	}

	return Limit{
		Allowed: n < model.MaxPlantsPerUser,
		Limit:   model.MaxPlantsPerUser,
		Used:    n,
	}, nil
}

// CheckAIGenerationLimit reports the current month's allowance, creating the
// month's usage record with a zero count when it does not exist yet.
func (t *Tracker) CheckAIGenerationLimit(ctx context.Context, userID string) (Limit, error) {
	return t.aiGenerationLimit(ctx, userID, t.MonthKey(t.now()))
}

func (t *Tracker) aiGenerationLimit(ctx context.Context, userID, month string) (Limit, error) {
	record, err := t.store.FetchUsageRecord(ctx, userID, month)
	if err != nil {
		return Limit{}, domain.NewStoreUnavailableError(err)
	}
	if record == nil {
		record, err = t.store.UpsertUsageRecord(ctx, userID, month, 0)
		if err != nil {
			return Limit{}, domain.NewStoreUnavailableError(err)
		}
	}

	return Limit{
		Allowed: record.AIGenerationsThisMonth < model.FreeAIGenerationsPerMonth,
		Limit:   model.FreeAIGenerationsPerMonth,
		Used:    record.AIGenerationsThisMonth,
	}, nil
}

// IncrementAIUsage atomically counts one AI generation for the current month
// and returns the new count. Call it only once the generation succeeded.
func (t *Tracker) IncrementAIUsage(ctx context.Context, userID string) (int, error) {
	month := t.MonthKey(t.now())

	record, err := t.store.UpsertUsageRecord(ctx, userID, month, 1)
	if err != nil {
		return 0, domain.NewStoreUnavailableError(err)
	}

	t.metrics.AIGenerationConsumed()
	t.log.Debug("ai generation counted", "user_id", userID, "month", month, "used", record.AIGenerationsThisMonth)
	return record.AIGenerationsThisMonth, nil
}

// Usage reports both allowances. The month is read from the clock once, so
// the reported month always matches the counts.
func (t *Tracker) Usage(ctx context.Context, userID string) (Usage, error) {
	month := t.MonthKey(t.now())

	plants, err := t.CheckPlantLimit(ctx, userID)
	if err != nil {
		return Usage{}, err
	}
	ai, err := t.aiGenerationLimit(ctx, userID, month)
	if err != nil {
		return Usage{}, err
	}

	return Usage{
		Month:         month,
		Plants:        plants,
		AIGenerations: ai,
	}, nil
}

// RequirePlantSlot fails with a quota error when the user cannot add another
// plant.
func (t *Tracker) RequirePlantSlot(ctx context.Context, userID string) error {
	l, err := t.CheckPlantLimit(ctx, userID)
	if err != nil {
		return err
	}
	return t.deny(userID, domain.QuotaPlants, l)
}

// RequireAIGeneration fails with a quota error when the monthly allowance is
// used up.
func (t *Tracker) RequireAIGeneration(ctx context.Context, userID string) error {
	l, err := t.CheckAIGenerationLimit(ctx, userID)
	if err != nil {
		return err
	}
	return t.deny(userID, domain.QuotaAIGenerations, l)
}

func (t *Tracker) deny(userID, dimension string, l Limit) error {
	if l.Allowed {
		return nil
	}

	t.metrics.QuotaDenied(dimension)
	t.log.Info("quota exceeded", "user_id", userID, "dimension", dimension, "limit", l.Limit, "used", l.Used)
	return domain.NewQuotaExceededError(dimension, l.Limit, l.Used)
}
