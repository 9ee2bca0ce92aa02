package watering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZamarianPatrick/lazypig-care/domain"
	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/metrics"
	"github.com/ZamarianPatrick/lazypig-care/model"
	"github.com/ZamarianPatrick/lazypig-care/notify"
	"github.com/ZamarianPatrick/lazypig-care/store/storetest"
)

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return now }

func TestRecorder_RecordWatering_DefaultsToNow(t *testing.T) {
	s := storetest.Open(t)
	m := metrics.New(prometheus.NewRegistry())
	r := NewRecorder(s, logger.Discard(), Options{Metrics: m, Now: fixedNow})
	p := storetest.Plant(t, s, "alice", "Fern", 3)

	ev, err := r.RecordWatering(context.Background(), p.ID, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, p.ID, ev.PlantID)
	assert.True(t, ev.WateredAt.Equal(now))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WateringsRecorded))
}

func TestRecorder_RecordWatering_Backdated(t *testing.T) {
	s := storetest.Open(t)
	r := NewRecorder(s, logger.Discard(), Options{Now: fixedNow})
	p := storetest.Plant(t, s, "alice", "Fern", 3)

	at := time.Date(2024, 5, 30, 18, 0, 0, 0, time.FixedZone("EST", -5*60*60))
	ev, err := r.RecordWatering(context.Background(), p.ID, "alice", &at)
	require.NoError(t, err)
	assert.True(t, ev.WateredAt.Equal(at))
	assert.Equal(t, time.UTC, ev.WateredAt.Location())
}

func TestRecorder_RecordWatering_ForeignPlant(t *testing.T) {
	s := storetest.Open(t)
	r := NewRecorder(s, logger.Discard(), Options{Now: fixedNow})
	p := storetest.Plant(t, s, "bob", "Cactus", 30)
	ctx := context.Background()

	_, err := r.RecordWatering(ctx, p.ID, "alice", nil)
	require.Error(t, err)
	assert.True(t, domain.IsNotFoundOrUnauthorized(err))

	events, err := s.ListWateringEvents(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, events)

	_, missing := r.RecordWatering(ctx, 999, "alice", nil)
	assert.Equal(t, err.Error(), missing.Error())
}

func TestRecorder_RecordWatering_RefreshesSubscribers(t *testing.T) {
	s := storetest.Open(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agg := notify.NewAggregator(s, logger.Discard(), notify.Options{
		DueSoonThreshold: model.DefaultPlantsDueSoonThresholdDays,
		OverdueThreshold: model.DefaultPlantsOverdueThresholdDays,
		Now:              fixedNow,
	})
	hub := notify.NewHub(logger.Discard())
	updates := hub.Subscribe(ctx, "alice")

	r := NewRecorder(s, logger.Discard(), Options{Notifier: agg, Publisher: hub, Now: fixedNow})
	p := storetest.Plant(t, s, "alice", "Basil", 4)

	old := now.Add(-7 * 24 * time.Hour)
	_, err := r.RecordWatering(ctx, p.ID, "alice", &old)
	require.NoError(t, err)

	select {
	case list := <-updates:
		require.Len(t, list, 1)
		assert.Equal(t, -3, list[0].DaysUntilWatering)
	case <-time.After(time.Second):
		t.Fatal("no update published")
	}

	_, err = r.RecordWatering(ctx, p.ID, "alice", nil)
	require.NoError(t, err)

	select {
	case list := <-updates:
		assert.Empty(t, list)
	case <-time.After(time.Second):
		t.Fatal("no update published")
	}
}

type failingStore struct {
	plant *model.Plant
}

func (f failingStore) FetchPlant(context.Context, uint64) (*model.Plant, error) {
	return f.plant, nil
}

func (failingStore) AppendWateringEvent(context.Context, uint64, time.Time) (*model.WateringEvent, error) {
	return nil, errors.New("database is locked")
}

func (failingStore) ListWateringEvents(context.Context, uint64, int) ([]model.WateringEvent, error) {
	return nil, errors.New("database is locked")
}

func TestRecorder_StoreFailurePropagates(t *testing.T) {
	r := NewRecorder(failingStore{plant: &model.Plant{ID: 1, UserID: "alice"}}, logger.Discard(), Options{})

	_, err := r.RecordWatering(context.Background(), 1, "alice", nil)
	assert.True(t, domain.IsStoreUnavailable(err))

	_, err = r.History(context.Background(), 1, "alice", 10)
	assert.True(t, domain.IsStoreUnavailable(err))
}

func TestRecorder_History(t *testing.T) {
	s := storetest.Open(t)
	r := NewRecorder(s, logger.Discard(), Options{Now: fixedNow})
	p := storetest.Plant(t, s, "alice", "Ivy", 5)
	ctx := context.Background()

	for i := 3; i > 0; i-- {
		at := now.Add(-time.Duration(i) * 24 * time.Hour)
		_, err := r.RecordWatering(ctx, p.ID, "alice", &at)
		require.NoError(t, err)
	}

	events, err := r.History(ctx, p.ID, "alice", 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].WateredAt.After(events[1].WateredAt))

	_, err = r.History(ctx, p.ID, "bob", 0)
	assert.True(t, domain.IsNotFoundOrUnauthorized(err))
}
