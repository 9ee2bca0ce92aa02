// Package reminder periodically looks for plants that need water and emits a
// reminder per user.
package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/metrics"
	"github.com/ZamarianPatrick/lazypig-care/notify"
)

const runTimeout = 5 * time.Minute

type Reminder struct {
	UserID string
	Plants []notify.PlantNeedingWater
}

type Store interface {
	ListUserIDsWithPlants(ctx context.Context) ([]string, error)
}

type Lister interface {
	ListPlantsNeedingWater(ctx context.Context, userID string) []notify.PlantNeedingWater
}

type Worker interface {
	Start() error
	Stop()
	RunOnce(ctx context.Context) int
	DataChannel() chan Reminder
}

type reminderWorker struct {
	store   Store
	lister  Lister
	log     logger.Logger
	metrics *metrics.Metrics

	schedule string
	cron     *cron.Cron

	mutex        sync.Mutex
	running      bool
	stop         context.CancelFunc
	ctx          context.Context
	valueChannel chan Reminder
}

// NewWorker creates a worker running on the standard cron spec schedule, e.g.
// "@hourly" or "0 8 * * *".
func NewWorker(store Store, lister Lister, schedule string, log logger.Logger, m *metrics.Metrics) Worker {
	return &reminderWorker{
		store:        store,
		lister:       lister,
		log:          log.Component("reminder"),
		metrics:      m,
		schedule:     schedule,
		valueChannel: make(chan Reminder, 16),
	}
}

func (w *reminderWorker) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.running {
		return nil
	}

	w.ctx, w.stop = context.WithCancel(context.Background())
	w.cron = cron.New()
	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(w.ctx, runTimeout)
		defer cancel()

		n := w.RunOnce(ctx)
		w.log.Info("reminder run completed", "reminders", n)
	})
	if err != nil {
		w.stop()
		return err
	}

	w.cron.Start()
	w.running = true
	w.log.Info("reminder worker started", "schedule", w.schedule)
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (w *reminderWorker) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	w.stop()
	<-w.cron.Stop().Done()
	w.running = false
	w.log.Info("reminder worker stopped")
}

// RunOnce emits one reminder for every user with plants due within the
// due-soon threshold and returns how many were emitted.
func (w *reminderWorker) RunOnce(ctx context.Context) int {
	userIDs, err := w.store.ListUserIDsWithPlants(ctx)
	if err != nil {
		w.log.Error("failed listing users with plants", "error", err)
		return 0
	}

	emitted := 0
	for _, userID := range userIDs {
		plants := w.lister.ListPlantsNeedingWater(ctx, userID)
		if len(plants) == 0 {
			continue
		}

		select {
		case w.valueChannel <- Reminder{UserID: userID, Plants: plants}:
			emitted++
			w.metrics.ReminderEmitted()
		case <-ctx.Done():
			w.log.Warn("reminder run cancelled", "error", ctx.Err(), "emitted", emitted)
			return emitted
		}
	}
	return emitted
}

func (w *reminderWorker) DataChannel() chan Reminder {
	return w.valueChannel
}
