package api

import (
	"context"
	"sync"
	"time"

	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/metrics"
	"github.com/ZamarianPatrick/lazypig-care/notify"
	"github.com/ZamarianPatrick/lazypig-care/plants"
	"github.com/ZamarianPatrick/lazypig-care/quota"
	"github.com/ZamarianPatrick/lazypig-care/reminder"
	"github.com/ZamarianPatrick/lazypig-care/settings"
	"github.com/ZamarianPatrick/lazypig-care/store"
	"github.com/ZamarianPatrick/lazypig-care/watering"
	"github.com/ZamarianPatrick/lazypig-care/wizard"
)

// Controller owns the services behind the API and the reminder loop.
type Controller interface {
	Plants() *plants.Service
	Watering() *watering.Recorder
	Notifications() *notify.Aggregator
	Quota() *quota.Tracker
	Wizard() *wizard.Service
	Hub() *notify.Hub
	Metrics() *metrics.Metrics
	Ping(ctx context.Context) error
	Start() error
	Stop()
}

// Dependencies are the external resources a controller is built on. Cache
// and Metrics are optional.
type Dependencies struct {
	Store    *store.DB
	Cache    notify.Cache
	Provider wizard.Provider
	Metrics  *metrics.Metrics
	Log      logger.Logger
	Now      func() time.Time
}

type controller struct {
	store         *store.DB
	log           logger.Logger
	metrics       *metrics.Metrics
	notifications *notify.Aggregator
	hub           *notify.Hub
	tracker       *quota.Tracker
	recorder      *watering.Recorder
	plants        *plants.Service
	wizard        *wizard.Service
	worker        reminder.Worker

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewController(s *settings.Settings, deps Dependencies) (Controller, error) {
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	log := deps.Log
	aggregator := notify.NewAggregator(deps.Store, log, notify.Options{
		DueSoonThreshold: s.DueSoonThresholdDays,
		OverdueThreshold: s.OverdueThresholdDays,
		Cache:            deps.Cache,
		Metrics:          deps.Metrics,
		Now:              deps.Now,
	})
	hub := notify.NewHub(log)
	tracker := quota.NewTracker(deps.Store, log, quota.Options{
		Location: loc,
		Metrics:  deps.Metrics,
		Now:      deps.Now,
	})

	c := &controller{
		store:         deps.Store,
		log:           log.Component("controller"),
		metrics:       deps.Metrics,
		notifications: aggregator,
		hub:           hub,
		tracker:       tracker,
		recorder: watering.NewRecorder(deps.Store, log, watering.Options{
			Notifier:  aggregator,
			Publisher: hub,
			Metrics:   deps.Metrics,
			Now:       deps.Now,
		}),
		plants: plants.NewService(deps.Store, tracker, log, plants.Options{
			Invalidator: aggregator,
			Metrics:     deps.Metrics,
			Now:         deps.Now,
		}),
		wizard: wizard.NewService(deps.Store, tracker, deps.Provider, log, wizard.Options{
			Invalidator: aggregator,
			Metrics:     deps.Metrics,
		}),
		worker: reminder.NewWorker(deps.Store, aggregator, s.ReminderSchedule, log, deps.Metrics),
		done:   make(chan struct{}),
	}

	return c, nil
}

// Start runs the reminder worker and forwards its reminders to live
// subscribers.
func (c *controller) Start() error {
	if err := c.worker.Start(); err != nil {
		return err
	}

	c.wg.Add(1)
	go c.forwardReminders()
	return nil
}

func (c *controller) Stop() {
	c.stopOnce.Do(func() {
		c.worker.Stop()
		close(c.done)
		c.wg.Wait()
	})
}

func (c *controller) forwardReminders() {
	defer c.wg.Done()

	ch := c.worker.DataChannel()
	for {
		select {
		case r := <-ch:
			delivered := c.hub.Publish(r.UserID, r.Plants)
			c.log.Info("plants need water",
				"user_id", r.UserID,
				"plants", len(r.Plants),
				"subscribers", delivered,
			)
		case <-c.done:
			return
		}
	}
}

func (c *controller) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func (c *controller) Plants() *plants.Service           { return c.plants }
func (c *controller) Watering() *watering.Recorder      { return c.recorder }
func (c *controller) Notifications() *notify.Aggregator { return c.notifications }
func (c *controller) Quota() *quota.Tracker             { return c.tracker }
func (c *controller) Wizard() *wizard.Service           { return c.wizard }
func (c *controller) Hub() *notify.Hub                  { return c.hub }
func (c *controller) Metrics() *metrics.Metrics         { return c.metrics }
