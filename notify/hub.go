package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ZamarianPatrick/lazypig-care/logger"
)

// Hub fans needs-water lists out to live subscribers of a user, e.g. open
// websocket connections.
type Hub struct {
	mutex       sync.RWMutex
	subscribers map[string]map[string]chan []PlantNeedingWater
	log         logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]map[string]chan []PlantNeedingWater),
		log:         log.Component("hub"),
	}
}

// Subscribe registers a subscriber for userID. The channel is closed once ctx
// is done. Slow subscribers only ever see the latest list.
func (h *Hub) Subscribe(ctx context.Context, userID string) <-chan []PlantNeedingWater {
	ch := make(chan []PlantNeedingWater, 1)
	id := uuid.NewString()

	h.mutex.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[string]chan []PlantNeedingWater)
	}
	h.subscribers[userID][id] = ch
	h.mutex.Unlock()

	go func() {
		<-ctx.Done()

		h.mutex.Lock()
		delete(h.subscribers[userID], id)
		if len(h.subscribers[userID]) == 0 {
			delete(h.subscribers, userID)
		}
		close(ch)
		h.mutex.Unlock()

		h.log.Debug("subscriber closed", "user_id", userID, "subscriber", id)
	}()

	return ch
}

// Publish delivers list to every subscriber of userID without blocking and
// returns how many subscribers received it.
func (h *Hub) Publish(userID string, list []PlantNeedingWater) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	delivered := 0
	for _, ch := range h.subscribers[userID] {
		select {
		case ch <- list:
			delivered++
			continue
		default:
		}

		// Replace the stale list nobody picked up yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- list:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of live subscribers of userID.
func (h *Hub) Subscribers(userID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subscribers[userID])
}
