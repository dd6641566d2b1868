package evolution

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Observer receives a detached copy of the evolution state after a tick
type Observer func(ScenarioEvolution)

// observerRegistry delivers updates to subscribers in subscription order,
// isolating each subscriber's failures from the rest.
type observerRegistry struct {
	mu        sync.Mutex
	nextID    int
	observers map[int]Observer
	log       zerolog.Logger
}

func newObserverRegistry(log zerolog.Logger) *observerRegistry {
	return &observerRegistry{
		observers: make(map[int]Observer),
		log:       log,
	}
}

// subscribe registers an observer and returns its subscription id
func (r *observerRegistry) subscribe(obs Observer) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.observers[id] = obs
	return id
}

// unsubscribe removes the subscription. Unknown ids are a no-op.
func (r *observerRegistry) unsubscribe(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.observers, id)
}

// notify delivers the update to every subscriber in id order. A panicking
// subscriber is logged and skipped; delivery to the rest continues.
func (r *observerRegistry) notify(update ScenarioEvolution) {
	r.mu.Lock()
	ids := make([]int, 0, len(r.observers))
	for id := range r.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = r.observers[id]
	}
	r.mu.Unlock()

	for i, obs := range observers {
		r.deliver(ids[i], obs, update)
	}
}

func (r *observerRegistry) deliver(id int, obs Observer, update ScenarioEvolution) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().
				Int("observer_id", id).
				Interface("panic", rec).
				Msg("Observer panicked during notification")
		}
	}()
	obs(update)
}
