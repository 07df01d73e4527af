package quest

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/events"
	"go.uber.org/zap"
)

// WorldEvents drives the global event schedule: at most one active
// event at a time, with a random 30–90 second gap between them. Combat
// snapshots the active event at encounter start, so a mid-fight expiry
// never changes a running encounter.
type WorldEvents struct {
	mu        sync.Mutex
	active    *catalog.Event
	startedAt time.Time
	nextAt    time.Time

	cat    *catalog.Catalog
	bus    *events.Bus
	rng    *rand.Rand
	logger *zap.Logger
	now    func() time.Time

	gapMin time.Duration
	gapMax time.Duration
}

// NewWorldEvents creates the scheduler with the first event due one
// full gap after boot. gapMin/gapMax bound the pause between events.
func NewWorldEvents(cat *catalog.Catalog, bus *events.Bus, gapMin, gapMax time.Duration, logger *zap.Logger) *WorldEvents {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gapMin <= 0 {
		gapMin = 30 * time.Second
	}
	if gapMax <= gapMin {
		gapMax = gapMin + 60*time.Second
	}
	w := &WorldEvents{
		cat:    cat,
		bus:    bus,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
		now:    time.Now,
		gapMin: gapMin,
		gapMax: gapMax,
	}
	w.nextAt = w.now().Add(w.gap())
	return w
}

func (w *WorldEvents) gap() time.Duration {
	return w.gapMin + time.Duration(w.rng.Int63n(int64(w.gapMax-w.gapMin)))
}

// Tick advances the schedule. Call at the production tick rate.
func (w *WorldEvents) Tick(now time.Time) {
	var started, ended *catalog.Event
	w.mu.Lock()
	if w.active != nil {
		if now.After(w.startedAt.Add(time.Duration(w.active.DurationS) * time.Second)) {
			ended = w.active
			w.active = nil
			w.nextAt = now.Add(w.gap())
		}
	} else if now.After(w.nextAt) {
		defs := w.cat.Events()
		if len(defs) > 0 {
			w.active = defs[w.rng.Intn(len(defs))]
			w.startedAt = now
			started = w.active
		}
	}
	w.mu.Unlock()

	if ended != nil {
		w.logger.Info("world event ended", zap.String("event_id", ended.ID))
		w.bus.Publish(events.WorldEventEnded, events.WorldEventPayload{EventID: ended.ID, Name: ended.Name})
	}
	if started != nil {
		w.logger.Info("world event started", zap.String("event_id", started.ID))
		w.bus.Publish(events.WorldEventStarted, events.WorldEventPayload{EventID: started.ID, Name: started.Name})
	}
}

// Active returns the running event, or nil when none is active.
func (w *WorldEvents) Active() *catalog.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// StartedAt reports when the running event began; zero when idle.
func (w *WorldEvents) StartedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == nil {
		return time.Time{}
	}
	return w.startedAt
}
