// Package production drives the per-character 1 Hz tick: stamina and hp
// regeneration, passive worker output and the FIFO action queue. Only
// the queue head accrues time; jobs behind it wait at full duration.
package production

import (
	"errors"
	"sync"
	"time"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/events"
	"github.com/mistfall/emberhold/game/ledger"
	"go.uber.org/zap"
)

var (
	ErrQueueFull       = errors.New("production: action queue is full")
	ErrUnknownAction   = errors.New("production: unknown action id")
	ErrZoneMismatch    = errors.New("production: action unavailable in this zone")
	ErrMissingBuilding = errors.New("production: required building not constructed")
	ErrBadIndex        = errors.New("production: no queued action at that index")
)

// QueueItem is one queued job. StartedAt is zero until the item reaches
// the head of the queue.
type QueueItem struct {
	Action    *catalog.Action `json:"action"`
	StartedAt time.Time       `json:"started_at"`
}

// Remaining reports the seconds left on a running head item, or the
// full duration for a waiting one.
func (q *QueueItem) Remaining(now time.Time) int {
	d := q.Action.DurationS
	if q.StartedAt.IsZero() {
		return d
	}
	left := d - int(now.Sub(q.StartedAt).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

// Queue is one character's action queue. Stamina is debited when a job
// is accepted, not when it completes, and refunded on cancel.
type Queue struct {
	mu     sync.Mutex
	items  []*QueueItem
	led    *ledger.Ledger
	cat    *catalog.Catalog
	bus    *events.Bus
	logger *zap.Logger
	now    func() time.Time
}

// NewQueue creates an empty queue bound to a ledger.
func NewQueue(led *ledger.Ledger, cat *catalog.Catalog, bus *events.Bus, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{led: led, cat: cat, bus: bus, logger: logger, now: time.Now}
}

// Enqueue validates and accepts a job. The zone and building gates are
// checked against the ledger, the slot cap against the current level,
// and the stamina cost is debited immediately.
func (q *Queue) Enqueue(actionID string) error {
	act := q.cat.Action(actionID)
	if act == nil {
		return ErrUnknownAction
	}
	st := q.led.Snapshot()
	if act.Zone != "" && act.Zone != st.Zone {
		return ErrZoneMismatch
	}
	if act.Building != "" && st.Buildings[act.Building] < 1 {
		return ErrMissingBuilding
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= st.MaxQueueSlots {
		return ErrQueueFull
	}
	if err := q.led.SpendStamina(act.StaminaCost); err != nil {
		return err
	}
	item := &QueueItem{Action: act}
	if len(q.items) == 0 {
		item.StartedAt = q.now()
	}
	q.items = append(q.items, item)
	return nil
}

// Cancel removes the job at index, refunding its stamina cost. When
// the running head is cancelled the next job starts immediately.
func (q *Queue) Cancel(index int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.items) {
		return ErrBadIndex
	}
	cost := q.items[index].Action.StaminaCost
	q.items = append(q.items[:index], q.items[index+1:]...)
	if index == 0 && len(q.items) > 0 {
		q.items[0].StartedAt = q.now()
	}
	q.led.RefundStamina(cost)
	return nil
}

// Tick completes the head job once its duration has elapsed, pays out
// its rewards and starts the next head. At most one job completes per
// tick.
func (q *Queue) Tick(now time.Time) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return
	}
	head := q.items[0]
	if now.Sub(head.StartedAt) < time.Duration(head.Action.DurationS)*time.Second {
		q.mu.Unlock()
		return
	}
	q.items = q.items[1:]
	if len(q.items) > 0 {
		q.items[0].StartedAt = now
	}
	charID := q.led.Snapshot().CharID
	q.mu.Unlock()

	// Rewards and the completion event run outside the queue lock so
	// quest handlers can inspect the queue if they need to.
	q.led.GrantRewards(head.Action.Rewards)
	q.bus.Publish(events.ActionCompleted, events.ActionCompletedPayload{
		CharID: charID, ActionID: head.Action.ID,
	})
	q.logger.Debug("action completed",
		zap.Int64("char_id", charID),
		zap.String("action_id", head.Action.ID))
}

// Items returns a copy of the queued jobs in order.
func (q *Queue) Items() []QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]QueueItem, len(q.items))
	for i, it := range q.items {
		out[i] = *it
	}
	return out
}

// Len reports the number of queued jobs including the running head.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
