// Package events carries the synchronous domain events that decouple the
// ledger and combat engine from their observers. Publishers fire after
// releasing their own locks, so a handler may safely call back into the
// publishing component.
package events

import (
	"sort"
	"sync"
)

// Handler receives a published event payload.
type Handler func(event string, payload interface{})

// ---- Event names ----

const (
	LevelUp              = "level_up"
	ItemGained           = "item_gained"
	ItemCrafted          = "item_crafted"
	ResourceGained       = "resource_gained"
	EnemyDefeated        = "enemy_defeated"
	ActionCompleted      = "action_completed"
	BuildingConstructed  = "building_constructed"
	QuestCompleted       = "quest_completed"
	WorldEventStarted    = "world_event_started"
	WorldEventEnded      = "world_event_ended"
)

// ---- Payloads ----

type LevelUpPayload struct {
	CharID int64
	Level  int
}

type ItemGainedPayload struct {
	CharID int64
	ItemID string
	Count  int
}

type ItemCraftedPayload struct {
	CharID   int64
	RecipeID string
	ItemID   string
}

type ResourceGainedPayload struct {
	CharID   int64
	Resource string
	Amount   int
}

type EnemyDefeatedPayload struct {
	CharID  int64
	EnemyID string
}

type ActionCompletedPayload struct {
	CharID   int64
	ActionID string
}

type BuildingConstructedPayload struct {
	CharID   int64
	Building string
	Level    int
}

type QuestCompletedPayload struct {
	CharID  int64
	QuestID string
	Daily   bool
}

type WorldEventPayload struct {
	EventID string
	Name    string
}

type entry struct {
	priority int
	name     string
	fn       Handler
}

// Bus is a synchronous publish/subscribe hub. Handlers run in priority
// order (lower first) on the publisher's goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]*entry
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]*entry)}
}

// Subscribe registers fn for the given event. name identifies the
// subscription for Unsubscribe.
func (b *Bus) Subscribe(event string, priority int, name string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := append(b.handlers[event], &entry{priority: priority, name: name, fn: fn})
	sort.SliceStable(list, func(i, j int) bool { return list[i].priority < list[j].priority })
	b.handlers[event] = list
}

// Unsubscribe removes all handlers with the given name for the event.
func (b *Bus) Unsubscribe(event, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[event]
	n := 0
	for _, e := range list {
		if e.name != name {
			list[n] = e
			n++
		}
	}
	b.handlers[event] = list[:n]
}

// Publish delivers payload to every handler of event, in priority order.
func (b *Bus) Publish(event string, payload interface{}) {
	b.mu.RLock()
	list := make([]*entry, len(b.handlers[event]))
	copy(list, b.handlers[event])
	b.mu.RUnlock()

	for _, e := range list {
		e.fn(event, payload)
	}
}
