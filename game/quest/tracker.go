// Package quest tracks quest and daily-quest progress by observing the
// domain events the ledger and combat engine publish, and runs the
// world event schedule.
package quest

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/events"
	"github.com/mistfall/emberhold/game/ledger"
	"go.uber.org/zap"
)

// questState is one quest's live progress. Progress is indexed by
// requirement position and clamps at each requirement's amount.
type questState struct {
	quest     *catalog.Quest
	progress  []int
	completed bool
}

func newQuestState(q *catalog.Quest) *questState {
	return &questState{quest: q, progress: make([]int, len(q.Reqs))}
}

func (qs *questState) satisfied() bool {
	for i, req := range qs.quest.Reqs {
		if qs.progress[i] < req.Amount {
			return false
		}
	}
	return true
}

// View is the API-facing projection of one quest's progress.
type View struct {
	Quest     *catalog.Quest `json:"quest"`
	Progress  []int          `json:"progress"`
	Completed bool           `json:"completed"`
}

// Tracker owns one character's quest state. It subscribes to the
// character's event bus at construction and unsubscribes on Close.
type Tracker struct {
	mu         sync.Mutex
	charID     int64
	main       []*questState
	daily      []*questState
	dailyDate  string // YYYY-MM-DD of the current daily set
	dailyCount int

	led    *ledger.Ledger
	cat    *catalog.Catalog
	bus    *events.Bus
	rng    *rand.Rand
	logger *zap.Logger
	now    func() time.Time
}

// NewTracker builds a tracker with every main quest at zero progress
// and no daily set. Call InitDailyQuests after construction (and after
// Load, when restoring).
func NewTracker(charID int64, led *ledger.Ledger, cat *catalog.Catalog, bus *events.Bus, dailyCount int, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		charID:     charID,
		dailyCount: dailyCount,
		led:        led,
		cat:        cat,
		bus:        bus,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     logger,
		now:        time.Now,
	}
	for _, q := range cat.MainQuests() {
		t.main = append(t.main, newQuestState(q))
	}
	t.subscribe()
	return t
}

const subName = "quest-tracker"

func (t *Tracker) subscribe() {
	t.bus.Subscribe(events.LevelUp, 50, subName, func(_ string, p interface{}) {
		pl := p.(events.LevelUpPayload)
		if pl.CharID == t.charID {
			t.setLevel(pl.Level)
		}
	})
	t.bus.Subscribe(events.ItemGained, 50, subName, func(_ string, p interface{}) {
		pl := p.(events.ItemGainedPayload)
		if pl.CharID == t.charID {
			t.UpdateProgress(catalog.ReqItem, pl.ItemID, pl.Count)
		}
	})
	t.bus.Subscribe(events.ResourceGained, 50, subName, func(_ string, p interface{}) {
		pl := p.(events.ResourceGainedPayload)
		if pl.CharID == t.charID {
			t.UpdateProgress(catalog.ReqResource, pl.Resource, pl.Amount)
		}
	})
	t.bus.Subscribe(events.EnemyDefeated, 50, subName, func(_ string, p interface{}) {
		pl := p.(events.EnemyDefeatedPayload)
		if pl.CharID == t.charID {
			t.UpdateProgress(catalog.ReqKill, pl.EnemyID, 1)
		}
	})
	t.bus.Subscribe(events.ActionCompleted, 50, subName, func(_ string, p interface{}) {
		pl := p.(events.ActionCompletedPayload)
		if pl.CharID == t.charID {
			t.UpdateProgress(catalog.ReqAction, pl.ActionID, 1)
		}
	})
}

// Close detaches the tracker from the bus.
func (t *Tracker) Close() {
	for _, ev := range []string{
		events.LevelUp, events.ItemGained, events.ResourceGained,
		events.EnemyDefeated, events.ActionCompleted,
	} {
		t.bus.Unsubscribe(ev, subName)
	}
}

// UpdateProgress advances every matching requirement on every
// non-completed quest. Kill requirements with the "any" target match
// every enemy. Completion is edge-triggered: the instant a quest's
// last requirement fills, its rewards are granted exactly once.
func (t *Tracker) UpdateProgress(reqType catalog.RequirementType, target string, amount int) {
	if amount <= 0 {
		return
	}
	t.mu.Lock()
	done := t.applyLocked(func(qs *questState) {
		for i, req := range qs.quest.Reqs {
			if req.Type != reqType {
				continue
			}
			wildcard := (req.Type == catalog.ReqKill && req.Target == catalog.KillAny) ||
				(req.Type == catalog.ReqAction && req.Target == "")
			if !wildcard && req.Target != target {
				continue
			}
			qs.progress[i] += amount
			if qs.progress[i] > req.Amount {
				qs.progress[i] = req.Amount
			}
		}
	})
	t.mu.Unlock()
	t.grantAll(done)
}

// setLevel pins level-type requirements to the character's level
// rather than incrementing them.
func (t *Tracker) setLevel(level int) {
	t.mu.Lock()
	done := t.applyLocked(func(qs *questState) {
		for i, req := range qs.quest.Reqs {
			if req.Type != catalog.ReqLevel {
				continue
			}
			p := level
			if p > req.Amount {
				p = req.Amount
			}
			if p > qs.progress[i] {
				qs.progress[i] = p
			}
		}
	})
	t.mu.Unlock()
	t.grantAll(done)
}

// applyLocked runs fn over every open quest and returns the ones that
// just completed. Caller holds t.mu.
func (t *Tracker) applyLocked(fn func(*questState)) []*catalog.Quest {
	var done []*catalog.Quest
	for _, pool := range [][]*questState{t.main, t.daily} {
		for _, qs := range pool {
			if qs.completed {
				continue
			}
			fn(qs)
			if qs.satisfied() {
				qs.completed = true
				done = append(done, qs.quest)
			}
		}
	}
	return done
}

// grantAll pays out completed quests outside the tracker lock. Reward
// grants re-enter the ledger, whose events re-enter this tracker.
func (t *Tracker) grantAll(done []*catalog.Quest) {
	for _, q := range done {
		t.logger.Info("quest completed",
			zap.Int64("char_id", t.charID),
			zap.String("quest_id", q.ID))
		if q.RewardXP > 0 {
			t.led.AddXP(q.RewardXP)
		}
		if q.RewardGold > 0 {
			t.led.AddGold(q.RewardGold)
		}
		for _, itemID := range q.RewardItems {
			if err := t.led.AddItem(itemID, 1); err != nil {
				t.logger.Warn("quest reward skipped", zap.String("item_id", itemID))
			}
		}
		t.bus.Publish(events.QuestCompleted, events.QuestCompletedPayload{
			CharID: t.charID, QuestID: q.ID, Daily: q.Daily,
		})
	}
}

// InitDailyQuests rolls a fresh random daily set when the calendar day
// has changed. Calling it again on the same day leaves the current set
// untouched, completed entries included.
func (t *Tracker) InitDailyQuests() {
	today := t.now().Format("2006-01-02")
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dailyDate == today {
		return
	}
	pool := t.cat.DailyPool()
	picks := t.rng.Perm(len(pool))
	n := t.dailyCount
	if n > len(pool) {
		n = len(pool)
	}
	t.daily = t.daily[:0]
	for _, idx := range picks[:n] {
		t.daily = append(t.daily, newQuestState(pool[idx]))
	}
	t.dailyDate = today
	t.logger.Info("daily quests rolled",
		zap.Int64("char_id", t.charID),
		zap.String("date", today),
		zap.Int("count", n))
}

// Main returns the main quest progress views in catalog order.
func (t *Tracker) Main() []View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return viewsOf(t.main)
}

// Dailies returns the current daily set's progress views.
func (t *Tracker) Dailies() []View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return viewsOf(t.daily)
}

func viewsOf(pool []*questState) []View {
	out := make([]View, len(pool))
	for i, qs := range pool {
		out[i] = View{
			Quest:     qs.quest,
			Progress:  append([]int(nil), qs.progress...),
			Completed: qs.completed,
		}
	}
	return out
}
