// Package ledger owns a character's persistent game state. Every
// mutation goes through a Ledger operation that validates first and
// only then commits, so a rejected operation never leaves partial
// state behind. One mutex serializes the scheduler tick, combat
// resolution and player commands over the same aggregate.
package ledger

import (
	"sync"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/events"
	"go.uber.org/zap"
)

// Ledger guards one character's State.
type Ledger struct {
	mu     sync.Mutex
	st     *State
	cat    *catalog.Catalog
	bus    *events.Bus
	logger *zap.Logger
}

// New wraps an existing state (fresh or loaded from a snapshot).
func New(st *State, cat *catalog.Catalog, bus *events.Bus, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bus == nil {
		bus = events.NewBus()
	}
	return &Ledger{st: st, cat: cat, bus: bus, logger: logger}
}

// pending is a domain event queued during a mutation and published
// after the mutex is released, so subscribers may re-enter the ledger.
type pending struct {
	event   string
	payload interface{}
}

func (l *Ledger) publish(evs []pending) {
	for _, e := range evs {
		l.bus.Publish(e.event, e.payload)
	}
}

// Snapshot returns a deep copy of the current state, safe to marshal
// or inspect outside the lock.
func (l *Ledger) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyState()
}

func (l *Ledger) copyState() State {
	cp := *l.st
	cp.Resources = copyIntMap(l.st.Resources)
	cp.Buildings = copyIntMap(l.st.Buildings)
	cp.Workers = copyIntMap(l.st.Workers)
	cp.TempleLevels = copyIntMap(l.st.TempleLevels)
	cp.Inventory = append([]Slot(nil), l.st.Inventory...)
	cp.Equipment = make(map[catalog.EquipSlot]string, len(l.st.Equipment))
	for k, v := range l.st.Equipment {
		cp.Equipment[k] = v
	}
	cp.Skills = make(map[string]bool, len(l.st.Skills))
	for k, v := range l.st.Skills {
		cp.Skills[k] = v
	}
	cp.Pets = append([]string(nil), l.st.Pets...)
	return cp
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ---- Experience and leveling ----

// AddXP grants experience, resolving as many level-ups as it spans.
// Each level-up grows the threshold by ×1.5 (floored), grants one
// skill point and recomputes the action queue cap.
func (l *Ledger) AddXP(amount int64) {
	if amount <= 0 {
		return
	}
	var evs []pending
	l.mu.Lock()
	l.st.XP += amount
	for l.st.XP >= l.st.MaxXP {
		l.st.XP -= l.st.MaxXP
		l.st.Level++
		l.st.MaxXP = l.st.MaxXP * 3 / 2
		l.st.SkillPoints++
		l.st.MaxQueueSlots = maxQueueSlotsFor(l.st.Level)
		l.st.MaxHP += 10
		l.st.MaxStamina += 2
		evs = append(evs, pending{events.LevelUp, events.LevelUpPayload{
			CharID: l.st.CharID, Level: l.st.Level,
		}})
		l.logger.Info("level up",
			zap.Int64("char_id", l.st.CharID),
			zap.Int("level", l.st.Level))
	}
	l.mu.Unlock()
	l.publish(evs)
}

// ---- Gold and resources ----

// AddGold credits gold. Negative amounts are ignored; use SpendGold.
func (l *Ledger) AddGold(amount int64) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	l.st.Gold += amount
	l.mu.Unlock()
}

// SpendGold debits gold, rejecting overdrafts.
func (l *Ledger) SpendGold(amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.st.Gold < amount {
		return ErrInsufficientGold
	}
	l.st.Gold -= amount
	return nil
}

// AddHonor credits arena honor.
func (l *Ledger) AddHonor(amount int64) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	l.st.Honor += amount
	l.mu.Unlock()
}

// AddResource credits a resource counter and notifies quest tracking.
func (l *Ledger) AddResource(name string, amount int) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	l.st.Resources[name] += amount
	charID := l.st.CharID
	l.mu.Unlock()
	l.bus.Publish(events.ResourceGained, events.ResourceGainedPayload{
		CharID: charID, Resource: name, Amount: amount,
	})
}

// SpendResource debits a resource counter, rejecting shortfalls.
func (l *Ledger) SpendResource(name string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.st.Resources[name] < amount {
		return ErrInsufficientResource
	}
	l.st.Resources[name] -= amount
	return nil
}

// ---- Stamina / HP (scheduler hooks) ----

// RegenTick applies one second of stamina and hp regeneration, both
// clamped to their maxima.
func (l *Ledger) RegenTick(staminaRegen, hpRegenBase int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.Stamina = clamp(l.st.Stamina+staminaRegen, 0, l.st.MaxStamina)
	hpRegen := hpRegenBase + l.derivedStatsLocked().HPRegen
	l.st.HP = clamp(l.st.HP+hpRegen, 0, l.st.MaxHP)
}

// SpendStamina debits stamina (used when queuing an action).
func (l *Ledger) SpendStamina(amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.st.Stamina < amount {
		return ErrInsufficientStamina
	}
	l.st.Stamina -= amount
	return nil
}

// RefundStamina credits stamina back, clamped to max.
func (l *Ledger) RefundStamina(amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.Stamina = clamp(l.st.Stamina+amount, 0, l.st.MaxStamina)
}

// SetHP overwrites current hp, clamped to [0, max].
func (l *Ledger) SetHP(hp int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.HP = clamp(hp, 0, l.st.MaxHP)
}

// DamageHP subtracts damage and reports the remaining hp. The whole
// read-modify-write happens under the ledger lock, so a regen tick
// landing mid-blow is never overwritten.
func (l *Ledger) DamageHP(amount int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.HP = clamp(l.st.HP-amount, 0, l.st.MaxHP)
	return l.st.HP
}

// HealHP restores hp, clamped to max.
func (l *Ledger) HealHP(amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.HP = clamp(l.st.HP+amount, 0, l.st.MaxHP)
}

// SpendMana debits mana for a combat skill.
func (l *Ledger) SpendMana(amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.st.Mana < amount {
		return ErrInsufficientMana
	}
	l.st.Mana -= amount
	return nil
}

// IncrementDailyMatches bumps the arena match counter.
func (l *Ledger) IncrementDailyMatches() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.DailyMatches++
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
