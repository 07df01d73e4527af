// Package combat resolves turn-based fights: interactive encounters
// against catalog enemies, the synchronous arena simulation and dungeon
// gauntlets. All formulas read the ledger's derived stats; all
// randomness flows through an injected RNG.
package combat

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/events"
	"github.com/mistfall/emberhold/game/ledger"
	"go.uber.org/zap"
)

var (
	ErrNotIdle        = errors.New("combat: an encounter is already running")
	ErrNotActive      = errors.New("combat: no active encounter")
	ErrUnknownEnemy   = errors.New("combat: unknown enemy id")
	ErrWrongZone      = errors.New("combat: enemy lives in another zone")
	ErrSkillLocked    = errors.New("combat: skill not unlocked")
	ErrSkillNotActive = errors.New("combat: skill has no combat use")
)

// Phase is the encounter lifecycle state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseActive  Phase = "active"
	PhaseVictory Phase = "victory"
	PhaseDefeat  Phase = "defeat"
)

// EnemyState is the mutable per-encounter snapshot of a catalog enemy,
// with any world-event modifier already applied. The catalog entry
// itself is never touched.
type EnemyState struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Level   int            `json:"level"`
	HP      int            `json:"hp"`
	MaxHP   int            `json:"max_hp"`
	Attack  int            `json:"attack"`
	Defense int            `json:"defense"`
	Drops   []catalog.Drop `json:"-"`
}

// Encounter is one player-versus-enemy fight. A player holds at most
// one at a time; a finished encounter must be ended before the next
// one starts.
type Encounter struct {
	mu     sync.Mutex
	phase  Phase
	enemy  EnemyState
	xpMult float64
	log    []string

	led    *ledger.Ledger
	cat    *catalog.Catalog
	bus    *events.Bus
	rng    RNG
	logger *zap.Logger
}

// NewEncounter creates an idle encounter bound to a ledger.
func NewEncounter(led *ledger.Ledger, cat *catalog.Catalog, bus *events.Bus, rng RNG, logger *zap.Logger) *Encounter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = NewRNG()
	}
	return &Encounter{phase: PhaseIdle, led: led, cat: cat, bus: bus, rng: rng, logger: logger}
}

// Start snapshots the enemy and enters the active phase. An active
// world event's enemy modifier is baked into the snapshot here and
// never re-read mid-fight.
func (e *Encounter) Start(enemyID string, ev *catalog.Event) error {
	return e.start(enemyID, ev, false)
}

// start is the shared entry. Dungeons set inDungeon to skip the zone
// gate: a gauntlet visits its enemies wherever they live.
func (e *Encounter) start(enemyID string, ev *catalog.Event, inDungeon bool) error {
	enemy := e.cat.Enemy(enemyID)
	if enemy == nil {
		return ErrUnknownEnemy
	}
	if !inDungeon && enemy.Zone != "" && enemy.Zone != e.led.Snapshot().Zone {
		return ErrWrongZone
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseIdle {
		return ErrNotIdle
	}
	snap := EnemyState{
		ID:      enemy.ID,
		Name:    enemy.Name,
		Level:   enemy.Level,
		MaxHP:   enemy.MaxHP,
		Attack:  enemy.Attack,
		Defense: enemy.Defense,
		Drops:   enemy.Drops,
	}
	e.xpMult = 1
	if ev != nil {
		if ev.EnemyPrefix != "" {
			snap.Name = ev.EnemyPrefix + " " + snap.Name
		}
		snap.Level += ev.LevelBonus
		if ev.HPMult != 0 {
			snap.MaxHP = int(float64(snap.MaxHP) * ev.HPMult)
		}
		if ev.XPMult != 0 {
			e.xpMult = ev.XPMult
		}
	}
	snap.HP = snap.MaxHP
	e.enemy = snap
	e.phase = PhaseActive
	e.log = []string{fmt.Sprintf("%s appears! (lv %d, %d hp)", snap.Name, snap.Level, snap.MaxHP)}
	return nil
}

// PlayerAttack performs a basic attack. If the enemy survives, its
// riposte resolves in the same call; turn pacing is presentation.
func (e *Encounter) PlayerAttack() error {
	e.mu.Lock()
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return ErrNotActive
	}
	d := e.led.DerivedStats()
	dmg := d.Attack
	if e.rng.Float64() < d.CritChance {
		dmg *= 2
		e.log = append(e.log, fmt.Sprintf("critical hit! you strike %s for %d", e.enemy.Name, dmg))
	} else {
		e.log = append(e.log, fmt.Sprintf("you strike %s for %d", e.enemy.Name, dmg))
	}
	e.enemy.HP -= dmg
	if e.enemy.HP <= 0 {
		e.enemy.HP = 0
		e.finishVictoryLocked()
		return nil
	}
	e.enemyTurnLocked(d)
	return nil
}

// PlayerSkill uses an unlocked active class skill. Damage and heal both
// scale by twice the character's level on top of the skill's base.
func (e *Encounter) PlayerSkill(skillID string) error {
	st := e.led.Snapshot()
	sk := e.cat.Skill(st.Class, skillID)
	if sk == nil {
		return ledger.ErrUnknownID
	}
	if sk.Kind != catalog.SkillActive {
		return ErrSkillNotActive
	}
	if !st.Skills[skillID] {
		return ErrSkillLocked
	}
	e.mu.Lock()
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return ErrNotActive
	}
	if err := e.led.SpendMana(sk.ManaCost); err != nil {
		e.mu.Unlock()
		return err
	}
	scaling := st.Level * 2
	if sk.Damage > 0 {
		dmg := sk.Damage + scaling
		e.enemy.HP -= dmg
		e.log = append(e.log, fmt.Sprintf("%s hits %s for %d", sk.Name, e.enemy.Name, dmg))
	}
	if sk.Heal > 0 {
		heal := sk.Heal + scaling
		e.led.HealHP(heal)
		e.log = append(e.log, fmt.Sprintf("%s restores %d hp", sk.Name, heal))
	}
	if e.enemy.HP <= 0 {
		e.enemy.HP = 0
		e.finishVictoryLocked()
		return nil
	}
	e.enemyTurnLocked(e.led.DerivedStats())
	return nil
}

// enemyTurnLocked resolves the enemy's blow: dodge skips everything,
// block halves, then the damage lands on the ledger's hp.
// Unlocks e.mu before returning.
func (e *Encounter) enemyTurnLocked(d ledger.Derived) {
	if e.rng.Float64() < d.DodgeChance {
		e.log = append(e.log, fmt.Sprintf("you dodge %s's attack", e.enemy.Name))
		e.mu.Unlock()
		return
	}
	dmg := e.enemy.Attack
	if e.rng.Float64() < d.BlockChance {
		dmg /= 2
		e.log = append(e.log, fmt.Sprintf("you block! %s hits for %d", e.enemy.Name, dmg))
	} else {
		e.log = append(e.log, fmt.Sprintf("%s hits you for %d", e.enemy.Name, dmg))
	}
	if hp := e.led.DamageHP(dmg); hp <= 0 {
		e.phase = PhaseDefeat
		e.log = append(e.log, "you fall...")
	}
	e.mu.Unlock()
}

// finishVictoryLocked pays out and publishes the kill. Rewards run
// after the encounter mutex is released so quest handlers may read the
// encounter back. Unlocks e.mu before returning.
func (e *Encounter) finishVictoryLocked() {
	e.phase = PhaseVictory
	enemy := e.enemy
	xpMult := e.xpMult
	e.log = append(e.log, fmt.Sprintf("%s is defeated!", enemy.Name))
	e.mu.Unlock()

	xp := int64(float64(enemy.Level*20) * xpMult)
	gold := int64(enemy.Level * 10)
	honor := int64(5 + enemy.Level*2)
	e.led.AddXP(xp)
	e.led.AddGold(gold)
	e.led.AddHonor(honor)
	for _, drop := range enemy.Drops {
		if e.rng.Float64() < drop.Chance {
			if err := e.led.AddItem(drop.ItemID, drop.Count); err != nil {
				e.logger.Warn("drop skipped", zap.String("item_id", drop.ItemID))
			}
		}
	}
	charID := e.led.Snapshot().CharID
	e.bus.Publish(events.EnemyDefeated, events.EnemyDefeatedPayload{
		CharID: charID, EnemyID: enemy.ID,
	})
}

// End returns the encounter to idle from any phase. Fleeing an active
// fight forfeits nothing but the log.
func (e *Encounter) End() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.phase = PhaseIdle
	e.enemy = EnemyState{}
	e.log = nil
	e.xpMult = 1
}

// Phase reports the current lifecycle state.
func (e *Encounter) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Enemy returns the current enemy snapshot.
func (e *Encounter) Enemy() EnemyState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enemy
}

// Log returns a copy of the combat log so far.
func (e *Encounter) Log() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}
