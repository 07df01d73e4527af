package combat

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/ledger"
)

// ErrNoOpponent means the challenged id is not in the offered pool.
var ErrNoOpponent = errors.New("combat: opponent not in arena pool")

// Opponent is a pre-computed arena rival built from another character's
// persisted snapshot. Attack already folds in their class primary stat.
type Opponent struct {
	CharID  int64         `json:"char_id"`
	Name    string        `json:"name"`
	Class   catalog.Class `json:"class"`
	Level   int           `json:"level"`
	MaxHP   int           `json:"max_hp"`
	Attack  int           `json:"attack"`
	Defense int           `json:"defense"`
}

// FightResult is the complete synchronous outcome of one arena match.
type FightResult struct {
	Victory     bool     `json:"victory"`
	Rounds      int      `json:"rounds"`
	HonorGained int64    `json:"honor_gained"`
	Log         []string `json:"log"`
}

// Arena holds the pool of offered opponents and resolves matches.
// Defeated opponents leave the pool until it is refreshed.
type Arena struct {
	mu   sync.Mutex
	pool []Opponent
	led  *ledger.Ledger
}

const maxArenaRounds = 20

// NewArena creates an arena with an empty pool. Matches are fully
// deterministic, so no randomness comes in.
func NewArena(led *ledger.Ledger) *Arena {
	return &Arena{led: led}
}

// SetPool replaces the offered opponents.
func (a *Arena) SetPool(pool []Opponent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pool = append([]Opponent(nil), pool...)
}

// Pool returns the currently offered opponents.
func (a *Arena) Pool() []Opponent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Opponent(nil), a.pool...)
}

// Challenge simulates a full match against a pooled opponent. Both
// sides land one blow per round, damage is attack minus defense with a
// floor of 1, and the fight caps at 20 rounds. Surviving the cap
// counts as a win. The daily match counter moves exactly once per
// call, win or lose.
func (a *Arena) Challenge(opponentID int64) (*FightResult, error) {
	a.mu.Lock()
	idx := -1
	for i, op := range a.pool {
		if op.CharID == opponentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		a.mu.Unlock()
		return nil, ErrNoOpponent
	}
	op := a.pool[idx]
	a.mu.Unlock()

	st := a.led.Snapshot()
	d := a.led.DerivedStats()
	playerHP := st.HP
	oppHP := op.MaxHP

	playerBlow := d.Attack - op.Defense
	if playerBlow < 1 {
		playerBlow = 1
	}
	oppBlow := op.Attack - d.Defense
	if oppBlow < 1 {
		oppBlow = 1
	}

	res := &FightResult{}
	for round := 1; round <= maxArenaRounds; round++ {
		res.Rounds = round
		oppHP -= playerBlow
		res.Log = append(res.Log, fmt.Sprintf("round %d: you hit %s for %d (%d hp left)",
			round, op.Name, playerBlow, maxInt(oppHP, 0)))
		playerHP -= oppBlow
		res.Log = append(res.Log, fmt.Sprintf("round %d: %s hits you for %d (%d hp left)",
			round, op.Name, oppBlow, maxInt(playerHP, 0)))
		if oppHP <= 0 || playerHP <= 0 {
			break
		}
	}

	// Survival decides it, including a mutual knockout or a full-length
	// stalemate: still standing means victory.
	res.Victory = playerHP > 0
	a.led.IncrementDailyMatches()
	if res.Victory {
		res.HonorGained = int64(5 + op.Level*2)
		a.led.AddHonor(res.HonorGained)
		res.Log = append(res.Log, fmt.Sprintf("%s is beaten! +%d honor", op.Name, res.HonorGained))
		a.removeFromPool(opponentID)
	} else {
		res.Log = append(res.Log, "you are beaten...")
	}
	return res, nil
}

func (a *Arena) removeFromPool(charID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, op := range a.pool {
		if op.CharID == charID {
			a.pool = append(a.pool[:i], a.pool[i+1:]...)
			return
		}
	}
}

// OpponentFromSnapshot derives an arena rival from a persisted state.
// The class primary stat feeds the attack the same way a live derived
// profile would, and equipped items contribute their bonuses.
func OpponentFromSnapshot(st *ledger.State, cat *catalog.Catalog) Opponent {
	primary := 5 + st.Level
	op := Opponent{
		CharID: st.CharID,
		Name:   st.Name,
		Class:  st.Class,
		Level:  st.Level,
		MaxHP:  st.MaxHP,
	}
	for _, itemID := range st.Equipment {
		it := cat.Item(itemID)
		if it == nil {
			continue
		}
		op.Attack += it.Bonus.Attack
		op.Defense += it.Bonus.Defense
		switch st.Class {
		case catalog.ClassPaladin:
			primary += it.Bonus.Strength
		case catalog.ClassArchmage:
			primary += it.Bonus.Intelligence
		case catalog.ClassRanger:
			primary += it.Bonus.Agility
		}
	}
	op.Attack += st.Level + primary/2 + 2
	return op
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
