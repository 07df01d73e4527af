package combat

import (
	"errors"
	"fmt"

	"github.com/mistfall/emberhold/game/ledger"
	"go.uber.org/zap"
)

var (
	ErrUnknownDungeon = errors.New("combat: unknown dungeon id")
	ErrDungeonLevel   = errors.New("combat: level too low for dungeon")
)

// DungeonResult is the synchronous outcome of one gauntlet run.
type DungeonResult struct {
	Cleared bool     `json:"cleared"`
	Kills   []string `json:"kills"`
	Log     []string `json:"log"`
}

// RunDungeon fights a dungeon's enemies back to back with the regular
// encounter formulas, carrying hp between fights. A full clear pays
// the dungeon bonus on top of each enemy's normal rewards; falling
// anywhere in the gauntlet keeps the kills made so far.
func RunDungeon(dungeonID string, led *ledger.Ledger, enc *Encounter) (*DungeonResult, error) {
	dg := enc.cat.Dungeon(dungeonID)
	if dg == nil {
		return nil, ErrUnknownDungeon
	}
	if led.Snapshot().Level < dg.RequiredLevel {
		return nil, ErrDungeonLevel
	}
	if enc.Phase() != PhaseIdle {
		return nil, ErrNotIdle
	}

	res := &DungeonResult{}
	for _, enemyID := range dg.Enemies {
		if err := enc.start(enemyID, nil, true); err != nil {
			return nil, err
		}
		for enc.Phase() == PhaseActive {
			if err := enc.PlayerAttack(); err != nil {
				enc.End()
				return nil, err
			}
		}
		phase := enc.Phase()
		res.Log = append(res.Log, enc.Log()...)
		enc.End()
		if phase == PhaseDefeat {
			return res, nil
		}
		res.Kills = append(res.Kills, enemyID)
	}

	res.Cleared = true
	led.AddGold(dg.RewardGold)
	for _, itemID := range dg.RewardItems {
		if err := led.AddItem(itemID, 1); err != nil {
			enc.logger.Warn("reward skipped", zap.String("item_id", itemID))
		}
	}
	res.Log = append(res.Log, fmt.Sprintf("%s cleared! +%d gold", dg.Name, dg.RewardGold))
	return res, nil
}
