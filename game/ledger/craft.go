package ledger

import (
	"github.com/mistfall/emberhold/game/events"
)

// CraftItem runs a recipe: gold plus every ingredient is validated up
// front and only then deducted, so a failed craft consumes nothing.
func (l *Ledger) CraftItem(recipeID string) error {
	rec := l.cat.Recipe(recipeID)
	if rec == nil {
		return ErrUnknownID
	}
	var evs []pending
	l.mu.Lock()
	if l.st.Gold < rec.GoldCost {
		l.mu.Unlock()
		return ErrInsufficientGold
	}
	for _, ing := range rec.Ingredients {
		if ing.Resource {
			if l.st.Resources[ing.Key] < ing.Amount {
				l.mu.Unlock()
				return ErrInsufficientResource
			}
		} else if l.st.ItemCount(ing.Key) < ing.Amount {
			l.mu.Unlock()
			return ErrInsufficientItems
		}
	}
	l.st.Gold -= rec.GoldCost
	for _, ing := range rec.Ingredients {
		if ing.Resource {
			l.st.Resources[ing.Key] -= ing.Amount
		} else {
			// validated above, cannot fail
			_ = l.removeItemLocked(ing.Key, ing.Amount)
		}
	}
	l.addItemLocked(rec.ResultItem, 1)
	charID := l.st.CharID
	evs = append(evs,
		pending{events.ItemCrafted, events.ItemCraftedPayload{
			CharID: charID, RecipeID: rec.ID, ItemID: rec.ResultItem,
		}},
		pending{events.ItemGained, events.ItemGainedPayload{
			CharID: charID, ItemID: rec.ResultItem, Count: 1,
		}},
	)
	l.mu.Unlock()
	l.publish(evs)
	if rec.XPReward > 0 {
		l.AddXP(rec.XPReward)
	}
	return nil
}

// ConstructBuilding raises a building by one level, charging the base
// cost scaled by the level being built.
func (l *Ledger) ConstructBuilding(buildingID string) error {
	bld := l.cat.Building(buildingID)
	if bld == nil {
		return ErrUnknownID
	}
	var evs []pending
	l.mu.Lock()
	next := l.st.Buildings[buildingID] + 1
	goldCost := bld.GoldCost * int64(next)
	woodCost := bld.WoodCost * next
	stoneCost := bld.StoneCost * next
	if l.st.Gold < goldCost {
		l.mu.Unlock()
		return ErrInsufficientGold
	}
	if l.st.Resources[ResWood] < woodCost || l.st.Resources[ResStone] < stoneCost {
		l.mu.Unlock()
		return ErrInsufficientResource
	}
	l.st.Gold -= goldCost
	l.st.Resources[ResWood] -= woodCost
	l.st.Resources[ResStone] -= stoneCost
	l.st.Buildings[buildingID] = next
	evs = append(evs, pending{events.BuildingConstructed, events.BuildingConstructedPayload{
		CharID: l.st.CharID, Building: buildingID, Level: next,
	}})
	l.mu.Unlock()
	l.publish(evs)
	return nil
}

// HireWorker hires one worker of the given role. Each hire costs
// 50 gold times the role's headcount after the hire; the population
// cap counts workers across every role.
func (l *Ledger) HireWorker(role string) error {
	switch role {
	case RoleWoodsman, RoleMiner, RoleResearcher:
	default:
		return ErrUnknownID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.st.TotalWorkers() >= l.st.MaxPopulation() {
		return ErrPopulationCap
	}
	cost := int64(50 * (l.st.Workers[role] + 1))
	if l.st.Gold < cost {
		return ErrInsufficientGold
	}
	l.st.Gold -= cost
	l.st.Workers[role]++
	return nil
}

// FireWorker dismisses one worker of the role, with no refund. Firing
// from an empty role is a no-op.
func (l *Ledger) FireWorker(role string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.st.Workers[role] > 0 {
		l.st.Workers[role]--
	}
}

// UnlockSkill spends a skill point on a class skill, enforcing the
// level gate and the prerequisite chain.
func (l *Ledger) UnlockSkill(skillID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	sk := l.cat.Skill(l.st.Class, skillID)
	if sk == nil {
		return ErrUnknownID
	}
	if l.st.Skills[skillID] {
		return ErrAlreadyUnlocked
	}
	if l.st.Level < sk.RequiredLevel {
		return ErrLevelTooLow
	}
	if sk.Requires != "" && !l.st.Skills[sk.Requires] {
		return ErrMissingPrereq
	}
	if l.st.SkillPoints < 1 {
		return ErrNoSkillPoints
	}
	l.st.SkillPoints--
	l.st.Skills[skillID] = true
	return nil
}
