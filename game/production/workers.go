package production

import (
	"github.com/mistfall/emberhold/game/ledger"
)

// Worker output rates per tick, and the building whose level boosts
// each role's yield.
var workerRates = map[string]struct {
	Resource string
	BaseRate float64
	Building string
	Bonus    float64 // yield multiplier gained per building level
}{
	ledger.RoleWoodsman:   {Resource: ledger.ResWood, BaseRate: 1, Building: "lumberMill", Bonus: 0.5},
	ledger.RoleMiner:      {Resource: ledger.ResStone, BaseRate: 1, Building: "mine", Bonus: 0.5},
	ledger.RoleResearcher: {Resource: ledger.ResTech, BaseRate: 0.5, Building: "library", Bonus: 0.25},
}

// ProduceTick applies one tick of passive worker output: each role
// yields count × base rate, scaled by its building's level, floored.
func ProduceTick(led *ledger.Ledger) {
	st := led.Snapshot()
	for role, rate := range workerRates {
		count := st.Workers[role]
		if count == 0 {
			continue
		}
		yield := float64(count) * rate.BaseRate
		yield *= 1 + float64(st.Buildings[rate.Building])*rate.Bonus
		if n := int(yield); n > 0 {
			led.AddResource(rate.Resource, n)
		}
	}
}
