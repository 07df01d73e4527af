package ledger

import "github.com/mistfall/emberhold/catalog"

// Derived is the character's effective combat profile: class base plus
// level, equipped items, unlocked passive skills and the equipped pet.
type Derived struct {
	Strength     int
	Intelligence int
	Agility      int
	Attack       int
	Defense      int
	Speed        int
	HPRegen      int

	CritChance  float64 // 0.05 + agility*0.001, damage ×2
	DodgeChance float64 // 0.03 + agility*0.002
	BlockChance float64 // 0.02 + defense*0.001, damage ×0.5
}

// DerivedStats recomputes the effective profile from current state.
func (l *Ledger) DerivedStats() Derived {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.derivedStatsLocked()
}

func (l *Ledger) derivedStatsLocked() Derived {
	d := Derived{Strength: 5, Intelligence: 5, Agility: 5}

	// The class primary stat grows with level.
	switch l.st.Class {
	case catalog.ClassPaladin:
		d.Strength += l.st.Level
	case catalog.ClassArchmage:
		d.Intelligence += l.st.Level
	case catalog.ClassRanger:
		d.Agility += l.st.Level
	}

	for _, itemID := range l.st.Equipment {
		if it := l.cat.Item(itemID); it != nil {
			d.apply(it.Bonus)
		}
	}
	for skillID, unlocked := range l.st.Skills {
		if !unlocked {
			continue
		}
		sk := l.cat.Skill(l.st.Class, skillID)
		if sk != nil && sk.Kind == catalog.SkillPassive {
			d.apply(sk.Bonus)
		}
	}
	if l.st.EquippedPet != "" {
		if pet := l.cat.Pet(l.st.EquippedPet); pet != nil {
			d.apply(pet.Bonus)
		}
	}

	d.Attack += l.st.Level + d.Strength/2 + 2
	d.CritChance = 0.05 + float64(d.Agility)*0.001
	d.DodgeChance = 0.03 + float64(d.Agility)*0.002
	d.BlockChance = 0.02 + float64(d.Defense)*0.001
	return d
}

func (d *Derived) apply(b catalog.StatBonus) {
	d.Strength += b.Strength
	d.Intelligence += b.Intelligence
	d.Agility += b.Agility
	d.Attack += b.Attack
	d.Defense += b.Defense
	d.Speed += b.Speed
	d.HPRegen += b.HPRegen
}
