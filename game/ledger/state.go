package ledger

import (
	"github.com/mistfall/emberhold/catalog"
)

// Resource names tracked as counters on the character.
const (
	ResWood  = "wood"
	ResStone = "stone"
	ResTech  = "tech"
)

// Worker roles and the building/resource each one feeds.
const (
	RoleWoodsman   = "woodsman"
	RoleMiner      = "miner"
	RoleResearcher = "researcher"
)

// Slot is one inventory stack: an item reference plus a count. Item ids
// are unique across the inventory; duplicate gains merge into the
// existing stack.
type Slot struct {
	ItemID string `json:"item_id"`
	Count  int    `json:"count"`
}

// State is the full mutable character aggregate. It is owned by a
// Ledger and must only be touched through ledger operations; the JSON
// tags exist for the snapshot store.
type State struct {
	CharID int64         `json:"char_id"`
	Name   string        `json:"name"`
	Class  catalog.Class `json:"class"`
	Gender string        `json:"gender"`

	Level       int   `json:"level"`
	XP          int64 `json:"xp"`
	MaxXP       int64 `json:"max_xp"`
	SkillPoints int   `json:"skill_points"`

	HP         int `json:"hp"`
	MaxHP      int `json:"max_hp"`
	Stamina    int `json:"stamina"`
	MaxStamina int `json:"max_stamina"`
	Mana       int `json:"mana"`
	MaxMana    int `json:"max_mana"`

	Gold      int64          `json:"gold"`
	Resources map[string]int `json:"resources"`

	Buildings map[string]int `json:"buildings"` // building id → level
	Workers   map[string]int `json:"workers"`   // role → count

	Zone          string `json:"zone"`
	MaxQueueSlots int    `json:"max_queue_slots"`

	Inventory []Slot                       `json:"inventory"`
	Equipment map[catalog.EquipSlot]string `json:"equipment"` // slot → item id

	Skills map[string]bool `json:"skills"` // unlocked skill ids

	Honor        int64          `json:"honor"`
	Diamonds     int            `json:"diamonds"`
	Prime        bool           `json:"prime"`
	Rebirths     int            `json:"rebirths"`
	Ascensions   int            `json:"ascensions"`
	TempleLevels map[string]int `json:"temple_levels"`
	Pets         []string       `json:"pets"`
	EquippedPet  string         `json:"equipped_pet"`
	DailyMatches int            `json:"daily_matches"`
}

// NewState creates a fresh level-1 character. Name, class and gender
// are chosen exactly once, at creation.
func NewState(charID int64, name string, class catalog.Class, gender string) *State {
	return &State{
		CharID:        charID,
		Name:          name,
		Class:         class,
		Gender:        gender,
		Level:         1,
		MaxXP:         100,
		HP:            100,
		MaxHP:         100,
		Stamina:       50,
		MaxStamina:    50,
		Mana:          30,
		MaxMana:       30,
		Resources:     map[string]int{ResWood: 0, ResStone: 0, ResTech: 0},
		Buildings:     map[string]int{},
		Workers:       map[string]int{},
		Zone:          "meadow",
		MaxQueueSlots: 3,
		Equipment:     map[catalog.EquipSlot]string{},
		Skills:        map[string]bool{},
		TempleLevels:  map[string]int{},
	}
}

// MaxPopulation derives the worker cap from the town hall level:
// 5 at level 1, +3 per further level. No town hall = base 5.
func (s State) MaxPopulation() int {
	lvl := s.Buildings[catalog.TownHall]
	if lvl < 1 {
		return 5
	}
	return 5 + (lvl-1)*3
}

// TotalWorkers sums hired workers across every role.
func (s State) TotalWorkers() int {
	total := 0
	for _, n := range s.Workers {
		total += n
	}
	return total
}

// ItemCount returns how many of itemID the inventory holds.
func (s State) ItemCount(itemID string) int {
	for _, slot := range s.Inventory {
		if slot.ItemID == itemID {
			return slot.Count
		}
	}
	return 0
}

func maxQueueSlotsFor(level int) int {
	return 3 + level/5
}
