package catalog

// Class is a playable character class.
type Class string

const (
	ClassPaladin  Class = "paladin"
	ClassArchmage Class = "archmage"
	ClassRanger   Class = "ranger"
)

// Classes lists every playable class.
var Classes = []Class{ClassPaladin, ClassArchmage, ClassRanger}

// Valid reports whether c is a known class.
func (c Class) Valid() bool {
	for _, k := range Classes {
		if c == k {
			return true
		}
	}
	return false
}

// ItemType categorizes catalog items.
type ItemType string

const (
	ItemResource   ItemType = "resource"
	ItemCurrency   ItemType = "currency"
	ItemEquipment  ItemType = "equipment"
	ItemConsumable ItemType = "consumable"
	ItemMaterial   ItemType = "material"
)

// EquipSlot is a fixed equipment slot on a character.
type EquipSlot string

const (
	SlotHead   EquipSlot = "head"
	SlotBody   EquipSlot = "body"
	SlotHands  EquipSlot = "hands"
	SlotWeapon EquipSlot = "weapon"
)

// EquipSlots lists the fixed slots in display order.
var EquipSlots = []EquipSlot{SlotHead, SlotBody, SlotHands, SlotWeapon}

// StatBonus holds the combat stat bonuses an item, skill or pet grants.
type StatBonus struct {
	Strength     int `json:"strength,omitempty"`
	Intelligence int `json:"intelligence,omitempty"`
	Agility      int `json:"agility,omitempty"`
	Attack       int `json:"attack,omitempty"`
	Defense      int `json:"defense,omitempty"`
	Speed        int `json:"speed,omitempty"`
	HPRegen      int `json:"hp_regen,omitempty"`
}

// Item is an immutable content definition. Inventories hold references
// to these by id, never copies.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      ItemType  `json:"type"`
	Slot      EquipSlot `json:"slot,omitempty"`
	Value     int64     `json:"value"`
	Bonus     StatBonus `json:"bonus"`
	ClassOnly Class     `json:"class_only,omitempty"` // empty = any class
}

// Equippable reports whether the item can occupy an equipment slot.
func (it *Item) Equippable() bool {
	return it.Type == ItemEquipment && it.Slot != ""
}

// Drop is one loot table entry on an enemy.
type Drop struct {
	ItemID string  `json:"item_id"`
	Chance float64 `json:"chance"` // independent roll, 0..1
	Count  int     `json:"count"`
}

// Enemy is a combat encounter definition.
type Enemy struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
	MaxHP   int    `json:"max_hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Zone    string `json:"zone,omitempty"`
	Drops   []Drop `json:"drops,omitempty"`
}

// Ingredient is one input of a recipe. Resource ingredients consume the
// character's resource counters (wood/stone/tech); others consume inventory.
type Ingredient struct {
	Key      string `json:"key"` // resource name or item id
	Amount   int    `json:"amount"`
	Resource bool   `json:"resource,omitempty"`
}

// Recipe crafts one result item from gold plus ingredients.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	ResultItem  string       `json:"result_item"`
	GoldCost    int64        `json:"gold_cost"`
	Ingredients []Ingredient `json:"ingredients"`
	XPReward    int64        `json:"xp_reward"`
}

// SkillKind separates combat actives from passive stat skills.
type SkillKind string

const (
	SkillActive  SkillKind = "active"
	SkillPassive SkillKind = "passive"
)

// Skill is a class skill definition. Active skills are usable in combat;
// passive skills contribute to derived stats once unlocked.
type Skill struct {
	ID            string    `json:"id"`
	Class         Class     `json:"class"`
	Name          string    `json:"name"`
	Kind          SkillKind `json:"kind"`
	RequiredLevel int       `json:"required_level"`
	Requires      string    `json:"requires,omitempty"` // prerequisite skill id
	Damage        int       `json:"damage,omitempty"`
	Heal          int       `json:"heal,omitempty"`
	ManaCost      int       `json:"mana_cost,omitempty"`
	Bonus         StatBonus `json:"bonus"`
}

// RewardType categorizes action rewards.
type RewardType string

const (
	RewardXP       RewardType = "xp"
	RewardGold     RewardType = "gold"
	RewardItem     RewardType = "item"
	RewardResource RewardType = "resource"
)

// Reward is one payout entry of a completed action.
type Reward struct {
	Type   RewardType `json:"type"`
	Key    string     `json:"key,omitempty"` // item id or resource name
	Amount int64      `json:"amount"`
}

// Action is a timed, queueable job (gathering, training, crafting work).
type Action struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DurationS   int      `json:"duration_s"`
	StaminaCost int      `json:"stamina_cost"`
	Building    string   `json:"building,omitempty"` // required building, empty = none
	Zone        string   `json:"zone,omitempty"`     // required zone, empty = any
	Rewards     []Reward `json:"rewards"`
}

// RequirementType categorizes quest requirements.
type RequirementType string

const (
	ReqResource RequirementType = "resource"
	ReqLevel    RequirementType = "level"
	ReqKill     RequirementType = "kill"
	ReqItem     RequirementType = "item"
	ReqAction   RequirementType = "action"
)

// KillAny is the wildcard kill target matching every enemy.
const KillAny = "any"

// Requirement is one condition of a quest.
type Requirement struct {
	Type   RequirementType `json:"type"`
	Target string          `json:"target,omitempty"`
	Amount int             `json:"amount"`
}

// Quest is a quest definition. Daily quests live in a separate pool and
// are re-rolled once per calendar day.
type Quest struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Reqs        []Requirement `json:"reqs"`
	RewardXP    int64         `json:"reward_xp"`
	RewardGold  int64         `json:"reward_gold"`
	RewardItems []string      `json:"reward_items,omitempty"`
	Daily       bool          `json:"daily,omitempty"`
}

// Event is a time-boxed world modifier. At most one is active at a time.
type Event struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DurationS   int     `json:"duration_s"`
	EnemyPrefix string  `json:"enemy_prefix,omitempty"`
	LevelBonus  int     `json:"level_bonus,omitempty"`
	HPMult      float64 `json:"hp_mult,omitempty"` // 0 = unchanged
	XPMult      float64 `json:"xp_mult,omitempty"` // 0 = 1.0
}

// HasEnemyModifier reports whether the event alters enemy snapshots.
func (e *Event) HasEnemyModifier() bool {
	return e.EnemyPrefix != "" || e.LevelBonus != 0 || (e.HPMult != 0 && e.HPMult != 1)
}

// Dungeon is an ordered gauntlet of enemies with a completion bonus.
type Dungeon struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	RequiredLevel int      `json:"required_level"`
	Enemies       []string `json:"enemies"`
	RewardGold    int64    `json:"reward_gold"`
	RewardItems   []string `json:"reward_items,omitempty"`
}

// Pet grants passive stat bonuses while equipped.
type Pet struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Bonus StatBonus `json:"bonus"`
}

// Food restores hp/stamina when consumed.
type Food struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	HP      int    `json:"hp,omitempty"`
	Stamina int    `json:"stamina,omitempty"`
}

// Building is a constructible town building. Cost scales linearly with
// the next level.
type Building struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GoldCost  int64  `json:"gold_cost"`
	WoodCost  int    `json:"wood_cost"`
	StoneCost int    `json:"stone_cost"`
}

// TownHall is the building whose level determines max population.
const TownHall = "townHall"
