package catalog

// Default returns the built-in content set. It backs tests and any
// deployment without a content.data_path configured.
func Default() *Catalog {
	return New(Tables{
		Items: []*Item{
			{ID: "wood_plank", Name: "Wood Plank", Type: ItemMaterial, Value: 5},
			{ID: "iron_ingot", Name: "Iron Ingot", Type: ItemMaterial, Value: 12},
			{ID: "healing_herb", Name: "Healing Herb", Type: ItemConsumable, Value: 8},
			{ID: "leather_cap", Name: "Leather Cap", Type: ItemEquipment, Slot: SlotHead, Value: 25,
				Bonus: StatBonus{Defense: 2}},
			{ID: "iron_helm", Name: "Iron Helm", Type: ItemEquipment, Slot: SlotHead, Value: 80,
				Bonus: StatBonus{Defense: 5}, ClassOnly: ClassPaladin},
			{ID: "cloth_robe", Name: "Cloth Robe", Type: ItemEquipment, Slot: SlotBody, Value: 40,
				Bonus: StatBonus{Defense: 3, Intelligence: 2}},
			{ID: "chain_mail", Name: "Chain Mail", Type: ItemEquipment, Slot: SlotBody, Value: 120,
				Bonus: StatBonus{Defense: 8}},
			{ID: "leather_gloves", Name: "Leather Gloves", Type: ItemEquipment, Slot: SlotHands, Value: 30,
				Bonus: StatBonus{Agility: 2}},
			{ID: "rusty_sword", Name: "Rusty Sword", Type: ItemEquipment, Slot: SlotWeapon, Value: 20,
				Bonus: StatBonus{Attack: 3, Strength: 1}},
			{ID: "iron_sword", Name: "Iron Sword", Type: ItemEquipment, Slot: SlotWeapon, Value: 140,
				Bonus: StatBonus{Attack: 8, Strength: 3}},
			{ID: "oak_staff", Name: "Oak Staff", Type: ItemEquipment, Slot: SlotWeapon, Value: 130,
				Bonus: StatBonus{Attack: 6, Intelligence: 4}, ClassOnly: ClassArchmage},
			{ID: "short_bow", Name: "Short Bow", Type: ItemEquipment, Slot: SlotWeapon, Value: 130,
				Bonus: StatBonus{Attack: 6, Agility: 4}, ClassOnly: ClassRanger},
			{ID: "wolf_pelt", Name: "Wolf Pelt", Type: ItemMaterial, Value: 10},
			{ID: "slime_gel", Name: "Slime Gel", Type: ItemMaterial, Value: 4},
			{ID: "bread", Name: "Bread", Type: ItemConsumable, Value: 6},
			{ID: "stew", Name: "Hearty Stew", Type: ItemConsumable, Value: 15},
		},
		Enemies: []*Enemy{
			{ID: "slime", Name: "Slime", Level: 1, MaxHP: 30, Attack: 3, Defense: 0, Zone: "meadow",
				Drops: []Drop{{ItemID: "slime_gel", Chance: 0.5, Count: 1}}},
			{ID: "wolf", Name: "Wolf", Level: 3, MaxHP: 55, Attack: 7, Defense: 2, Zone: "forest",
				Drops: []Drop{{ItemID: "wolf_pelt", Chance: 0.4, Count: 1}}},
			{ID: "bandit", Name: "Bandit", Level: 5, MaxHP: 90, Attack: 11, Defense: 4, Zone: "hills",
				Drops: []Drop{
					{ItemID: "rusty_sword", Chance: 0.1, Count: 1},
					{ItemID: "healing_herb", Chance: 0.3, Count: 2},
				}},
			{ID: "stone_golem", Name: "Stone Golem", Level: 9, MaxHP: 200, Attack: 16, Defense: 10, Zone: "quarry",
				Drops: []Drop{{ItemID: "iron_ingot", Chance: 0.6, Count: 2}}},
		},
		Recipes: []*Recipe{
			{ID: "craft_iron_sword", Name: "Forge Iron Sword", ResultItem: "iron_sword", GoldCost: 50,
				Ingredients: []Ingredient{
					{Key: "iron_ingot", Amount: 3},
					{Key: "wood", Amount: 10, Resource: true},
				}, XPReward: 40},
			{ID: "craft_chain_mail", Name: "Forge Chain Mail", ResultItem: "chain_mail", GoldCost: 80,
				Ingredients: []Ingredient{
					{Key: "iron_ingot", Amount: 5},
				}, XPReward: 60},
			{ID: "craft_wood_plank", Name: "Saw Planks", ResultItem: "wood_plank", GoldCost: 0,
				Ingredients: []Ingredient{
					{Key: "wood", Amount: 5, Resource: true},
				}, XPReward: 5},
		},
		Skills: []*Skill{
			{ID: "holy_strike", Class: ClassPaladin, Name: "Holy Strike", Kind: SkillActive,
				RequiredLevel: 2, Damage: 12, ManaCost: 5},
			{ID: "divine_shield", Class: ClassPaladin, Name: "Divine Shield", Kind: SkillPassive,
				RequiredLevel: 4, Requires: "holy_strike", Bonus: StatBonus{Defense: 4}},
			{ID: "lay_on_hands", Class: ClassPaladin, Name: "Lay on Hands", Kind: SkillActive,
				RequiredLevel: 6, Requires: "divine_shield", Heal: 25, ManaCost: 10},
			{ID: "fireball", Class: ClassArchmage, Name: "Fireball", Kind: SkillActive,
				RequiredLevel: 2, Damage: 16, ManaCost: 8},
			{ID: "arcane_mind", Class: ClassArchmage, Name: "Arcane Mind", Kind: SkillPassive,
				RequiredLevel: 4, Requires: "fireball", Bonus: StatBonus{Intelligence: 5}},
			{ID: "piercing_shot", Class: ClassRanger, Name: "Piercing Shot", Kind: SkillActive,
				RequiredLevel: 2, Damage: 14, ManaCost: 6},
			{ID: "fleet_foot", Class: ClassRanger, Name: "Fleet Foot", Kind: SkillPassive,
				RequiredLevel: 4, Requires: "piercing_shot", Bonus: StatBonus{Agility: 5}},
		},
		Actions: []*Action{
			{ID: "chop_wood", Name: "Chop Wood", DurationS: 5, StaminaCost: 4,
				Rewards: []Reward{
					{Type: RewardResource, Key: "wood", Amount: 6},
					{Type: RewardXP, Amount: 5},
				}},
			{ID: "mine_stone", Name: "Mine Stone", DurationS: 8, StaminaCost: 6,
				Rewards: []Reward{
					{Type: RewardResource, Key: "stone", Amount: 5},
					{Type: RewardXP, Amount: 7},
				}},
			{ID: "gather_herbs", Name: "Gather Herbs", DurationS: 6, StaminaCost: 4, Zone: "meadow",
				Rewards: []Reward{
					{Type: RewardItem, Key: "healing_herb", Amount: 2},
					{Type: RewardXP, Amount: 6},
				}},
			{ID: "smelt_iron", Name: "Smelt Iron", DurationS: 12, StaminaCost: 8, Building: "mine",
				Rewards: []Reward{
					{Type: RewardItem, Key: "iron_ingot", Amount: 1},
					{Type: RewardXP, Amount: 10},
				}},
			{ID: "study_tomes", Name: "Study Tomes", DurationS: 10, StaminaCost: 5, Building: "library",
				Rewards: []Reward{
					{Type: RewardResource, Key: "tech", Amount: 3},
					{Type: RewardXP, Amount: 9},
				}},
		},
		Quests: []*Quest{
			{ID: "first_steps", Title: "First Steps",
				Description: "Reach level 3.",
				Reqs:        []Requirement{{Type: ReqLevel, Amount: 3}},
				RewardXP:    50, RewardGold: 100},
			{ID: "lumber_supply", Title: "Lumber Supply",
				Description: "Stockpile 50 wood.",
				Reqs:        []Requirement{{Type: ReqResource, Target: "wood", Amount: 50}},
				RewardXP:    60, RewardGold: 80},
			{ID: "pest_control", Title: "Pest Control",
				Description: "Slay 5 slimes.",
				Reqs:        []Requirement{{Type: ReqKill, Target: "slime", Amount: 5}},
				RewardXP:    120, RewardGold: 150, RewardItems: []string{"healing_herb"}},
			{ID: "armed_and_ready", Title: "Armed and Ready",
				Description: "Obtain an iron sword.",
				Reqs:        []Requirement{{Type: ReqItem, Target: "iron_sword", Amount: 1}},
				RewardXP:    150, RewardGold: 200},
			// Daily pool.
			{ID: "daily_hunt", Title: "Daily Hunt", Daily: true,
				Reqs:     []Requirement{{Type: ReqKill, Target: KillAny, Amount: 3}},
				RewardXP: 80, RewardGold: 60},
			{ID: "daily_forage", Title: "Daily Forage", Daily: true,
				Reqs:     []Requirement{{Type: ReqResource, Target: "wood", Amount: 20}},
				RewardXP: 70, RewardGold: 50},
			{ID: "daily_labor", Title: "Daily Labor", Daily: true,
				Reqs:     []Requirement{{Type: ReqAction, Target: "", Amount: 5}},
				RewardXP: 90, RewardGold: 70},
			{ID: "daily_mining", Title: "Daily Mining", Daily: true,
				Reqs:     []Requirement{{Type: ReqResource, Target: "stone", Amount: 15}},
				RewardXP: 75, RewardGold: 55},
		},
		Events: []*Event{
			{ID: "blood_moon", Name: "Blood Moon", DurationS: 120,
				EnemyPrefix: "Frenzied", LevelBonus: 2, HPMult: 1.5, XPMult: 2.0},
			{ID: "harvest_festival", Name: "Harvest Festival", DurationS: 180, XPMult: 1.5},
			{ID: "giant_incursion", Name: "Giant Incursion", DurationS: 90,
				EnemyPrefix: "Giant", LevelBonus: 4, HPMult: 2.0, XPMult: 2.5},
		},
		Dungeons: []*Dungeon{
			{ID: "old_quarry", Name: "The Old Quarry", RequiredLevel: 8,
				Enemies:    []string{"bandit", "bandit", "stone_golem"},
				RewardGold: 500, RewardItems: []string{"iron_ingot"}},
		},
		Pets: []*Pet{
			{ID: "ember_fox", Name: "Ember Fox", Bonus: StatBonus{Agility: 2}},
			{ID: "stone_tortoise", Name: "Stone Tortoise", Bonus: StatBonus{Defense: 3}},
		},
		Foods: []*Food{
			{ID: "bread", Name: "Bread", Stamina: 10},
			{ID: "stew", Name: "Hearty Stew", HP: 20, Stamina: 5},
		},
		Buildings: []*Building{
			{ID: TownHall, Name: "Town Hall", GoldCost: 200, WoodCost: 50, StoneCost: 30},
			{ID: "lumberMill", Name: "Lumber Mill", GoldCost: 100, WoodCost: 30, StoneCost: 10},
			{ID: "mine", Name: "Mine", GoldCost: 120, WoodCost: 20, StoneCost: 40},
			{ID: "library", Name: "Library", GoldCost: 180, WoodCost: 25, StoneCost: 25},
			{ID: "temple", Name: "Temple", GoldCost: 400, WoodCost: 60, StoneCost: 80},
		},
	})
}
