package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Catalog is the static, read-only content database. All lookups are
// pure and return nil for unknown ids; callers must guard (an unknown
// id is never a crash, per the data-integrity rules).
type Catalog struct {
	items     map[string]*Item
	enemies   map[string]*Enemy
	recipes   map[string]*Recipe
	skills    map[Class]map[string]*Skill
	actions   map[string]*Action
	quests    map[string]*Quest
	dailies   []*Quest
	events    []*Event
	dungeons  map[string]*Dungeon
	pets      map[string]*Pet
	foods     map[string]*Food
	buildings map[string]*Building
	tables    Tables
}

// Tables is the raw on-disk shape of the content set.
type Tables struct {
	Items     []*Item     `json:"items"`
	Enemies   []*Enemy    `json:"enemies"`
	Recipes   []*Recipe   `json:"recipes"`
	Skills    []*Skill    `json:"skills"`
	Actions   []*Action   `json:"actions"`
	Quests    []*Quest    `json:"quests"`
	Events    []*Event    `json:"events"`
	Dungeons  []*Dungeon  `json:"dungeons"`
	Pets      []*Pet      `json:"pets"`
	Foods     []*Food     `json:"foods"`
	Buildings []*Building `json:"buildings"`
}

// New builds a Catalog from content tables.
func New(t Tables) *Catalog {
	c := &Catalog{
		items:     make(map[string]*Item),
		enemies:   make(map[string]*Enemy),
		recipes:   make(map[string]*Recipe),
		skills:    make(map[Class]map[string]*Skill),
		actions:   make(map[string]*Action),
		quests:    make(map[string]*Quest),
		dungeons:  make(map[string]*Dungeon),
		pets:      make(map[string]*Pet),
		foods:     make(map[string]*Food),
		buildings: make(map[string]*Building),
		tables:    t,
	}
	for _, it := range t.Items {
		c.items[it.ID] = it
	}
	for _, e := range t.Enemies {
		c.enemies[e.ID] = e
	}
	for _, r := range t.Recipes {
		c.recipes[r.ID] = r
	}
	for _, s := range t.Skills {
		byID := c.skills[s.Class]
		if byID == nil {
			byID = make(map[string]*Skill)
			c.skills[s.Class] = byID
		}
		byID[s.ID] = s
	}
	for _, a := range t.Actions {
		c.actions[a.ID] = a
	}
	for _, q := range t.Quests {
		c.quests[q.ID] = q
		if q.Daily {
			c.dailies = append(c.dailies, q)
		}
	}
	c.events = t.Events
	for _, d := range t.Dungeons {
		c.dungeons[d.ID] = d
	}
	for _, p := range t.Pets {
		c.pets[p.ID] = p
	}
	for _, f := range t.Foods {
		c.foods[f.ID] = f
	}
	for _, b := range t.Buildings {
		c.buildings[b.ID] = b
	}
	return c
}

// Load reads every content table from dir. Missing files are tolerated
// (the corresponding table stays empty); malformed JSON is an error.
func Load(dir string) (*Catalog, error) {
	var t Tables
	files := []struct {
		name string
		dst  interface{}
	}{
		{"items.json", &t.Items},
		{"enemies.json", &t.Enemies},
		{"recipes.json", &t.Recipes},
		{"skills.json", &t.Skills},
		{"actions.json", &t.Actions},
		{"quests.json", &t.Quests},
		{"events.json", &t.Events},
		{"dungeons.json", &t.Dungeons},
		{"pets.json", &t.Pets},
		{"foods.json", &t.Foods},
		{"buildings.json", &t.Buildings},
	}
	for _, f := range files {
		raw, err := os.ReadFile(filepath.Join(dir, f.name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", f.name, err)
		}
	}
	return New(t), nil
}

// ---- Lookups ----

func (c *Catalog) Item(id string) *Item       { return c.items[id] }
func (c *Catalog) Enemy(id string) *Enemy     { return c.enemies[id] }
func (c *Catalog) Recipe(id string) *Recipe   { return c.recipes[id] }
func (c *Catalog) Action(id string) *Action   { return c.actions[id] }
func (c *Catalog) Quest(id string) *Quest     { return c.quests[id] }
func (c *Catalog) Dungeon(id string) *Dungeon { return c.dungeons[id] }
func (c *Catalog) Pet(id string) *Pet         { return c.pets[id] }
func (c *Catalog) Food(id string) *Food       { return c.foods[id] }

// Skill looks up a skill by class and id.
func (c *Catalog) Skill(class Class, id string) *Skill {
	byID := c.skills[class]
	if byID == nil {
		return nil
	}
	return byID[id]
}

// Building returns the building definition for id, or nil.
func (c *Catalog) Building(id string) *Building { return c.buildings[id] }

// MainQuests returns all non-daily quest definitions.
func (c *Catalog) MainQuests() []*Quest {
	out := make([]*Quest, 0, len(c.quests))
	for _, q := range c.quests {
		if !q.Daily {
			out = append(out, q)
		}
	}
	return out
}

// DailyPool returns the pool daily quests are drawn from.
func (c *Catalog) DailyPool() []*Quest { return c.dailies }

// Events returns all world event definitions.
func (c *Catalog) Events() []*Event { return c.events }

// Tables returns the raw content set, as loaded.
func (c *Catalog) Tables() Tables { return c.tables }

// Actions returns every action definition (unordered).
func (c *Catalog) Actions() []*Action {
	out := make([]*Action, 0, len(c.actions))
	for _, a := range c.actions {
		out = append(out, a)
	}
	return out
}
