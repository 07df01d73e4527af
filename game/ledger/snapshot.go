package ledger

import (
	"encoding/json"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/model"
)

// ToRecord packs the current state into its persisted row, refreshing
// the indexed columns the social queries read.
func (l *Ledger) ToRecord(rec *model.Character) error {
	st := l.Snapshot()
	raw, err := json.Marshal(&st)
	if err != nil {
		return err
	}
	rec.ID = st.CharID
	rec.Name = st.Name
	rec.Class = string(st.Class)
	rec.Gender = st.Gender
	rec.Level = st.Level
	rec.Exp = st.XP
	rec.Gold = st.Gold
	rec.Honor = st.Honor
	rec.State = raw
	return nil
}

// FromRecord restores a state from its persisted row. A row written
// before the snapshot column existed falls back to the indexed columns.
func FromRecord(rec *model.Character) (*State, error) {
	if len(rec.State) == 0 {
		st := NewState(rec.ID, rec.Name, catalog.Class(rec.Class), rec.Gender)
		st.Level = rec.Level
		st.XP = rec.Exp
		st.Gold = rec.Gold
		st.Honor = rec.Honor
		st.MaxQueueSlots = maxQueueSlotsFor(st.Level)
		return st, nil
	}
	var st State
	if err := json.Unmarshal(rec.State, &st); err != nil {
		return nil, err
	}
	// Maps may be absent in old snapshots; the ledger assumes non-nil.
	if st.Resources == nil {
		st.Resources = map[string]int{}
	}
	if st.Buildings == nil {
		st.Buildings = map[string]int{}
	}
	if st.Workers == nil {
		st.Workers = map[string]int{}
	}
	if st.Equipment == nil {
		st.Equipment = map[catalog.EquipSlot]string{}
	}
	if st.Skills == nil {
		st.Skills = map[string]bool{}
	}
	if st.TempleLevels == nil {
		st.TempleLevels = map[string]int{}
	}
	return &st, nil
}
