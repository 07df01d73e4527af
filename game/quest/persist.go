package quest

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/mistfall/emberhold/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Save mirrors the tracker's state to the database: one QuestProgress
// row per quest plus the daily set record. Best effort; the in-memory
// tracker stays authoritative.
func (t *Tracker) Save(db *gorm.DB) error {
	t.mu.Lock()
	rows := make([]model.QuestProgress, 0, len(t.main)+len(t.daily))
	for _, qs := range append(append([]*questState(nil), t.main...), t.daily...) {
		prog := map[string]int{}
		for i, p := range qs.progress {
			prog[strconv.Itoa(i)] = p
		}
		raw, _ := json.Marshal(prog)
		row := model.QuestProgress{
			CharID:    t.charID,
			QuestID:   qs.quest.ID,
			Daily:     qs.quest.Daily,
			Progress:  raw,
			Completed: qs.completed,
		}
		if qs.completed {
			now := time.Now()
			row.CompletedAt = &now
		}
		rows = append(rows, row)
	}
	var set *model.DailyQuestSet
	if t.dailyDate != "" {
		ids := make([]string, len(t.daily))
		for i, qs := range t.daily {
			ids[i] = qs.quest.ID
		}
		raw, _ := json.Marshal(ids)
		set = &model.DailyQuestSet{CharID: t.charID, Date: t.dailyDate, QuestIDs: raw}
	}
	t.mu.Unlock()

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("char_id = ?", t.charID).Delete(&model.QuestProgress{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if set != nil {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(set).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Load restores progress from the database. A daily set saved on a
// previous calendar day is discarded; InitDailyQuests will re-roll it.
func (t *Tracker) Load(db *gorm.DB) error {
	var rows []model.QuestProgress
	if err := db.Where("char_id = ?", t.charID).Find(&rows).Error; err != nil {
		return err
	}
	var set model.DailyQuestSet
	haveSet := db.Where("char_id = ?", t.charID).First(&set).Error == nil

	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.now().Format("2006-01-02")
	if haveSet && set.Date == today {
		var ids []string
		if json.Unmarshal(set.QuestIDs, &ids) == nil {
			t.daily = t.daily[:0]
			for _, id := range ids {
				if q := t.cat.Quest(id); q != nil {
					t.daily = append(t.daily, newQuestState(q))
				}
			}
			t.dailyDate = set.Date
		}
	}

	byID := map[string]*questState{}
	for _, qs := range t.main {
		byID[qs.quest.ID] = qs
	}
	for _, qs := range t.daily {
		byID[qs.quest.ID] = qs
	}
	for _, row := range rows {
		qs, ok := byID[row.QuestID]
		if !ok {
			continue // quest removed from catalog or stale daily
		}
		var prog map[string]int
		if json.Unmarshal(row.Progress, &prog) == nil {
			for key, p := range prog {
				if i, err := strconv.Atoi(key); err == nil && i < len(qs.progress) {
					qs.progress[i] = p
				}
			}
		}
		qs.completed = row.Completed
	}
	return nil
}
