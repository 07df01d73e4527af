// Package player binds one character's runtime pieces together and
// manages the set of live sessions the tick loop iterates.
package player

import (
	"time"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/combat"
	"github.com/mistfall/emberhold/game/events"
	"github.com/mistfall/emberhold/game/ledger"
	"github.com/mistfall/emberhold/game/production"
	"github.com/mistfall/emberhold/game/quest"
	"github.com/mistfall/emberhold/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Session is one character's live runtime: the ledger plus everything
// that feeds it. All pieces share the session's private event bus.
type Session struct {
	CharID    int64
	AccountID int64

	Ledger    *ledger.Ledger
	Queue     *production.Queue
	Tracker   *quest.Tracker
	Encounter *combat.Encounter
	Arena     *combat.Arena
	Bus       *events.Bus

	lastSave time.Time
	logger   *zap.Logger
}

func newSession(accountID int64, st *ledger.State, cat *catalog.Catalog, rng combat.RNG, dailyCount int, logger *zap.Logger) *Session {
	bus := events.NewBus()
	led := ledger.New(st, cat, bus, logger)
	s := &Session{
		CharID:    st.CharID,
		AccountID: accountID,
		Ledger:    led,
		Queue:     production.NewQueue(led, cat, bus, logger),
		Tracker:   quest.NewTracker(st.CharID, led, cat, bus, dailyCount, logger),
		Encounter: combat.NewEncounter(led, cat, bus, rng, logger),
		Arena:     combat.NewArena(led),
		Bus:       bus,
		lastSave:  time.Now(),
		logger:    logger,
	}
	return s
}

// tick runs one second of game time for this session.
func (s *Session) tick(now time.Time, staminaRegen, hpRegenBase int) {
	s.Ledger.RegenTick(staminaRegen, hpRegenBase)
	production.ProduceTick(s.Ledger)
	s.Queue.Tick(now)
	s.Tracker.InitDailyQuests() // no-op until the calendar day turns
}

// commit mirrors the session to the database. The in-memory state is
// authoritative; a failed write is a warning, never an error the
// caller sees.
func (s *Session) commit(db *gorm.DB) {
	var rec model.Character
	if err := db.First(&rec, s.CharID).Error; err != nil {
		s.logger.Warn("session commit: load row failed",
			zap.Int64("char_id", s.CharID), zap.Error(err))
		return
	}
	if err := s.Ledger.ToRecord(&rec); err != nil {
		s.logger.Warn("session commit: snapshot failed",
			zap.Int64("char_id", s.CharID), zap.Error(err))
		return
	}
	if err := db.Save(&rec).Error; err != nil {
		s.logger.Warn("session commit: save failed",
			zap.Int64("char_id", s.CharID), zap.Error(err))
	}
	if err := s.Tracker.Save(db); err != nil {
		s.logger.Warn("session commit: quest save failed",
			zap.Int64("char_id", s.CharID), zap.Error(err))
	}
	s.lastSave = time.Now()
}

// close detaches the session from its bus subscriptions.
func (s *Session) close() {
	s.Tracker.Close()
}
