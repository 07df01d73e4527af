package player

import (
	"errors"
	"sync"
	"time"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/config"
	"github.com/mistfall/emberhold/game/combat"
	"github.com/mistfall/emberhold/game/ledger"
	"github.com/mistfall/emberhold/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCharacterNotFound = errors.New("player: character not found")
	ErrNameTaken         = errors.New("player: character name already taken")
	ErrInvalidClass      = errors.New("player: unknown class")
	ErrNotYourCharacter  = errors.New("player: character belongs to another account")
)

// Manager owns every live session. The scheduler drives TickAll; the
// API layer attaches and queries sessions by character id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	db     *gorm.DB
	cat    *catalog.Catalog
	cfg    config.GameConfig
	rng    combat.RNG
	logger *zap.Logger
}

// NewManager creates an empty session manager.
func NewManager(db *gorm.DB, cat *catalog.Catalog, cfg config.GameConfig, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[int64]*Session),
		db:       db,
		cat:      cat,
		cfg:      cfg,
		rng:      combat.NewRNG(),
		logger:   logger,
	}
}

// Create makes a new character for the account and attaches its
// session. Name, class and gender are fixed at creation.
func (m *Manager) Create(accountID int64, name string, class catalog.Class, gender string) (*Session, error) {
	if !class.Valid() {
		return nil, ErrInvalidClass
	}
	var count int64
	if err := m.db.Model(&model.Character{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}
	rec := model.Character{
		AccountID: accountID,
		Name:      name,
		Class:     string(class),
		Gender:    gender,
		Level:     1,
	}
	if err := m.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	st := ledger.NewState(rec.ID, name, class, gender)
	sess := m.install(accountID, st)
	sess.Tracker.InitDailyQuests()
	sess.commit(m.db)
	return sess, nil
}

// Attach loads a character's snapshot and brings its session live. An
// already-attached character returns its existing session.
func (m *Manager) Attach(accountID, charID int64) (*Session, error) {
	m.mu.RLock()
	if sess, ok := m.sessions[charID]; ok {
		m.mu.RUnlock()
		if sess.AccountID != accountID {
			return nil, ErrNotYourCharacter
		}
		return sess, nil
	}
	m.mu.RUnlock()

	var rec model.Character
	if err := m.db.First(&rec, charID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	if rec.AccountID != accountID {
		return nil, ErrNotYourCharacter
	}
	st, err := ledger.FromRecord(&rec)
	if err != nil {
		return nil, err
	}
	sess := m.install(accountID, st)
	if err := sess.Tracker.Load(m.db); err != nil {
		m.logger.Warn("quest progress load failed",
			zap.Int64("char_id", charID), zap.Error(err))
	}
	sess.Tracker.InitDailyQuests()
	return sess, nil
}

func (m *Manager) install(accountID int64, st *ledger.State) *Session {
	sess := newSession(accountID, st, m.cat, m.rng, m.cfg.DailyQuestCount, m.logger)
	m.mu.Lock()
	if existing, ok := m.sessions[st.CharID]; ok {
		m.mu.Unlock()
		return existing
	}
	m.sessions[st.CharID] = sess
	m.mu.Unlock()
	m.logger.Info("session attached", zap.Int64("char_id", st.CharID))
	return sess
}

// Get returns a live session, or nil when the character is not
// attached.
func (m *Manager) Get(charID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[charID]
}

// Detach commits and removes a session.
func (m *Manager) Detach(charID int64) {
	m.mu.Lock()
	sess, ok := m.sessions[charID]
	if ok {
		delete(m.sessions, charID)
	}
	m.mu.Unlock()
	if ok {
		sess.commit(m.db)
		sess.close()
		m.logger.Info("session detached", zap.Int64("char_id", charID))
	}
}

// TickAll advances every live session by one tick and commits any that
// have passed the save interval.
func (m *Manager) TickAll(now time.Time) {
	m.mu.RLock()
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.RUnlock()

	saveEvery := time.Duration(m.cfg.SaveIntervalS) * time.Second
	for _, s := range live {
		s.tick(now, m.cfg.StaminaRegen, m.cfg.HPRegenBase)
		if saveEvery > 0 && now.Sub(s.lastSave) >= saveEvery {
			s.commit(m.db)
		}
	}
}

// CommitAll flushes every live session, for shutdown.
func (m *Manager) CommitAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		s.commit(m.db)
	}
}

// Online reports the number of attached sessions.
func (m *Manager) Online() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Characters lists the account's characters from the database, live or
// not.
func (m *Manager) Characters(accountID int64) ([]model.Character, error) {
	var recs []model.Character
	err := m.db.Where("account_id = ?", accountID).Order("id").Find(&recs).Error
	return recs, err
}
