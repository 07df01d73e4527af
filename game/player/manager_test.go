package player

import (
	"testing"
	"time"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/config"
	"github.com/mistfall/emberhold/game/ledger"
	"github.com/mistfall/emberhold/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		TickMs:          1000,
		SaveIntervalS:   60,
		StaminaRegen:    1,
		HPRegenBase:     1,
		DailyQuestCount: 3,
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(testutil.SetupTestDB(t), catalog.Default(), testGameConfig(), nil)
}

func TestCreateAttachRoundTrip(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Create(10, "aria", catalog.ClassRanger, "f")
	require.NoError(t, err)
	sess.Ledger.AddGold(500)
	sess.Ledger.AddXP(100)
	m.Detach(sess.CharID)
	assert.Nil(t, m.Get(sess.CharID))

	// Reattaching restores the committed snapshot.
	again, err := m.Attach(10, sess.CharID)
	require.NoError(t, err)
	st := again.Ledger.Snapshot()
	assert.Equal(t, int64(500), st.Gold)
	assert.Equal(t, 2, st.Level)
	assert.Equal(t, "aria", st.Name)
	assert.Len(t, again.Tracker.Dailies(), 3)
}

func TestCreateValidations(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Create(10, "bram", "necromancer", "m")
	assert.ErrorIs(t, err, ErrInvalidClass)

	_, err = m.Create(10, "bram", catalog.ClassPaladin, "m")
	require.NoError(t, err)
	_, err = m.Create(11, "bram", catalog.ClassArchmage, "f")
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestAttachGuards(t *testing.T) {
	m := newTestManager(t)
	sess, err := m.Create(10, "cala", catalog.ClassArchmage, "f")
	require.NoError(t, err)

	_, err = m.Attach(99, sess.CharID)
	assert.ErrorIs(t, err, ErrNotYourCharacter)

	_, err = m.Attach(10, 424242)
	assert.ErrorIs(t, err, ErrCharacterNotFound)

	// Attaching a live session twice hands back the same instance.
	again, err := m.Attach(10, sess.CharID)
	require.NoError(t, err)
	assert.Same(t, sess, again)
}

func TestTickAllRegenerates(t *testing.T) {
	m := newTestManager(t)
	sess, err := m.Create(10, "dorn", catalog.ClassPaladin, "m")
	require.NoError(t, err)

	require.NoError(t, sess.Ledger.SpendStamina(10))
	sess.Ledger.SetHP(80)

	m.TickAll(time.Now())
	st := sess.Ledger.Snapshot()
	assert.Equal(t, 41, st.Stamina)
	assert.Equal(t, 81, st.HP)
}

func TestCharactersListing(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Create(10, "edda", catalog.ClassRanger, "f")
	require.NoError(t, err)
	_, err = m.Create(10, "finn", catalog.ClassPaladin, "m")
	require.NoError(t, err)
	_, err = m.Create(11, "gale", catalog.ClassArchmage, "m")
	require.NoError(t, err)

	recs, err := m.Characters(10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "edda", recs[0].Name)
	assert.Equal(t, "finn", recs[1].Name)
}

func TestCommitPersistsQuestProgress(t *testing.T) {
	m := newTestManager(t)
	sess, err := m.Create(10, "hild", catalog.ClassPaladin, "f")
	require.NoError(t, err)

	sess.Ledger.AddResource(ledger.ResWood, 30)
	m.Detach(sess.CharID)

	again, err := m.Attach(10, sess.CharID)
	require.NoError(t, err)
	for _, v := range again.Tracker.Main() {
		if v.Quest.ID == "lumber_supply" {
			assert.Equal(t, []int{30}, v.Progress)
		}
	}
}
