package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListCharacters(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "alice")

	e.createCharacter(t, token, "Aldric", "paladin")
	e.createCharacter(t, token, "Mira", "ranger")

	w := e.do(t, http.MethodGet, "/api/characters", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	chars := decode(t, w)["characters"].([]interface{})
	assert.Len(t, chars, 2)
}

func TestCreateCharacterValidation(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "bob")

	w := e.do(t, http.MethodPost, "/api/characters", token, map[string]string{
		"name":  "Bogus",
		"class": "necromancer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	e.createCharacter(t, token, "Taken", "paladin")
	w2 := e.do(t, http.MethodPost, "/api/characters", token, map[string]string{
		"name":  "Taken",
		"class": "ranger",
	})
	assert.Equal(t, http.StatusConflict, w2.Code)
}

func TestStateReturnsFullView(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "carol")
	id := e.createCharacter(t, token, "Seren", "archmage")

	w := e.do(t, http.MethodGet, "/api/characters/"+id+"/state", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	st := resp["state"].(map[string]interface{})
	assert.Equal(t, float64(1), st["level"])
	assert.Equal(t, "meadow", st["zone"])
	assert.NotNil(t, resp["derived"])
	assert.NotNil(t, resp["queue"])

	quests := resp["quests"].(map[string]interface{})
	assert.NotEmpty(t, quests["main"])
	assert.Len(t, quests["daily"], 3)
}

func TestForeignCharacterForbidden(t *testing.T) {
	e := newEnv(t)
	tokenA := e.login(t, "owner")
	id := e.createCharacter(t, tokenA, "Mine", "paladin")

	tokenB := e.login(t, "intruder")
	w := e.do(t, http.MethodGet, "/api/characters/"+id+"/state", tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDetachThenReattach(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "dave")
	id := e.createCharacter(t, token, "Wander", "ranger")

	require.Equal(t, http.StatusOK,
		e.do(t, http.MethodPost, "/api/characters/"+id+"/detach", token, nil).Code)

	// State reattaches from the saved row.
	w := e.do(t, http.MethodGet, "/api/characters/"+id+"/state", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContentIsPublic(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/content", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.NotEmpty(t, resp["items"])
	assert.NotEmpty(t, resp["enemies"])
}
