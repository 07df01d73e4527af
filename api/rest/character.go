package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/player"
	mw "github.com/mistfall/emberhold/middleware"
)

// CharacterHandler manages the account's roster and exposes the full
// live state of an attached character.
type CharacterHandler struct {
	mgr *player.Manager
}

func NewCharacterHandler(mgr *player.Manager) *CharacterHandler {
	return &CharacterHandler{mgr: mgr}
}

type createCharacterRequest struct {
	Name   string `json:"name" binding:"required,min=2,max=24"`
	Class  string `json:"class" binding:"required"`
	Gender string `json:"gender" binding:"omitempty,oneof=male female"`
}

// Create rolls a new character for the account.
// POST /api/characters
func (h *CharacterHandler) Create(c *gin.Context) {
	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.mgr.Create(mw.GetAccountID(c), req.Name, catalog.Class(req.Class), req.Gender)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": sess.CharID, "state": sess.Ledger.Snapshot()})
}

// List returns the account's characters.
// GET /api/characters
func (h *CharacterHandler) List(c *gin.Context) {
	chars, err := h.mgr.Characters(mw.GetAccountID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": chars})
}

// State returns the live snapshot plus everything derived from it:
// computed stats, the action queue, and quest progress.
// GET /api/characters/:id/state
func (h *CharacterHandler) State(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":   sess.Ledger.Snapshot(),
		"derived": sess.Ledger.DerivedStats(),
		"queue":   sess.Queue.Items(),
		"quests": gin.H{
			"main":  sess.Tracker.Main(),
			"daily": sess.Tracker.Dailies(),
		},
	})
}

// Detach persists and drops the character's session.
// POST /api/characters/:id/detach
func (h *CharacterHandler) Detach(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	h.mgr.Detach(sess.CharID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
