package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mistfall/emberhold/game/player"
	"github.com/mistfall/emberhold/game/quest"
)

// QuestHandler exposes quest progress and the world event ticker.
type QuestHandler struct {
	mgr   *player.Manager
	world *quest.WorldEvents
}

func NewQuestHandler(mgr *player.Manager, world *quest.WorldEvents) *QuestHandler {
	return &QuestHandler{mgr: mgr, world: world}
}

// List returns the character's main-line and daily quest progress.
// GET /api/characters/:id/quests
func (h *QuestHandler) List(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"main":  sess.Tracker.Main(),
		"daily": sess.Tracker.Dailies(),
	})
}

// WorldEvent reports the currently active world event, if any.
// GET /api/events/current
func (h *QuestHandler) WorldEvent(c *gin.Context) {
	ev := h.world.Active()
	if ev == nil {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active":     true,
		"event":      ev,
		"started_at": h.world.StartedAt(),
	})
}
