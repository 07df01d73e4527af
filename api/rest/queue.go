package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mistfall/emberhold/game/player"
)

// QueueHandler drives the timed action queue.
type QueueHandler struct {
	mgr *player.Manager
}

func NewQueueHandler(mgr *player.Manager) *QueueHandler {
	return &QueueHandler{mgr: mgr}
}

// List returns the queued actions with remaining time on the head.
// GET /api/characters/:id/queue
func (h *QueueHandler) List(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": sess.Queue.Items()})
}

type enqueueRequest struct {
	ActionID string `json:"action_id" binding:"required"`
}

// Enqueue pays an action's stamina cost and appends it to the queue.
// POST /api/characters/:id/queue
func (h *QueueHandler) Enqueue(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Queue.Enqueue(req.ActionID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"queue":   sess.Queue.Items(),
		"stamina": sess.Ledger.Snapshot().Stamina,
	})
}

type cancelRequest struct {
	Index int `json:"index"`
}

// Cancel drops a queued action and refunds its stamina.
// POST /api/characters/:id/queue/cancel
func (h *QueueHandler) Cancel(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Queue.Cancel(req.Index); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": sess.Queue.Items()})
}
