package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mistfall/emberhold/game/player"
	"github.com/mistfall/emberhold/game/social"
	"github.com/mistfall/emberhold/scheduler"
)

// AdminHandler carries the operator endpoints. They sit behind a
// shared key header rather than a player session.
type AdminHandler struct {
	mgr      *player.Manager
	ranks    *social.Leaderboard
	sched    *scheduler.Scheduler
	adminKey string
}

func NewAdminHandler(mgr *player.Manager, ranks *social.Leaderboard, sched *scheduler.Scheduler, adminKey string) *AdminHandler {
	return &AdminHandler{mgr: mgr, ranks: ranks, sched: sched, adminKey: adminKey}
}

// Gate rejects requests without the operator key. Registered as group
// middleware on the admin routes.
func (h *AdminHandler) Gate(c *gin.Context) {
	if h.adminKey == "" || c.GetHeader("X-Admin-Key") != h.adminKey {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.Next()
}

// Metrics reports the live session count.
// GET /api/admin/metrics
func (h *AdminHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.mgr.Online()})
}

// SchedulerTasks lists the registered periodic tasks.
// GET /api/admin/scheduler
func (h *AdminHandler) SchedulerTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tickers": h.sched.ListTickers()})
}

// SaveAll flushes every live session to the database immediately.
// POST /api/admin/save
func (h *AdminHandler) SaveAll(c *gin.Context) {
	h.mgr.CommitAll()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// KickCharacter persists and detaches one live session.
// POST /api/admin/kick/:char
func (h *AdminHandler) KickCharacter(c *gin.Context) {
	charID, err := strconv.ParseInt(c.Param("char"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad character id"})
		return
	}
	h.mgr.Detach(charID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RefreshRankings rebuilds the leaderboard caches from the database.
// POST /api/admin/rankings/refresh
func (h *AdminHandler) RefreshRankings(c *gin.Context) {
	if err := h.ranks.Refresh(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
