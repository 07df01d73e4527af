package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/combat"
	"github.com/mistfall/emberhold/game/ledger"
	"github.com/mistfall/emberhold/game/player"
	"github.com/mistfall/emberhold/game/quest"
	"github.com/mistfall/emberhold/model"
)

// CombatHandler runs PvE encounters, dungeons, and the arena.
type CombatHandler struct {
	mgr      *player.Manager
	cat      *catalog.Catalog
	db       *gorm.DB
	world    *quest.WorldEvents
	poolSize int
}

func NewCombatHandler(mgr *player.Manager, cat *catalog.Catalog, db *gorm.DB, world *quest.WorldEvents, poolSize int) *CombatHandler {
	return &CombatHandler{mgr: mgr, cat: cat, db: db, world: world, poolSize: poolSize}
}

type fightRequest struct {
	EnemyID string `json:"enemy_id" binding:"required"`
}

// Start opens an encounter against an enemy, with the active world
// event's modifier baked into the enemy for the whole fight.
// POST /api/characters/:id/combat/start
func (h *CombatHandler) Start(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req fightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Encounter.Start(req.EnemyID, h.world.Active()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.encounterView(sess))
}

// Attack performs one basic attack round.
// POST /api/characters/:id/combat/attack
func (h *CombatHandler) Attack(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	if err := sess.Encounter.PlayerAttack(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.encounterView(sess))
}

type skillRequest struct {
	SkillID string `json:"skill_id" binding:"required"`
}

// Skill casts an unlocked active skill instead of a basic attack.
// POST /api/characters/:id/combat/skill
func (h *CombatHandler) Skill(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Encounter.PlayerSkill(req.SkillID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.encounterView(sess))
}

// Flee abandons the current encounter. No rewards, no penalty.
// POST /api/characters/:id/combat/flee
func (h *CombatHandler) Flee(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	sess.Encounter.End()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// State returns the current encounter view.
// GET /api/characters/:id/combat
func (h *CombatHandler) State(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, h.encounterView(sess))
}

func (h *CombatHandler) encounterView(sess *player.Session) gin.H {
	st := sess.Ledger.Snapshot()
	return gin.H{
		"phase": sess.Encounter.Phase(),
		"enemy": sess.Encounter.Enemy(),
		"log":   sess.Encounter.Log(),
		"hp":    st.HP,
		"mana":  st.Mana,
	}
}

type dungeonRequest struct {
	DungeonID string `json:"dungeon_id" binding:"required"`
}

// Dungeon fights a dungeon's roster back to back in one call.
// POST /api/characters/:id/dungeon
func (h *CombatHandler) Dungeon(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req dungeonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := combat.RunDungeon(req.DungeonID, sess.Ledger, sess.Encounter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "state": sess.Ledger.Snapshot()})
}

// ArenaPool fills the session's arena with nearby-level characters and
// returns them. Live sessions are snapshotted, offline ones hydrated
// from their rows.
// GET /api/characters/:id/arena
func (h *CombatHandler) ArenaPool(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	level := sess.Ledger.Snapshot().Level

	var recs []model.Character
	err := h.db.Where("id <> ? AND level BETWEEN ? AND ?", sess.CharID, level-3, level+3).
		Order("honor DESC").Limit(h.poolSize).Find(&recs).Error
	if err != nil {
		fail(c, err)
		return
	}

	pool := make([]combat.Opponent, 0, len(recs))
	for i := range recs {
		var st *ledger.State
		if live := h.mgr.Get(recs[i].ID); live != nil {
			snap := live.Ledger.Snapshot()
			st = &snap
		} else {
			st, err = ledger.FromRecord(&recs[i])
			if err != nil {
				continue
			}
		}
		pool = append(pool, combat.OpponentFromSnapshot(st, h.cat))
	}
	sess.Arena.SetPool(pool)
	c.JSON(http.StatusOK, gin.H{"opponents": pool})
}

// Challenge fights one pooled opponent to completion.
// POST /api/characters/:id/arena/:opponent
func (h *CombatHandler) Challenge(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	oppID, err := strconv.ParseInt(c.Param("opponent"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad opponent id"})
		return
	}
	res, err := sess.Arena.Challenge(oppID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "honor": sess.Ledger.Snapshot().Honor})
}
