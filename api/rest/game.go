package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/player"
)

// GameHandler covers the character-building verbs: crafting, town
// construction, workers, equipment, skills, and travel.
type GameHandler struct {
	mgr *player.Manager
	cat *catalog.Catalog
}

func NewGameHandler(mgr *player.Manager, cat *catalog.Catalog) *GameHandler {
	return &GameHandler{mgr: mgr, cat: cat}
}

type idRequest struct {
	ID string `json:"id" binding:"required"`
}

// Craft consumes a recipe's gold and ingredients and grants the result.
// POST /api/characters/:id/craft
func (h *GameHandler) Craft(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Ledger.CraftItem(req.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": sess.Ledger.Snapshot()})
}

// Build raises a town building by one level.
// POST /api/characters/:id/build
func (h *GameHandler) Build(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Ledger.ConstructBuilding(req.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buildings": sess.Ledger.Snapshot().Buildings})
}

type workerRequest struct {
	Role string `json:"role" binding:"required"`
}

// HireWorker adds one worker of a role, paying the escalating fee.
// POST /api/characters/:id/workers/hire
func (h *GameHandler) HireWorker(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req workerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Ledger.HireWorker(req.Role); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": sess.Ledger.Snapshot().Workers})
}

// FireWorker releases one worker of a role. No refund.
// POST /api/characters/:id/workers/fire
func (h *GameHandler) FireWorker(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req workerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.Ledger.FireWorker(req.Role)
	c.JSON(http.StatusOK, gin.H{"workers": sess.Ledger.Snapshot().Workers})
}

// Equip puts an owned item into its slot, swapping out the old piece.
// POST /api/characters/:id/equip
func (h *GameHandler) Equip(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Ledger.EquipItem(req.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"equipment": sess.Ledger.Snapshot().Equipment,
		"derived":   sess.Ledger.DerivedStats(),
	})
}

type unequipRequest struct {
	Slot string `json:"slot" binding:"required,oneof=head body hands weapon"`
}

// Unequip empties a slot back into the inventory.
// POST /api/characters/:id/unequip
func (h *GameHandler) Unequip(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req unequipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.Ledger.UnequipItem(catalog.EquipSlot(req.Slot))
	c.JSON(http.StatusOK, gin.H{
		"equipment": sess.Ledger.Snapshot().Equipment,
		"derived":   sess.Ledger.DerivedStats(),
	})
}

// UnlockSkill spends a skill point on a class skill.
// POST /api/characters/:id/skills/unlock
func (h *GameHandler) UnlockSkill(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Ledger.UnlockSkill(req.ID); err != nil {
		fail(c, err)
		return
	}
	st := sess.Ledger.Snapshot()
	c.JSON(http.StatusOK, gin.H{"skills": st.Skills, "skill_points": st.SkillPoints})
}

// Consume eats a food item for HP and stamina.
// POST /api/characters/:id/consume
func (h *GameHandler) Consume(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Ledger.ConsumeFood(req.ID); err != nil {
		fail(c, err)
		return
	}
	st := sess.Ledger.Snapshot()
	c.JSON(http.StatusOK, gin.H{"hp": st.HP, "stamina": st.Stamina})
}

// EquipPet sets an owned pet as the active companion.
// POST /api/characters/:id/pets/equip
func (h *GameHandler) EquipPet(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Ledger.EquipPet(req.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"equipped_pet": req.ID,
		"derived":      sess.Ledger.DerivedStats(),
	})
}

// UnequipPet dismisses the active companion.
// POST /api/characters/:id/pets/unequip
func (h *GameHandler) UnequipPet(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	sess.Ledger.UnequipPet()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type travelRequest struct {
	Zone string `json:"zone" binding:"required"`
}

// Travel moves the character to another zone.
// POST /api/characters/:id/travel
func (h *GameHandler) Travel(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req travelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.Ledger.SetZone(req.Zone)
	c.JSON(http.StatusOK, gin.H{"zone": req.Zone})
}
