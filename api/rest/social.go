package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mistfall/emberhold/game/player"
	"github.com/mistfall/emberhold/game/social"
)

// SocialHandler fronts the market, guilds, chat, and rankings.
type SocialHandler struct {
	mgr    *player.Manager
	market *social.Market
	guilds *social.Guilds
	chat   *social.Chat
	ranks  *social.Leaderboard
}

func NewSocialHandler(mgr *player.Manager, market *social.Market, guilds *social.Guilds, chat *social.Chat, ranks *social.Leaderboard) *SocialHandler {
	return &SocialHandler{mgr: mgr, market: market, guilds: guilds, chat: chat, ranks: ranks}
}

// --- market ---

// MarketListings lists open listings, optionally filtered by item.
// GET /api/market?item=oak_plank
func (h *SocialHandler) MarketListings(c *gin.Context) {
	listings, err := h.market.Listings(c.Request.Context(), c.Query("item"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

type listRequest struct {
	ItemID string `json:"item_id" binding:"required"`
	Count  int    `json:"count" binding:"required,min=1"`
	Price  int64  `json:"price" binding:"required,min=1"`
}

// MarketInsert escrows items out of the inventory into a listing.
// POST /api/characters/:id/market
func (h *SocialHandler) MarketInsert(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	listing, err := h.market.Insert(c.Request.Context(), sess.Ledger, req.ItemID, req.Count, req.Price)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// MarketCancel pulls a listing and returns the escrowed items.
// DELETE /api/characters/:id/market/:listing
func (h *SocialHandler) MarketCancel(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	if err := h.market.Cancel(c.Request.Context(), sess.Ledger, c.Param("listing")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarketBuy purchases a listing outright.
// POST /api/characters/:id/market/:listing/buy
func (h *SocialHandler) MarketBuy(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	listing, err := h.market.Buy(c.Request.Context(), sess.Ledger, c.Param("listing"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": listing, "gold": sess.Ledger.Snapshot().Gold})
}

// --- guilds ---

// GuildList lists all guilds.
// GET /api/guilds
func (h *SocialHandler) GuildList(c *gin.Context) {
	guilds, err := h.guilds.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guilds": guilds})
}

// GuildInfo returns one guild with its member roster.
// GET /api/guilds/:guild
func (h *SocialHandler) GuildInfo(c *gin.Context) {
	guildID, err := strconv.ParseInt(c.Param("guild"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad guild id"})
		return
	}
	info, err := h.guilds.Info(c.Request.Context(), guildID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

type guildCreateRequest struct {
	Name string `json:"name" binding:"required,min=2,max=24"`
}

// GuildCreate founds a guild with the character as leader.
// POST /api/characters/:id/guild
func (h *SocialHandler) GuildCreate(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req guildCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	guild, err := h.guilds.Create(c.Request.Context(), sess.CharID, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guild": guild})
}

// GuildJoin joins an existing guild as a plain member.
// POST /api/characters/:id/guild/:guild/join
func (h *SocialHandler) GuildJoin(c *gin.Context) {
	h.guildAction(c, func(sess *player.Session, guildID int64) error {
		return h.guilds.Join(c.Request.Context(), guildID, sess.CharID)
	})
}

// GuildLeave leaves the guild. Leaders must disband instead.
// POST /api/characters/:id/guild/:guild/leave
func (h *SocialHandler) GuildLeave(c *gin.Context) {
	h.guildAction(c, func(sess *player.Session, guildID int64) error {
		return h.guilds.Leave(c.Request.Context(), guildID, sess.CharID)
	})
}

// GuildDisband deletes the guild. Leader only.
// POST /api/characters/:id/guild/:guild/disband
func (h *SocialHandler) GuildDisband(c *gin.Context) {
	h.guildAction(c, func(sess *player.Session, guildID int64) error {
		return h.guilds.Disband(c.Request.Context(), guildID, sess.CharID)
	})
}

type guildKickRequest struct {
	TargetID int64 `json:"target_id" binding:"required"`
}

// GuildKick removes a member. Leader only.
// POST /api/characters/:id/guild/:guild/kick
func (h *SocialHandler) GuildKick(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	guildID, err := strconv.ParseInt(c.Param("guild"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad guild id"})
		return
	}
	var req guildKickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.guilds.Kick(c.Request.Context(), guildID, sess.CharID, req.TargetID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type guildNoticeRequest struct {
	Notice string `json:"notice" binding:"max=256"`
}

// GuildNotice updates the guild board. Officer or leader.
// POST /api/characters/:id/guild/:guild/notice
func (h *SocialHandler) GuildNotice(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	guildID, err := strconv.ParseInt(c.Param("guild"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad guild id"})
		return
	}
	var req guildNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.guilds.SetNotice(c.Request.Context(), guildID, sess.CharID, req.Notice); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *SocialHandler) guildAction(c *gin.Context, fn func(*player.Session, int64) error) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	guildID, err := strconv.ParseInt(c.Param("guild"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad guild id"})
		return
	}
	if err := fn(sess, guildID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// --- chat ---

type chatRequest struct {
	Channel string `json:"channel" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ChatSend posts a message to a channel.
// POST /api/characters/:id/chat
func (h *SocialHandler) ChatSend(c *gin.Context) {
	sess := bindSession(c, h.mgr)
	if sess == nil {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.chat.Send(c.Request.Context(), req.Channel, sess.CharID, sess.Ledger.Snapshot().Name, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// ChatHistory returns the channel backlog, oldest first.
// GET /api/chat/:channel/history?limit=50
func (h *SocialHandler) ChatHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	msgs, err := h.chat.History(c.Request.Context(), c.Param("channel"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// --- rankings ---

// Ranking returns a leaderboard.
// GET /api/rankings/:kind?limit=20  (kind: honor | level)
func (h *SocialHandler) Ranking(c *gin.Context) {
	kind := c.Param("kind")
	if kind != social.RankHonor && kind != social.RankLevel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ranking"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := h.ranks.Top(c.Request.Context(), kind, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
