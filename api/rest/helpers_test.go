package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mistfall/emberhold/api/rest"
	"github.com/mistfall/emberhold/cache"
	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/config"
	"github.com/mistfall/emberhold/game/events"
	"github.com/mistfall/emberhold/game/ledger"
	"github.com/mistfall/emberhold/game/player"
	"github.com/mistfall/emberhold/game/quest"
	"github.com/mistfall/emberhold/game/social"
	mw "github.com/mistfall/emberhold/middleware"
	"github.com/mistfall/emberhold/scheduler"
	"github.com/mistfall/emberhold/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// env is a full in-process server: every route registered the same way
// the real bootstrap registers them, backed by in-memory storage.
type env struct {
	r     *gin.Engine
	db    *gorm.DB
	cache cache.Cache
	mgr   *player.Manager
	cat   *catalog.Catalog
	sec   config.SecurityConfig
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	ps := testutil.SetupTestPubSub(t)
	logger := zap.NewNop()
	cat := catalog.Default()

	gameCfg := config.GameConfig{
		StaminaRegen:    1,
		HPRegenBase:     1,
		DailyQuestCount: 3,
		ArenaPoolSize:   10,
		ChatHistory:     50,
	}
	sec := config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: 72 * time.Hour}

	mgr := player.NewManager(db, cat, gameCfg, logger)
	t.Cleanup(mgr.CommitAll)

	worldBus := events.NewBus()
	world := quest.NewWorldEvents(cat, worldBus, time.Minute, 2*time.Minute, logger)

	live := func(charID int64) *ledger.Ledger {
		if s := mgr.Get(charID); s != nil {
			return s.Ledger
		}
		return nil
	}
	market := social.NewMarket(db, cat, live, logger)
	guilds := social.NewGuilds(db, logger)
	chat := social.NewChat(db, c, ps, gameCfg.ChatHistory, logger)
	ranks := social.NewLeaderboard(db, c, logger)

	authH := rest.NewAuthHandler(db, c, sec, logger)
	charH := rest.NewCharacterHandler(mgr)
	gameH := rest.NewGameHandler(mgr, cat)
	queueH := rest.NewQueueHandler(mgr)
	combatH := rest.NewCombatHandler(mgr, cat, db, world, gameCfg.ArenaPoolSize)
	questH := rest.NewQuestHandler(mgr, world)
	socialH := rest.NewSocialHandler(mgr, market, guilds, chat, ranks)
	contentH := rest.NewContentHandler(cat)
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)
	adminH := rest.NewAdminHandler(mgr, ranks, sched, "test-admin-key")

	r := gin.New()
	r.POST("/api/auth/login", authH.Login)
	r.POST("/api/auth/logout", mw.Auth(sec, c), authH.Logout)
	r.POST("/api/auth/refresh", mw.Auth(sec, c), authH.Refresh)
	r.GET("/api/content", contentH.Tables)

	api := r.Group("/api", mw.Auth(sec, c))
	{
		api.GET("/characters", charH.List)
		api.POST("/characters", charH.Create)
		api.GET("/characters/:id/state", charH.State)
		api.POST("/characters/:id/detach", charH.Detach)

		api.POST("/characters/:id/craft", gameH.Craft)
		api.POST("/characters/:id/build", gameH.Build)
		api.POST("/characters/:id/workers/hire", gameH.HireWorker)
		api.POST("/characters/:id/workers/fire", gameH.FireWorker)
		api.POST("/characters/:id/equip", gameH.Equip)
		api.POST("/characters/:id/unequip", gameH.Unequip)
		api.POST("/characters/:id/skills/unlock", gameH.UnlockSkill)
		api.POST("/characters/:id/consume", gameH.Consume)
		api.POST("/characters/:id/travel", gameH.Travel)
		api.POST("/characters/:id/pets/equip", gameH.EquipPet)
		api.POST("/characters/:id/pets/unequip", gameH.UnequipPet)

		api.GET("/characters/:id/queue", queueH.List)
		api.POST("/characters/:id/queue", queueH.Enqueue)
		api.POST("/characters/:id/queue/cancel", queueH.Cancel)

		api.POST("/characters/:id/combat/start", combatH.Start)
		api.POST("/characters/:id/combat/attack", combatH.Attack)
		api.POST("/characters/:id/combat/skill", combatH.Skill)
		api.POST("/characters/:id/combat/flee", combatH.Flee)
		api.GET("/characters/:id/combat", combatH.State)
		api.POST("/characters/:id/dungeon", combatH.Dungeon)
		api.GET("/characters/:id/arena", combatH.ArenaPool)
		api.POST("/characters/:id/arena/:opponent", combatH.Challenge)

		api.GET("/characters/:id/quests", questH.List)
		api.GET("/events/current", questH.WorldEvent)

		api.GET("/market", socialH.MarketListings)
		api.POST("/characters/:id/market", socialH.MarketInsert)
		api.DELETE("/characters/:id/market/:listing", socialH.MarketCancel)
		api.POST("/characters/:id/market/:listing/buy", socialH.MarketBuy)

		api.GET("/guilds", socialH.GuildList)
		api.GET("/guilds/:guild", socialH.GuildInfo)
		api.POST("/characters/:id/guild", socialH.GuildCreate)
		api.POST("/characters/:id/guild/:guild/join", socialH.GuildJoin)
		api.POST("/characters/:id/guild/:guild/leave", socialH.GuildLeave)
		api.POST("/characters/:id/guild/:guild/disband", socialH.GuildDisband)
		api.POST("/characters/:id/guild/:guild/kick", socialH.GuildKick)
		api.POST("/characters/:id/guild/:guild/notice", socialH.GuildNotice)

		api.POST("/characters/:id/chat", socialH.ChatSend)
		api.GET("/chat/:channel/history", socialH.ChatHistory)
		api.GET("/rankings/:kind", socialH.Ranking)

		admin := api.Group("/admin", adminH.Gate)
		admin.GET("/metrics", adminH.Metrics)
		admin.GET("/scheduler", adminH.SchedulerTasks)
		admin.POST("/save", adminH.SaveAll)
		admin.POST("/kick/:char", adminH.KickCharacter)
		admin.POST("/rankings/refresh", adminH.RefreshRankings)
	}

	return &env{r: r, db: db, cache: c, mgr: mgr, cat: cat, sec: sec}
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

// login registers-or-logs-in and returns the bearer token.
func (e *env) login(t *testing.T, username string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "pass1234",
	})
	require.Equal(t, http.StatusOK, w.Code)
	return decode(t, w)["token"].(string)
}

// createCharacter makes a character for the token's account and returns
// its id as a path segment-ready string.
func (e *env) createCharacter(t *testing.T, token, name, class string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/characters", token, map[string]string{
		"name":  name,
		"class": class,
	})
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w)["id"].(float64)
	return strconv.FormatInt(int64(id), 10)
}

// ledgerOf returns the live ledger behind a created character, for
// tests that stage state the API has no shortcut for.
func (e *env) ledgerOf(id string) *ledger.Ledger {
	charID, _ := strconv.ParseInt(id, 10, 64)
	return e.mgr.Get(charID).Ledger
}

// doAdmin is do with the operator key header attached.
func (e *env) doAdmin(t *testing.T, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(nil))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Admin-Key", "test-admin-key")
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func strconvID(f float64) string {
	return strconv.FormatInt(int64(f), 10)
}
