package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mistfall/emberhold/api/rest"
	"github.com/mistfall/emberhold/api/sse"
	"github.com/mistfall/emberhold/cache"
	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/config"
	dbadapter "github.com/mistfall/emberhold/db"
	"github.com/mistfall/emberhold/game/events"
	"github.com/mistfall/emberhold/game/ledger"
	"github.com/mistfall/emberhold/game/player"
	"github.com/mistfall/emberhold/game/quest"
	"github.com/mistfall/emberhold/game/social"
	mw "github.com/mistfall/emberhold/middleware"
	"github.com/mistfall/emberhold/model"
	"github.com/mistfall/emberhold/scheduler"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Content ----
	var cat *catalog.Catalog
	if cfg.Content.DataPath != "" {
		cat, err = catalog.Load(cfg.Content.DataPath)
		if err != nil {
			log.Fatalf("content: %v", err)
		}
		logger.Info("content tables loaded", zap.String("path", cfg.Content.DataPath))
	} else {
		cat = catalog.Default()
		logger.Info("using built-in content tables")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Cache / PubSub ----
	cacheCfg := cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
		LocalPubSubBuf:  cfg.Cache.LocalPubSubBuf,
	}
	c, err := cache.New(cacheCfg)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	pubsub, err := cache.NewPubSub(cacheCfg)
	if err != nil {
		log.Fatalf("pubsub: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	// ---- Game Systems ----
	mgr := player.NewManager(db, cat, cfg.Game, logger)

	worldBus := events.NewBus()
	world := quest.NewWorldEvents(cat, worldBus, cfg.Game.EventDelayMin, cfg.Game.EventDelayMax, logger)

	// World event transitions fan out to SSE subscribers.
	forward := func(topic string, payload interface{}) {
		b, err := json.Marshal(map[string]interface{}{"topic": topic, "event": payload})
		if err != nil {
			return
		}
		if err := pubsub.Publish(context.Background(), sse.WorldEventChannel, string(b)); err != nil {
			logger.Warn("world event publish failed", zap.Error(err))
		}
	}
	worldBus.Subscribe(events.WorldEventStarted, 10, "sse-forward", forward)
	worldBus.Subscribe(events.WorldEventEnded, 10, "sse-forward", forward)

	live := func(charID int64) *ledger.Ledger {
		if s := mgr.Get(charID); s != nil {
			return s.Ledger
		}
		return nil
	}
	market := social.NewMarket(db, cat, live, logger)
	guilds := social.NewGuilds(db, logger)
	chat := social.NewChat(db, c, pubsub, cfg.Game.ChatHistory, logger)
	ranks := social.NewLeaderboard(db, c, logger)
	if err := ranks.Refresh(context.Background()); err != nil {
		logger.Warn("leaderboard warm-up failed", zap.Error(err))
	}

	// ---- Periodic Tasks ----
	tick := time.Duration(cfg.Game.TickMs) * time.Millisecond
	if tick <= 0 {
		tick = time.Second
	}
	sched.AddTicker("game_tick", tick, func() {
		now := time.Now()
		mgr.TickAll(now)
		world.Tick(now)
	})
	sched.AddTicker("auto_save", time.Duration(cfg.Game.SaveIntervalS)*time.Second, func() {
		mgr.CommitAll()
	})
	sched.AddTicker("rank_refresh", 5*time.Minute, func() {
		if err := ranks.Refresh(context.Background()); err != nil {
			logger.Warn("leaderboard refresh failed", zap.Error(err))
		}
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	authH := rest.NewAuthHandler(db, c, cfg.Security, logger)
	charH := rest.NewCharacterHandler(mgr)
	gameH := rest.NewGameHandler(mgr, cat)
	queueH := rest.NewQueueHandler(mgr)
	combatH := rest.NewCombatHandler(mgr, cat, db, world, cfg.Game.ArenaPoolSize)
	questH := rest.NewQuestHandler(mgr, world)
	socialH := rest.NewSocialHandler(mgr, market, guilds, chat, ranks)
	contentH := rest.NewContentHandler(cat)
	adminH := rest.NewAdminHandler(mgr, ranks, sched, cfg.Server.AdminKey)

	r.POST("/api/auth/login", authH.Login)
	r.POST("/api/auth/logout", mw.Auth(cfg.Security, c), authH.Logout)
	r.POST("/api/auth/refresh", mw.Auth(cfg.Security, c), authH.Refresh)
	r.GET("/api/content", contentH.Tables)

	api := r.Group("/api", mw.Auth(cfg.Security, c))
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

	// ---- SSE ----
	streamH := sse.NewStreamHandler(pubsub, logger)
	stream := r.Group("/api/stream", mw.Auth(cfg.Security, c))
	stream.GET("/chat/:channel", streamH.Chat)
	stream.GET("/events", streamH.WorldEvents)

	// ---- Serve, flush on shutdown ----
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quitCh := make(chan os.Signal, 1)
	signal.Notify(quitCh, syscall.SIGINT, syscall.SIGTERM)
	<-quitCh
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	mgr.CommitAll()
	logger.Info("state flushed, bye")
}
