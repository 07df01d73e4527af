// Package social covers the outward-facing economy and community
// features: chat, market, guilds and leaderboards. Everything here
// treats the database and cache as best-effort mirrors of in-memory
// game state, matching the rest of the engine's degradation policy.
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mistfall/emberhold/cache"
	"github.com/mistfall/emberhold/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyMessage = errors.New("social: empty chat message")
	ErrMessageTooLong = errors.New("social: chat message too long")
)

const maxChatLen = 256

// ChannelWorld is the global chat channel; guild channels are
// "guild:<id>".
const ChannelWorld = "world"

// GuildChannel names a guild's private channel.
func GuildChannel(guildID int64) string {
	return fmt.Sprintf("guild:%d", guildID)
}

// Chat persists messages, keeps a cached rolling history per channel
// and fans live messages out through pubsub for SSE streams.
type Chat struct {
	db      *gorm.DB
	cache   cache.Cache
	pubsub  cache.PubSub
	history int
	logger  *zap.Logger
}

// NewChat wires the chat service. history bounds the cached backlog
// per channel.
func NewChat(db *gorm.DB, c cache.Cache, ps cache.PubSub, history int, logger *zap.Logger) *Chat {
	if logger == nil {
		logger = zap.NewNop()
	}
	if history <= 0 {
		history = 100
	}
	return &Chat{db: db, cache: c, pubsub: ps, history: history, logger: logger}
}

func chatHistoryKey(channel string) string { return "chat:history:" + channel }

// PubSubChannel is the pubsub topic a chat channel broadcasts on.
func PubSubChannel(channel string) string { return "chat." + channel }

// Send validates, stores and broadcasts one message. A database or
// cache failure downgrades to a warning; the broadcast still goes out.
func (c *Chat) Send(ctx context.Context, channel string, charID int64, charName, content string) (*model.ChatMessage, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len(content) > maxChatLen {
		return nil, ErrMessageTooLong
	}
	msg := &model.ChatMessage{
		Channel:  channel,
		CharID:   charID,
		CharName: charName,
		Content:  content,
	}
	if err := c.db.WithContext(ctx).Create(msg).Error; err != nil {
		c.logger.Warn("chat persist failed", zap.Error(err))
	}
	raw, _ := json.Marshal(msg)
	key := chatHistoryKey(channel)
	if err := c.cache.LPush(ctx, key, string(raw)); err != nil {
		c.logger.Warn("chat history push failed", zap.Error(err))
	} else if err := c.cache.LTrim(ctx, key, 0, int64(c.history)-1); err != nil {
		c.logger.Warn("chat history trim failed", zap.Error(err))
	}
	if err := c.pubsub.Publish(ctx, PubSubChannel(channel), string(raw)); err != nil {
		c.logger.Warn("chat broadcast failed", zap.Error(err))
	}
	return msg, nil
}

// History returns the most recent messages, newest first. The cache
// serves the common case; a cold cache falls back to the database and
// refills.
func (c *Chat) History(ctx context.Context, channel string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > c.history {
		limit = c.history
	}
	raws, err := c.cache.LRange(ctx, chatHistoryKey(channel), 0, int64(limit)-1)
	if err == nil && len(raws) > 0 {
		out := make([]model.ChatMessage, 0, len(raws))
		for _, raw := range raws {
			var m model.ChatMessage
			if json.Unmarshal([]byte(raw), &m) == nil {
				out = append(out, m)
			}
		}
		return out, nil
	}

	var rows []model.ChatMessage
	if err := c.db.WithContext(ctx).
		Where("channel = ?", channel).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	// Refill warm history, oldest first so list order matches.
	key := chatHistoryKey(channel)
	for i := len(rows) - 1; i >= 0; i-- {
		raw, _ := json.Marshal(&rows[i])
		if err := c.cache.LPush(ctx, key, string(raw)); err != nil {
			break
		}
	}
	return rows, nil
}
