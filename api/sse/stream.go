// Package sse streams pub/sub channels to clients as server-sent
// events. It is the read side of chat and world-event fan-out; writes
// stay on the REST endpoints.
package sse

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mistfall/emberhold/cache"
	"github.com/mistfall/emberhold/game/social"
)

// WorldEventChannel is the pub/sub channel world event transitions are
// published on.
const WorldEventChannel = "events.world"

type StreamHandler struct {
	ps     cache.PubSub
	logger *zap.Logger
}

func NewStreamHandler(ps cache.PubSub, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{ps: ps, logger: logger}
}

// Chat streams new messages on one chat channel.
// GET /api/stream/chat/:channel
func (h *StreamHandler) Chat(c *gin.Context) {
	h.stream(c, social.PubSubChannel(c.Param("channel")))
}

// WorldEvents streams world event start/end notices.
// GET /api/stream/events
func (h *StreamHandler) WorldEvents(c *gin.Context) {
	h.stream(c, WorldEventChannel)
}

func (h *StreamHandler) stream(c *gin.Context, channel string) {
	msgs, cancel, err := h.ps.Subscribe(c.Request.Context(), channel)
	if err != nil {
		h.logger.Warn("sse subscribe failed", zap.String("channel", channel), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			c.SSEvent("message", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
