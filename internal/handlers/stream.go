package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/birlikkoshan/todo-live/internal/broadcast"
	"github.com/birlikkoshan/todo-live/internal/stream"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// StreamHandler serves the live update feed.
type StreamHandler struct {
	bus      *broadcast.Bus
	renderer stream.Renderer
	opts     stream.Options
	// shutdown is cancelled when the process starts shutting down; every
	// open session ends with it.
	shutdown context.Context
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewStreamHandler(shutdown context.Context, bus *broadcast.Bus, renderer stream.Renderer, opts stream.Options) *StreamHandler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &StreamHandler{
		bus:      bus,
		renderer: renderer,
		opts:     opts,
		shutdown: shutdown,
		logger:   opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same policy as the CORS middleware: any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Events godoc
// @Summary      Live updates as Server-Sent Events
// @Description  Events: create, update-<id>, delete and a keep-alive ping.
// @Tags         stream
// @Produce      text/event-stream
// @Success      200
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /todos/stream [get]
func (h *StreamHandler) Events(c *gin.Context) {
	sess, err := stream.Open(h.bus, h.renderer, h.opts)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live updates unavailable"})
		return
	}
	ctx, cancel := h.sessionContext(c.Request.Context())
	defer cancel()

	// The stream outlives any server write timeout.
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Debug("clear write deadline", "err", err)
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	if err := sess.Run(ctx, stream.NewWriterSink(c.Writer)); err != nil {
		h.logger.Debug("live update client gone", "session", sess.ID(), "err", err)
	}
}

// WebSocket godoc
// @Summary      Live updates over a websocket
// @Description  Same events as /todos/stream, one JSON text frame each.
// @Tags         stream
// @Success      101
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /todos/ws [get]
func (h *StreamHandler) WebSocket(c *gin.Context) {
	sess, err := stream.Open(h.bus, h.renderer, h.opts)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live updates unavailable"})
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		sess.Close()
		return
	}
	defer conn.Close()

	ctx, cancel := h.sessionContext(c.Request.Context())
	defer cancel()

	// Incoming frames are discarded; reading only detects the client leaving.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := sess.Run(ctx, stream.NewWebSocketSink(conn)); err != nil {
		h.logger.Debug("live update client gone", "session", sess.ID(), "err", err)
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}

func (h *StreamHandler) sessionContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(h.shutdown, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
