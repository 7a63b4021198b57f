package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gadgetbot/internal/model"
	"gadgetbot/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatResponder answers one chat message
type ChatResponder interface {
	Chat(ctx context.Context, message string) (*model.ChatResponse, error)
}

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	chat   ChatResponder
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat ChatResponder, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{chat: chat, logger: logger}
}

// Chat handles POST /chat and POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is empty"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is empty"})
		return
	}

	logger := LoggerFrom(c, h.logger)
	logger.Info("chat message received", zap.Int("length", len(req.Message)))

	response, err := h.chat.Chat(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is empty"})
		case errors.Is(err, service.ErrGraphUnavailable):
			logger.Error("knowledge graph unavailable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Knowledge graph unavailable"})
		default:
			logger.Error("chat failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed: " + err.Error()})
		}
		return
	}

	logger.Info("chat answered",
		zap.Int("facts", len(response.DebugFacts)),
		zap.Int64("took_ms", response.Took),
	)
	c.JSON(http.StatusOK, response)
}
