package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"day-assistant/internal/domain"
	"day-assistant/internal/repository"
	"day-assistant/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints de sesiones y consultas.
type ChatHandler struct {
	logger    *zap.Logger
	store     repository.SessionStore
	chat      *service.ChatService
	followups *service.FollowUpService
	limiter   service.QueryRateLimiter
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(
	logger *zap.Logger,
	store repository.SessionStore,
	chat *service.ChatService,
	followups *service.FollowUpService,
	limiter service.QueryRateLimiter,
) *ChatHandler {
	return &ChatHandler{
		logger:    logger,
		store:     store,
		chat:      chat,
		followups: followups,
		limiter:   limiter,
	}
}

// ListSessions maneja GET /sessions.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	employeeID, ok := EmployeeID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	// EnsureEmployee primero: la primera visita devuelve lista vacía, no 404.
	if err := h.store.EnsureEmployee(c.Request.Context(), employeeID); err != nil {
		h.logger.Error("ensure employee failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sessions"})
		return
	}

	sessions, err := h.store.ListSessions(c.Request.Context(), employeeID)
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "sessions": sessions})
}

// HandleQuery maneja POST /chatbot.
func (h *ChatHandler) HandleQuery(c *gin.Context) {
	employeeID, ok := EmployeeID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req struct {
		Query     string `json:"query" binding:"required"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid query request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(employeeID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	result, err := h.chat.HandleQuery(c.Request.Context(), employeeID, req.SessionID, req.Query)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("handle query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not handle query"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SuggestFollowUps maneja POST /chatbot/followups.
func (h *ChatHandler) SuggestFollowUps(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid followups request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	questions, err := h.followups.Suggest(c.Request.Context(), req.Query)
	if err != nil {
		// Las sugerencias son best-effort; una falla devuelve lista vacía.
		h.logger.Warn("followup suggestion failed", zap.Error(err))
		questions = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "questions": questions})
}

// GetSession maneja GET /session/:id.
func (h *ChatHandler) GetSession(c *gin.Context) {
	employeeID, ok := EmployeeID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	session, err := h.store.GetSession(c.Request.Context(), employeeID, c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("get session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession maneja DELETE /session/:id.
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	employeeID, ok := EmployeeID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	sessionID := c.Param("id")
	if err := h.store.DeleteSession(c.Request.Context(), employeeID, sessionID); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("delete session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Session with session_id '" + sessionID + "' deleted successfully",
	})
}

// RenameSession maneja PUT /session/:id/name.
func (h *ChatHandler) RenameSession(c *gin.Context) {
	employeeID, ok := EmployeeID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req struct {
		NewName string `json:"new_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid rename request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sessionID := c.Param("id")
	if err := h.store.RenameSession(c.Request.Context(), employeeID, sessionID, req.NewName); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("rename session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not rename session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Session name updated successfully for session_id '" + sessionID + "'",
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrEmployeeNotFound)
}
