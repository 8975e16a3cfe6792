package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"day-assistant/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	resolver service.EmployeeResolver,
	chatH *ChatHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	authed := r.Group("/", AuthMiddleware(resolver))
	authed.GET("/sessions", chatH.ListSessions)
	authed.POST("/chatbot", chatH.HandleQuery)
	authed.POST("/chatbot/followups", chatH.SuggestFollowUps)
	authed.GET("/session/:id", chatH.GetSession)
	authed.DELETE("/session/:id", chatH.DeleteSession)
	authed.PUT("/session/:id/name", chatH.RenameSession)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
