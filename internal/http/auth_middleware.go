package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"day-assistant/internal/service"
)

const employeeIDKey = "employee_id"

// AuthMiddleware resuelve el token del empleado una vez por request y deja el
// ID en el contexto de gin. Acepta Authorization: Bearer o el query param
// token (compatibilidad con clientes viejos).
func AuthMiddleware(resolver service.EmployeeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		employeeID, err := resolver.ResolveEmployee(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(employeeIDKey, employeeID)
		c.Next()
	}
}

// EmployeeID obtiene el ID de empleado resuelto para este request.
func EmployeeID(c *gin.Context) (string, bool) {
	val, ok := c.Get(employeeIDKey)
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}
