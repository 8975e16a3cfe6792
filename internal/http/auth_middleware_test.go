package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"day-assistant/internal/service"
)

type mockResolver struct {
	employeeID string
	err        error
	lastToken  string
}

func (m *mockResolver) ResolveEmployee(token string) (string, error) {
	m.lastToken = token
	return m.employeeID, m.err
}

var _ service.EmployeeResolver = (*mockResolver)(nil)

func newAuthTestRouter(resolver service.EmployeeResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", AuthMiddleware(resolver), func(c *gin.Context) {
		id, ok := EmployeeID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"employee_id": id})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("sin token", func(t *testing.T) {
		router := newAuthTestRouter(&mockResolver{employeeID: "3454"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("bearer token", func(t *testing.T) {
		resolver := &mockResolver{employeeID: "3454"}
		router := newAuthTestRouter(resolver)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer abc123")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if resolver.lastToken != "abc123" {
			t.Fatalf("expected token forwarded, got %q", resolver.lastToken)
		}
	})

	t.Run("token por query param", func(t *testing.T) {
		resolver := &mockResolver{employeeID: "3454"}
		router := newAuthTestRouter(resolver)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping?token=xyz", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if resolver.lastToken != "xyz" {
			t.Fatalf("expected query token forwarded, got %q", resolver.lastToken)
		}
	})

	t.Run("token inválido", func(t *testing.T) {
		router := newAuthTestRouter(&mockResolver{err: errors.New("bad token")})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer nope")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}
