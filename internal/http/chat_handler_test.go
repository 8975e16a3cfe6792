package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"day-assistant/internal/llm"
	"day-assistant/internal/repository"
	"day-assistant/internal/service"
	"day-assistant/internal/tools"
)

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func newTestServer(t *testing.T, limiter service.QueryRateLimiter) (*gin.Engine, *repository.MemorySessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemorySessionStore()

	registry := tools.NewRegistry()
	if err := registry.Register(tools.StructuredToolName, "tasks",
		func(_ context.Context, _ tools.Call) (string, error) {
			return "You have 3 active tasks.", nil
		}); err != nil {
		t.Fatal(err)
	}
	if err := registry.Register(tools.VectorToolName, "guidance",
		func(_ context.Context, _ tools.Call) (string, error) {
			return "guidance answer", nil
		}); err != nil {
		t.Fatal(err)
	}

	echoClient := &llm.MockClient{
		CompleteFunc: func(_ context.Context, messages []llm.Message, _ llm.CompleteOptions) (string, error) {
			return messages[len(messages)-1].Content, nil
		},
	}
	chatSvc := service.NewChatService(
		store,
		service.NewReformulator(echoClient, 5),
		service.NewToolRouter(registry, service.RuleDecider{}),
		service.NewSessionNamer(&llm.MockClient{Response: "Tareas"}),
		nil,
		zap.NewNop(),
		5,
	)
	followupSvc := service.NewFollowUpService(&llm.MockClient{Response: `["q1","q2","q3"]`}, "schema")

	handler := NewChatHandler(zap.NewNop(), store, chatSvc, followupSvc, limiter)
	router := NewRouter(zap.NewNop(), &mockResolver{employeeID: "3454"}, handler)
	return router, store
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer tok")
	router.ServeHTTP(w, req)
	return w
}

func TestListSessionsFirstVisit(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doJSON(router, http.MethodGet, "/sessions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status   string            `json:"status"`
		Sessions []json.RawMessage `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "success" || len(resp.Sessions) != 0 {
		t.Fatalf("expected empty session list, got %s", w.Body.String())
	}
}

func TestChatbotEndToEnd(t *testing.T) {
	router, store := newTestServer(t, nil)

	w := doJSON(router, http.MethodPost, "/chatbot", `{"query": "What tasks do I have?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status    string `json:"status"`
		Response  string `json:"response"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "success" || resp.Response != "You have 3 active tasks." || resp.SessionID == "" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}

	session, err := store.GetSession(context.Background(), "3454", resp.SessionID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("expected user+assistant logged, got %d", len(session.Messages))
	}
}

func TestChatbotUnknownSession(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doJSON(router, http.MethodPost, "/chatbot", `{"query": "hola", "session_id": "missing"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestChatbotMissingQuery(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doJSON(router, http.MethodPost, "/chatbot", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChatbotRateLimited(t *testing.T) {
	router, _ := newTestServer(t, denyAllLimiter{})

	w := doJSON(router, http.MethodPost, "/chatbot", `{"query": "hola"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	router, store := newTestServer(t, nil)

	w := doJSON(router, http.MethodPost, "/chatbot", `{"query": "What tasks do I have?"}`)
	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	t.Run("get session", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/session/"+created.SessionID, "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "What tasks do I have?") {
			t.Fatalf("expected message log in body: %s", w.Body.String())
		}
	})

	t.Run("rename session", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/session/"+created.SessionID+"/name", `{"new_name": "Pendientes"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		session, err := store.GetSession(context.Background(), "3454", created.SessionID)
		if err != nil {
			t.Fatal(err)
		}
		if session.Name != "Pendientes" {
			t.Fatalf("expected renamed session, got %q", session.Name)
		}
	})

	t.Run("delete session", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/session/"+created.SessionID, "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		w = doJSON(router, http.MethodDelete, "/session/"+created.SessionID, "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404 on second delete, got %d", w.Code)
		}
	})

	t.Run("get missing session", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/session/nope", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestFollowUpsEndpoint(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doJSON(router, http.MethodPost, "/chatbot/followups", `{"query": "what is the deadline of project gen ai?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %v", resp.Questions)
	}
}
