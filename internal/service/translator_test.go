package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPTranslatorTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api-version") != "3.0" || q.Get("to") != "en" {
			t.Errorf("unexpected query params %s", r.URL.RawQuery)
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "clave" {
			t.Errorf("missing subscription key header")
		}
		if r.Header.Get("Ocp-Apim-Subscription-Region") != "region" {
			t.Errorf("missing region header")
		}
		if r.Header.Get("X-ClientTraceId") == "" {
			t.Errorf("missing trace id header")
		}
		w.Write([]byte(`[{"detectedLanguage": {"language": "es"}, "translations": [{"text": "What tasks do I have?"}]}]`))
	}))
	defer server.Close()

	tr := NewHTTPTranslator(server.URL, "clave", "region")
	out, err := tr.Translate(context.Background(), "¿qué tareas tengo?", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.DetectedLang != "es" {
		t.Fatalf("expected detected language es, got %q", out.DetectedLang)
	}
	if out.Text != "What tasks do I have?" {
		t.Fatalf("unexpected translation: %q", out.Text)
	}
}

func TestHTTPTranslatorErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tr := NewHTTPTranslator(server.URL, "clave", "region")
	if _, err := tr.Translate(context.Background(), "hola", "en"); err == nil {
		t.Fatal("expected error for 401 status")
	}
}

func TestHTTPTranslatorEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	tr := NewHTTPTranslator(server.URL, "clave", "region")
	if _, err := tr.Translate(context.Background(), "hola", "en"); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
