package service

import (
	"context"
	"errors"
	"testing"

	"day-assistant/internal/domain"
	"day-assistant/internal/llm"
)

func TestReformulate(t *testing.T) {
	var captured []llm.Message
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, messages []llm.Message, _ llm.CompleteOptions) (string, error) {
			captured = messages
			return "What is the deadline of project gen ai?", nil
		},
	}
	r := NewReformulator(client, 5)

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "tell me about project gen ai"},
		{Role: domain.RoleAssistant, Content: "gen ai is an active project"},
	}
	out, err := r.Reformulate(context.Background(), "and its deadline?", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "What is the deadline of project gen ai?" {
		t.Fatalf("unexpected output: %q", out)
	}

	// system + 2 de historial + consulta actual
	if len(captured) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(captured))
	}
	if captured[0].Role != "system" {
		t.Fatalf("expected system first, got %s", captured[0].Role)
	}
	if captured[2].Role != "assistant" {
		t.Fatalf("expected assistant role mapped, got %s", captured[2].Role)
	}
	if captured[3].Content != "and its deadline?" {
		t.Fatalf("expected current query last, got %q", captured[3].Content)
	}
}

func TestReformulateTrimsWindow(t *testing.T) {
	var captured []llm.Message
	client := &llm.MockClient{
		CompleteFunc: func(_ context.Context, messages []llm.Message, _ llm.CompleteOptions) (string, error) {
			captured = messages
			return "ok", nil
		},
	}
	r := NewReformulator(client, 2)

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "uno"},
		{Role: domain.RoleAssistant, Content: "dos"},
		{Role: domain.RoleUser, Content: "tres"},
	}
	if _, err := r.Reformulate(context.Background(), "q", history); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// system + 2 de ventana + consulta
	if len(captured) != 4 {
		t.Fatalf("expected trimmed window, got %d messages", len(captured))
	}
	if captured[1].Content != "dos" {
		t.Fatalf("expected window to keep the most recent turns, got %q", captured[1].Content)
	}
}

func TestReformulateFailure(t *testing.T) {
	client := &llm.MockClient{Err: errors.New("timeout")}
	r := NewReformulator(client, 5)

	_, err := r.Reformulate(context.Background(), "q", nil)
	if !errors.Is(err, ErrReformulationFailed) {
		t.Fatalf("expected ErrReformulationFailed, got %v", err)
	}
}
