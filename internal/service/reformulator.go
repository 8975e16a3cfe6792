package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"day-assistant/internal/domain"
	"day-assistant/internal/llm"
)

// ErrReformulationFailed marca fallas del modelo al reformular; quien orquesta
// decide el fallback.
var ErrReformulationFailed = errors.New("reformulation failed")

const contextualizeSystemPrompt = "Given a chat history and the latest user question " +
	"which might reference context in the chat history, " +
	"formulate a standalone question which can be understood " +
	"without the chat history. Do NOT answer the question, " +
	"just reformulate it if needed and otherwise return it as is."

// Reformulator reescribe la consulta como pregunta autónoma usando la ventana
// reciente del historial. Nunca muta el historial almacenado.
type Reformulator struct {
	client llm.Client
	window int
}

func NewReformulator(client llm.Client, window int) *Reformulator {
	if window <= 0 {
		window = 5
	}
	return &Reformulator{client: client, window: window}
}

// Reformulate recibe el historial más viejo primero y lo recorta a la ventana
// configurada antes de invocar al modelo.
func (r *Reformulator) Reformulate(ctx context.Context, query string, history []domain.Message) (string, error) {
	if len(history) > r.window {
		history = history[len(history)-r.window:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: contextualizeSystemPrompt})
	for _, m := range history {
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: query})

	out, err := r.client.Complete(ctx, messages, llm.CompleteOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReformulationFailed, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty output", ErrReformulationFailed)
	}
	return out, nil
}
