package service

import (
	"context"
	"strings"

	"day-assistant/internal/llm"
)

const sessionNameSystemPrompt = "You are a good title creator for a chatbot session. Create a small, short and crisp one line (with three words maximum) title in the language of the {query}."

// SessionNamer sintetiza el nombre corto de una sesión a partir de la primera
// consulta.
type SessionNamer struct {
	client llm.Client
}

func NewSessionNamer(client llm.Client) *SessionNamer {
	return &SessionNamer{client: client}
}

func (n *SessionNamer) Name(ctx context.Context, query string) (string, error) {
	name, err := n.client.Complete(ctx, []llm.Message{
		{Role: "system", Content: sessionNameSystemPrompt},
		{Role: "user", Content: query},
	}, llm.CompleteOptions{Temperature: 0, MaxTokens: 10})
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(name), `"`), nil
}

// FallbackName recorta la consulta cuando el modelo no pudo titular.
func FallbackName(query string) string {
	words := strings.Fields(query)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ")
}
