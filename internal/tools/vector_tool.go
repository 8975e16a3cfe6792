package tools

import (
	"context"
	"fmt"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"day-assistant/internal/llm"
	"day-assistant/internal/repository"
)

const (
	VectorToolName = "vector_lookup"

	// Descripción que ve el router al decidir; ayuda con navegación del
	// sitio, guías de uso y saludos.
	VectorToolDescription = "this tool helps users guide themselves through the website by helping them find solutions for creating projects, tasks etc or for navigating through the website. Also it can be used for greeting."

	docQASystemPrompt = "You are an AI Document Q&A Chatbot, you must answer the question given by the user with respect to the context given. If a user greets you, you must greet them back politely"
)

// NewVectorLookup arma la capability de búsqueda semántica: embebe la
// consulta, recupera los k fragmentos más cercanos y genera una respuesta
// anclada en ese contexto.
func NewVectorLookup(client llm.Client, docs repository.DocumentSearcher, topK int) Capability {
	if topK <= 0 {
		topK = 3
	}
	return func(ctx context.Context, call Call) (string, error) {
		query := call.Query()
		if strings.TrimSpace(query) == "" {
			return "", fmt.Errorf("vector lookup: empty query")
		}

		embedding, err := client.Embed(ctx, query)
		if err != nil {
			return "", fmt.Errorf("embed query: %w", err)
		}

		texts, err := docs.Search(ctx, pgvector.NewVector(embedding), topK)
		if err != nil {
			return "", fmt.Errorf("search documents: %w", err)
		}
		docContext := strings.Join(texts, " ")

		answer, err := client.Complete(ctx, []llm.Message{
			{Role: "system", Content: docQASystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Context: %s\n\nQuestion: %s", docContext, query)},
		}, llm.CompleteOptions{Temperature: 0.5})
		if err != nil {
			return "", fmt.Errorf("generate answer: %w", err)
		}
		return strings.TrimSpace(answer), nil
	}
}
