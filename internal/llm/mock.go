package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response  string
	Embedding []float32
	Err       error

	// Hooks opcionales cuando el test necesita respuestas por llamada.
	CompleteFunc func(ctx context.Context, messages []Message, opts CompleteOptions) (string, error)
	EmbedFunc    func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockClient) Complete(ctx context.Context, messages []Message, opts CompleteOptions) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages, opts)
	}
	return m.Response, m.Err
}

func (m *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return m.Embedding, m.Err
}

var _ Client = (*MockClient)(nil)
var _ Client = (*HTTPClient)(nil)
