package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"day-assistant/internal/llm"
	"day-assistant/internal/tools"
)

var (
	// ErrUnresolvedTool indica que la decisión nombró un tool no registrado.
	ErrUnresolvedTool = errors.New("unresolved tool")
	// ErrRoutingFailed indica que no se pudo obtener una decisión válida.
	ErrRoutingFailed = errors.New("routing failed")
)

// Decision es la salida estructurada del ruteo: qué tool y con qué argumentos.
type Decision struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// UnmarshalJSON tolera que el modelo mande arguments como string plano en vez
// de objeto; en ese caso se interpreta como la consulta.
func (d *Decision) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Name = raw.Name
	d.Arguments = map[string]any{}

	if len(raw.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw.Arguments, &d.Arguments); err == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Arguments, &s); err == nil {
		d.Arguments = map[string]any{"query": s}
		return nil
	}
	return fmt.Errorf("unexpected arguments shape")
}

// Decider produce una Decision a partir de la consulta y el catálogo de tools.
// Variantes: basada en modelo o basada en reglas, detrás del mismo contrato.
type Decider interface {
	Decide(ctx context.Context, query, renderedTools string) (Decision, error)
}

// LLMDecider le pide al modelo un JSON con 'name' y 'arguments'.
type LLMDecider struct {
	client llm.Client
}

func NewLLMDecider(client llm.Client) *LLMDecider {
	return &LLMDecider{client: client}
}

func (d *LLMDecider) Decide(ctx context.Context, query, renderedTools string) (Decision, error) {
	system := fmt.Sprintf(`You are an assistant that has access to the following set of tools. Here are the names and descriptions for each tool:

%s

Given the user input, return the name and input of the tool to use. Return your response as a JSON blob with 'name' and 'arguments' keys.`, renderedTools)

	raw, err := d.client.Complete(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: query},
	}, llm.CompleteOptions{})
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrRoutingFailed, err)
	}

	jsonObj := extractFirstJSONObject(cleanLLMJSONResponse(raw))
	if jsonObj == "" {
		jsonObj = extractFirstJSONObject(raw)
	}
	if jsonObj == "" {
		return Decision{}, fmt.Errorf("%w: no json in output", ErrRoutingFailed)
	}

	var decision Decision
	if err := json.Unmarshal([]byte(jsonObj), &decision); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrRoutingFailed, err)
	}
	if strings.TrimSpace(decision.Name) == "" {
		return Decision{}, fmt.Errorf("%w: decision without tool name", ErrRoutingFailed)
	}
	return decision, nil
}

// RuleDecider es la variante determinista: heurística por palabras clave.
// Consultas sobre datos del empleado van al lookup estructurado, el resto a
// la búsqueda semántica.
type RuleDecider struct{}

var structuredKeywords = []string{
	"task", "project", "stream", "approval", "request", "organization", "deadline", "assigned",
}

func (RuleDecider) Decide(_ context.Context, query, _ string) (Decision, error) {
	lower := strings.ToLower(query)
	name := tools.VectorToolName
	for _, kw := range structuredKeywords {
		if strings.Contains(lower, kw) {
			name = tools.StructuredToolName
			break
		}
	}
	return Decision{Name: name, Arguments: map[string]any{"query": query}}, nil
}

// ToolRouter valida la decisión contra el registry y despacha. Dado un nombre
// resoluble, el despacho es determinista y total.
type ToolRouter struct {
	registry *tools.Registry
	decider  Decider
}

func NewToolRouter(registry *tools.Registry, decider Decider) *ToolRouter {
	return &ToolRouter{registry: registry, decider: decider}
}

// Dispatch decide, resuelve e invoca exactamente un tool. El resultado del
// tool se devuelve sin reinterpretar; sus errores solo se envuelven con el
// nombre para diagnóstico.
func (r *ToolRouter) Dispatch(ctx context.Context, employeeID, query string) (string, error) {
	decision, err := r.decider.Decide(ctx, query, r.registry.DescribeAll())
	if err != nil {
		return "", err
	}

	capability, err := r.registry.Resolve(decision.Name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedTool, decision.Name)
	}

	args := decision.Arguments
	if args == nil {
		args = map[string]any{}
	}
	if _, ok := args["query"]; !ok {
		args["query"] = query
	}

	result, err := capability(ctx, tools.Call{EmployeeID: employeeID, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", decision.Name, err)
	}
	return result, nil
}

var _ Decider = (*LLMDecider)(nil)
var _ Decider = RuleDecider{}
