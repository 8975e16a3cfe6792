package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrAlreadyExists = errors.New("tool already registered")
	ErrEmptyName     = errors.New("tool name is empty")
)

// Call lleva los argumentos de un despacho junto al empleado que lo originó.
// El ID de empleado viaja acá, nunca en estado global del proceso.
type Call struct {
	EmployeeID string
	Arguments  map[string]any
}

// Query devuelve el argumento "query" o vacío si no viene.
func (c Call) Query() string {
	if v, ok := c.Arguments["query"].(string); ok {
		return v
	}
	return ""
}

// Capability es la función ejecutable detrás de un nombre de tool.
type Capability func(ctx context.Context, call Call) (string, error)

type entry struct {
	description string
	capability  Capability
}

// Registry mantiene los tools con nombre único. Se puebla al arranque y
// después solo se lee.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register agrega un tool; nombres duplicados se rechazan.
func (r *Registry) Register(name, description string, capability Capability) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	r.entries[name] = entry{description: description, capability: capability}
	return nil
}

// DescribeAll devuelve el listado nombre: descripción, ordenado por nombre
// para que el prompt de ruteo sea determinista.
func (r *Registry) DescribeAll() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(r.entries[name].description)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Resolve devuelve la capability registrada bajo el nombre dado.
func (r *Registry) Resolve(name string) (Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return e.capability, nil
}
