package domain

import "time"

// Roles permitidos dentro del log de mensajes de una sesión.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session es un hilo de conversación de un empleado, con su propio log de mensajes.
type Session struct {
	ID        string    `json:"session_id"`
	Name      string    `json:"session_name"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionSummary es la vista reducida usada al listar sesiones.
type SessionSummary struct {
	ID   string `json:"session_id"`
	Name string `json:"session_name"`
}

// Message es inmutable una vez agregado; el timestamp lo asigna el store.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
