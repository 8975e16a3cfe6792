package repository

import (
	"context"

	"day-assistant/internal/domain"
)

// SessionStore es la única fuente de verdad del historial conversacional.
// AppendMessage es el único camino de mutación del log y debe serializar
// appends concurrentes sobre la misma sesión.
type SessionStore interface {
	// EnsureEmployee crea el registro del empleado si no existe; idempotente.
	EnsureEmployee(ctx context.Context, employeeID string) error

	// ListSessions devuelve las sesiones ordenadas por actividad reciente
	// (la más nueva primero); sesiones sin mensajes quedan al final.
	ListSessions(ctx context.Context, employeeID string) ([]domain.SessionSummary, error)

	// CreateSession genera un identificador fresco y agrega una sesión vacía.
	CreateSession(ctx context.Context, employeeID, name string) (string, error)

	// AppendMessage agrega un mensaje con timestamp asignado por el store,
	// nunca decreciente dentro de la sesión.
	AppendMessage(ctx context.Context, employeeID, sessionID, role, content string) error

	// GetSession devuelve la sesión con sus mensajes en orden de inserción.
	GetSession(ctx context.Context, employeeID, sessionID string) (domain.Session, error)

	// DeleteSession elimina la sesión; la ausencia se reporta, no es no-op.
	DeleteSession(ctx context.Context, employeeID, sessionID string) error

	// RenameSession cambia el nombre visible de la sesión.
	RenameSession(ctx context.Context, employeeID, sessionID, newName string) error

	// RecentMessages devuelve los últimos n mensajes, el más viejo primero.
	RecentMessages(ctx context.Context, employeeID, sessionID string, n int) ([]domain.Message, error)
}
