package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"day-assistant/internal/domain"
)

// PgSessionStore implementa SessionStore sobre Postgres.
//
// Esquema esperado:
//
//	employees(id text primary key, created_at timestamptz)
//	sessions(id text primary key, employee_id text references employees(id) on delete cascade,
//	         name text, created_at timestamptz)
//	messages(id bigserial primary key, session_id text references sessions(id) on delete cascade,
//	         role text, content text, created_at timestamptz)
type PgSessionStore struct {
	pool *pgxpool.Pool
}

func NewPgSessionStore(pool *pgxpool.Pool) *PgSessionStore {
	return &PgSessionStore{pool: pool}
}

func (s *PgSessionStore) EnsureEmployee(ctx context.Context, employeeID string) error {
	const query = `
		INSERT INTO employees (id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.pool.Exec(ctx, query, employeeID, time.Now().UTC())
	return err
}

func (s *PgSessionStore) ListSessions(ctx context.Context, employeeID string) ([]domain.SessionSummary, error) {
	if err := s.employeeExists(ctx, employeeID); err != nil {
		return nil, err
	}

	const query = `
		SELECT s.id, s.name
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		WHERE s.employee_id = $1
		GROUP BY s.id, s.name, s.created_at
		ORDER BY MAX(m.created_at) DESC NULLS LAST, s.created_at ASC
	`
	rows, err := s.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.SessionSummary{}
	for rows.Next() {
		var sm domain.SessionSummary
		if err := rows.Scan(&sm.ID, &sm.Name); err != nil {
			return nil, err
		}
		sessions = append(sessions, sm)
	}
	return sessions, rows.Err()
}

func (s *PgSessionStore) CreateSession(ctx context.Context, employeeID, name string) (string, error) {
	if err := s.employeeExists(ctx, employeeID); err != nil {
		return "", err
	}

	const query = `
		INSERT INTO sessions (id, employee_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`
	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, query, id, employeeID, name, time.Now().UTC()); err != nil {
		return "", err
	}
	return id, nil
}

// AppendMessage serializa appends concurrentes bloqueando la fila de la sesión
// con FOR UPDATE; el timestamp se asigna bajo ese lock y se fija al del último
// mensaje cuando el reloj quedó por detrás.
func (s *PgSessionStore) AppendMessage(ctx context.Context, employeeID, sessionID, role, content string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const lockQuery = `
		SELECT id FROM sessions
		WHERE id = $1 AND employee_id = $2
		FOR UPDATE
	`
	var lockedID string
	if err := tx.QueryRow(ctx, lockQuery, sessionID, employeeID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.missingErr(ctx, employeeID)
		}
		return err
	}

	var last *time.Time
	const lastQuery = `SELECT MAX(created_at) FROM messages WHERE session_id = $1`
	if err := tx.QueryRow(ctx, lastQuery, sessionID).Scan(&last); err != nil {
		return err
	}

	ts := time.Now().UTC()
	if last != nil && ts.Before(*last) {
		ts = *last
	}

	const insertQuery = `
		INSERT INTO messages (session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, insertQuery, sessionID, role, content, ts); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PgSessionStore) GetSession(ctx context.Context, employeeID, sessionID string) (domain.Session, error) {
	const query = `
		SELECT id, name, created_at
		FROM sessions
		WHERE id = $1 AND employee_id = $2
	`
	var session domain.Session
	err := s.pool.QueryRow(ctx, query, sessionID, employeeID).Scan(&session.ID, &session.Name, &session.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, s.missingErr(ctx, employeeID)
	}
	if err != nil {
		return domain.Session{}, err
	}

	const msgQuery = `
		SELECT role, content, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.pool.Query(ctx, msgQuery, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	defer rows.Close()

	session.Messages = []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			return domain.Session{}, err
		}
		session.Messages = append(session.Messages, m)
	}
	return session, rows.Err()
}

func (s *PgSessionStore) DeleteSession(ctx context.Context, employeeID, sessionID string) error {
	const query = `DELETE FROM sessions WHERE id = $1 AND employee_id = $2`
	tag, err := s.pool.Exec(ctx, query, sessionID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.missingErr(ctx, employeeID)
	}
	return nil
}

func (s *PgSessionStore) RenameSession(ctx context.Context, employeeID, sessionID, newName string) error {
	const query = `UPDATE sessions SET name = $1 WHERE id = $2 AND employee_id = $3`
	tag, err := s.pool.Exec(ctx, query, newName, sessionID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.missingErr(ctx, employeeID)
	}
	return nil
}

func (s *PgSessionStore) RecentMessages(ctx context.Context, employeeID, sessionID string, n int) ([]domain.Message, error) {
	if n <= 0 {
		return []domain.Message{}, nil
	}

	const existsQuery = `SELECT 1 FROM sessions WHERE id = $1 AND employee_id = $2`
	var one int
	if err := s.pool.QueryRow(ctx, existsQuery, sessionID, employeeID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.missingErr(ctx, employeeID)
		}
		return nil, err
	}

	const query = `
		SELECT role, content, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, sessionID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// La consulta trae los más nuevos primero; se invierte para entregar
	// el más viejo de la ventana primero.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *PgSessionStore) employeeExists(ctx context.Context, employeeID string) error {
	const query = `SELECT 1 FROM employees WHERE id = $1`
	var one int
	err := s.pool.QueryRow(ctx, query, employeeID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEmployeeNotFound
	}
	return err
}

// missingErr distingue entre empleado ausente y sesión ausente.
func (s *PgSessionStore) missingErr(ctx context.Context, employeeID string) error {
	if err := s.employeeExists(ctx, employeeID); err != nil {
		return err
	}
	return domain.ErrSessionNotFound
}
