package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"day-assistant/internal/domain"
)

// MemorySessionStore implementa SessionStore en memoria. Lo usan los tests y
// el chat de consola; mantiene las mismas garantías de serialización que el
// store de Postgres, con un mutex global en lugar de locks por fila.
type MemorySessionStore struct {
	mu        sync.Mutex
	employees map[string]*employeeRecord
}

type employeeRecord struct {
	sessions []*sessionRecord
}

type sessionRecord struct {
	id        string
	name      string
	createdAt time.Time
	messages  []domain.Message
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{employees: make(map[string]*employeeRecord)}
}

func (s *MemorySessionStore) EnsureEmployee(_ context.Context, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[employeeID]; !ok {
		s.employees[employeeID] = &employeeRecord{}
	}
	return nil
}

func (s *MemorySessionStore) ListSessions(_ context.Context, employeeID string) ([]domain.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[employeeID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}

	ordered := make([]*sessionRecord, len(emp.sessions))
	copy(ordered, emp.sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		li, okI := lastTimestamp(ordered[i])
		lj, okJ := lastTimestamp(ordered[j])
		if okI != okJ {
			return okI // sesiones sin mensajes al final
		}
		if !okI {
			return ordered[i].createdAt.Before(ordered[j].createdAt)
		}
		return li.After(lj)
	})

	out := make([]domain.SessionSummary, 0, len(ordered))
	for _, sess := range ordered {
		out = append(out, domain.SessionSummary{ID: sess.id, Name: sess.name})
	}
	return out, nil
}

func (s *MemorySessionStore) CreateSession(_ context.Context, employeeID, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[employeeID]
	if !ok {
		return "", domain.ErrEmployeeNotFound
	}

	sess := &sessionRecord{
		id:        uuid.NewString(),
		name:      name,
		createdAt: time.Now().UTC(),
	}
	emp.sessions = append(emp.sessions, sess)
	return sess.id, nil
}

func (s *MemorySessionStore) AppendMessage(_ context.Context, employeeID, sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.findSession(employeeID, sessionID)
	if err != nil {
		return err
	}

	ts := time.Now().UTC()
	if n := len(sess.messages); n > 0 && ts.Before(sess.messages[n-1].Timestamp) {
		ts = sess.messages[n-1].Timestamp
	}

	sess.messages = append(sess.messages, domain.Message{
		Role:      role,
		Content:   content,
		Timestamp: ts,
	})
	return nil
}

func (s *MemorySessionStore) GetSession(_ context.Context, employeeID, sessionID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.findSession(employeeID, sessionID)
	if err != nil {
		return domain.Session{}, err
	}

	msgs := make([]domain.Message, len(sess.messages))
	copy(msgs, sess.messages)
	return domain.Session{
		ID:        sess.id,
		Name:      sess.name,
		Messages:  msgs,
		CreatedAt: sess.createdAt,
	}, nil
}

func (s *MemorySessionStore) DeleteSession(_ context.Context, employeeID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[employeeID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	for i, sess := range emp.sessions {
		if sess.id == sessionID {
			emp.sessions = append(emp.sessions[:i], emp.sessions[i+1:]...)
			return nil
		}
	}
	return domain.ErrSessionNotFound
}

func (s *MemorySessionStore) RenameSession(_ context.Context, employeeID, sessionID, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.findSession(employeeID, sessionID)
	if err != nil {
		return err
	}
	sess.name = newName
	return nil
}

func (s *MemorySessionStore) RecentMessages(_ context.Context, employeeID, sessionID string, n int) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.findSession(employeeID, sessionID)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []domain.Message{}, nil
	}

	msgs := sess.messages
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemorySessionStore) findSession(employeeID, sessionID string) (*sessionRecord, error) {
	emp, ok := s.employees[employeeID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	for _, sess := range emp.sessions {
		if sess.id == sessionID {
			return sess, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func lastTimestamp(sess *sessionRecord) (time.Time, bool) {
	if len(sess.messages) == 0 {
		return time.Time{}, false
	}
	return sess.messages[len(sess.messages)-1].Timestamp, true
}

var _ SessionStore = (*MemorySessionStore)(nil)
var _ SessionStore = (*PgSessionStore)(nil)
