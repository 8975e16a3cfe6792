package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"day-assistant/internal/domain"
	"day-assistant/internal/repository"
)

// Respuesta genérica cuando el despacho del tool falla; el mensaje del
// usuario ya quedó persistido y no se pierde.
const apologyResponse = "An error occurred. Please try rephrasing your question or ask something else."

// ChatResult es lo que ve el caller al terminar una consulta.
type ChatResult struct {
	Status    string `json:"status"`
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ChatService orquesta una consulta de punta a punta: resuelve la sesión,
// registra el turno del usuario, reformula, rutea y registra la respuesta.
// No reintenta; cada falla se reporta con su etapa.
type ChatService struct {
	store         repository.SessionStore
	reformulator  *Reformulator
	router        *ToolRouter
	namer         *SessionNamer
	translator    Translator
	logger        *zap.Logger
	historyWindow int
}

func NewChatService(
	store repository.SessionStore,
	reformulator *Reformulator,
	router *ToolRouter,
	namer *SessionNamer,
	translator Translator,
	logger *zap.Logger,
	historyWindow int,
) *ChatService {
	if historyWindow <= 0 {
		historyWindow = 5
	}
	return &ChatService{
		store:         store,
		reformulator:  reformulator,
		router:        router,
		namer:         namer,
		translator:    translator,
		logger:        logger,
		historyWindow: historyWindow,
	}
}

// HandleQuery procesa una consulta. Con sessionID vacío crea una sesión nueva
// con nombre sintetizado desde la consulta; una sesión nueva siempre arranca
// con el turno del usuario.
func (s *ChatService) HandleQuery(ctx context.Context, employeeID, sessionID, query string) (ChatResult, error) {
	if strings.TrimSpace(query) == "" {
		return ChatResult{}, fmt.Errorf("empty query")
	}

	if err := s.store.EnsureEmployee(ctx, employeeID); err != nil {
		return ChatResult{}, fmt.Errorf("ensure employee: %w", err)
	}

	if sessionID != "" {
		if _, err := s.store.GetSession(ctx, employeeID, sessionID); err != nil {
			return ChatResult{}, fmt.Errorf("resolve session: %w", err)
		}
	} else {
		name, err := s.namer.Name(ctx, query)
		if err != nil {
			name = FallbackName(query)
			s.logger.Warn("session naming degraded",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
		}
		sessionID, err = s.store.CreateSession(ctx, employeeID, name)
		if err != nil {
			return ChatResult{}, fmt.Errorf("create session: %w", err)
		}
	}

	// La ventana se carga antes de registrar el turno actual para que la
	// reformulación no vea la consulta duplicada.
	history, err := s.store.RecentMessages(ctx, employeeID, sessionID, s.historyWindow)
	if err != nil {
		return ChatResult{}, fmt.Errorf("load history: %w", err)
	}

	// El turno del usuario se persiste antes del despacho; si algo falla
	// después, el log conserva la consulta.
	if err := s.store.AppendMessage(ctx, employeeID, sessionID, domain.RoleUser, query); err != nil {
		return ChatResult{}, fmt.Errorf("log user message: %w", err)
	}

	working := query
	detectedLang := ""
	if s.translator != nil {
		tr, err := s.translator.Translate(ctx, query, "en")
		if err != nil {
			s.logger.Warn("inbound translation degraded, using original query",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		} else {
			working = tr.Text
			detectedLang = tr.DetectedLang
		}
	}

	reformulated, err := s.reformulator.Reformulate(ctx, working, history)
	if err != nil {
		// Degradación explícita: se sigue con la consulta cruda y se deja
		// registro de la falla.
		reformulated = working
		s.logger.Warn("reformulation degraded, using raw query",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	response, err := s.router.Dispatch(ctx, employeeID, reformulated)
	if err != nil {
		s.logger.Error("tool dispatch failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		response = apologyResponse
	}

	if s.translator != nil && detectedLang != "" && !strings.EqualFold(detectedLang, "en") {
		tr, err := s.translator.Translate(ctx, response, detectedLang)
		if err != nil {
			s.logger.Warn("outbound translation degraded, returning english response",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		} else {
			response = tr.Text
		}
	}

	if err := s.store.AppendMessage(ctx, employeeID, sessionID, domain.RoleAssistant, response); err != nil {
		return ChatResult{}, fmt.Errorf("log assistant message: %w", err)
	}

	return ChatResult{
		Status:    "success",
		Response:  response,
		SessionID: sessionID,
	}, nil
}
