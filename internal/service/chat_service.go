package service

import (
	"context"
	"errors"
	"time"

	"ai-therapy-be/internal/constant"
	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/repository/memory"
	"ai-therapy-be/internal/repository/specification"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/internal/workflow"
	"ai-therapy-be/pkg/events"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("access denied: session belongs to another user")
	ErrSessionClosed       = errors.New("session is closed")
)

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetAllSessionsResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetSessionHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetSessionHistoryResponse, error)
	CloseSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.CloseSessionResponse, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	engine           *workflow.Engine
	memoryStore      memory.MemoryStore
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	engine *workflow.Engine,
	memoryStore memory.MemoryStore,
	publisherService IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		engine:           engine,
		memoryStore:      memoryStore,
		publisherService: publisherService,
		logger:           log,
	}
}

// findOwnedSession enforces the existence and ownership preconditions
// every session operation requires.
func (s *chatService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.TherapySession, error) {
	session, err := uow.TherapySessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.UserId != userId {
		return nil, ErrSessionAccessDenied
	}
	return session, nil
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	session := &entity.TherapySession{
		Id:        uuid.New(),
		UserId:    userId,
		Status:    entity.SessionStatusActive,
		StartTime: now,
		CreatedAt: now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TherapySessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	// Optional imported transcript, stored with the session
	var history []workflow.HistoryMessage
	if len(req.Transcript) > 0 {
		messages := make([]*entity.TherapyMessage, 0, len(req.Transcript))
		for _, m := range req.Transcript {
			messages = append(messages, &entity.TherapyMessage{
				Id:        uuid.New(),
				SessionId: session.Id,
				Role:      m.Role,
				Content:   m.Content,
				CreatedAt: time.Now(),
			})
			history = append(history, workflow.HistoryMessage{Role: m.Role, Content: m.Content})
		}
		if err := uow.TherapyMessageRepository().CreateBulk(ctx, messages); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// A transcript triggers the async review workflow. The review is
	// auxiliary, session creation succeeds either way.
	if len(history) > 0 && s.publisherService != nil {
		evt := workflow.SessionCreatedEvent{
			UserID:    userId.String(),
			SessionID: session.Id.String(),
			History:   history,
		}
		if err := s.publisherService.PublishEvent(ctx, events.TriggerSessionCreated, evt); err != nil {
			s.logger.Error("ChatService", "Failed to publish session.created event", map[string]interface{}{
				"sessionId": session.Id.String(),
				"error":     err.Error(),
			})
		}
	}

	return &dto.CreateSessionResponse{
		Id:        session.Id,
		Status:    string(session.Status),
		StartTime: session.StartTime,
	}, nil
}

func (s *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.TherapySessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.GetAllSessionsResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, dto.GetAllSessionsResponse{
			Id:        session.Id,
			Status:    string(session.Status),
			StartTime: session.StartTime,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		})
	}
	return res, nil
}

func (s *chatService) GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.GetAllSessionsResponse{
		Id:        session.Id,
		Status:    string(session.Status),
		StartTime: session.StartTime,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}, nil
}

func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if session.Status == entity.SessionStatusClosed {
		return nil, ErrSessionClosed
	}

	// 1. Load prior messages for workflow context
	prior, err := uow.TherapyMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	history := make([]workflow.HistoryMessage, 0, len(prior))
	for _, m := range prior {
		history = append(history, workflow.HistoryMessage{Role: m.Role, Content: m.Content})
	}

	// 2. Load cumulative memory for this session. A missing or failed
	// read degrades to an empty memory, the turn still runs.
	mem, found, err := s.memoryStore.Get(ctx, sessionId.String())
	if err != nil {
		s.logger.Warn("ChatService", "Failed to load session memory, starting empty", map[string]interface{}{
			"sessionId": sessionId.String(),
			"error":     err.Error(),
		})
	}
	if !found || mem == nil {
		mem = workflow.NewSessionMemory()
	}

	// 3. Run the workflow. The engine never returns an error.
	result := s.engine.ProcessChatMessage(ctx, &workflow.MessageEvent{
		UserID:       userId.String(),
		SessionID:    sessionId.String(),
		Message:      req.Message,
		History:      history,
		Memory:       mem,
		Goals:        req.Goals,
		SystemPrompt: constant.TherapistSystemPromptV1,
	})

	// 4. Persist updated memory for the next turn
	if err := s.memoryStore.Save(ctx, sessionId.String(), result.UpdatedMemory); err != nil {
		s.logger.Warn("ChatService", "Failed to save session memory", map[string]interface{}{
			"sessionId": sessionId.String(),
			"error":     err.Error(),
		})
	}

	// 5. Append both turns in one transaction
	now := time.Now()
	userMessage := &entity.TherapyMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		Role:      entity.MessageRoleUser,
		Content:   req.Message,
		CreatedAt: now,
	}
	assistantMessage := &entity.TherapyMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		Role:      entity.MessageRoleAssistant,
		Content:   result.Response,
		Metadata: &entity.MessageMetadata{
			Analysis: analysisToMap(result.Analysis),
			Progress: entity.MessageProgress{
				EmotionalState: result.Analysis.EmotionalState,
				RiskLevel:      result.Analysis.RiskLevel,
			},
		},
		CreatedAt: now.Add(time.Millisecond),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TherapyMessageRepository().CreateBulk(ctx, []*entity.TherapyMessage{userMessage, assistantMessage}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	degraded := false
	for _, outcome := range result.Outcomes {
		if outcome != workflow.OutcomeOK {
			degraded = true
			break
		}
	}

	return &dto.SendMessageResponse{
		SessionId: sessionId,
		Sent:      messageToDTO(userMessage),
		Reply:     messageToDTO(assistantMessage),
		Degraded:  degraded,
	}, nil
}

func (s *chatService) GetSessionHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetSessionHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.TherapyMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.GetSessionHistoryResponse{
		SessionId: session.Id,
		Status:    string(session.Status),
		Messages:  make([]dto.SessionMessageDTO, 0, len(messages)),
	}
	for _, m := range messages {
		res.Messages = append(res.Messages, *messageToDTO(m))
	}
	return res, nil
}

func (s *chatService) CloseSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.CloseSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	if session.Status != entity.SessionStatusClosed {
		session.Status = entity.SessionStatusClosed
		now := time.Now()
		session.UpdatedAt = &now
		if err := uow.TherapySessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}

	// Memory is per-conversation, drop it when the session ends
	if err := s.memoryStore.Delete(ctx, sessionId.String()); err != nil {
		s.logger.Warn("ChatService", "Failed to delete session memory", map[string]interface{}{
			"sessionId": sessionId.String(),
			"error":     err.Error(),
		})
	}

	return &dto.CloseSessionResponse{
		Id:     session.Id,
		Status: string(session.Status),
	}, nil
}

func analysisToMap(a *workflow.AnalysisResult) map[string]interface{} {
	if a == nil {
		return nil
	}
	return map[string]interface{}{
		"emotionalState":      a.EmotionalState,
		"themes":              a.Themes,
		"riskLevel":           a.RiskLevel,
		"recommendedApproach": a.RecommendedApproach,
		"progressIndicators":  a.ProgressIndicators,
	}
}

func messageToDTO(m *entity.TherapyMessage) *dto.SessionMessageDTO {
	res := &dto.SessionMessageDTO{
		Id:        m.Id,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.Metadata != nil {
		res.Analysis = m.Metadata.Analysis
		res.Progress = &dto.MessageProgressDTO{
			EmotionalState: m.Metadata.Progress.EmotionalState,
			RiskLevel:      m.Metadata.Progress.RiskLevel,
		}
	}
	return res
}
