package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/pkg/apperror"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/memory"
	"ai-support-chat-be/pkg/demo"
	"ai-support-chat-be/pkg/embedding"
	"ai-support-chat-be/pkg/events"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/rag/prompt"
	"ai-support-chat-be/pkg/rag/search"
	"ai-support-chat-be/pkg/safety"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const missingKeyMessage = "Missing GEMINI_API_KEY. Set environment variable GEMINI_API_KEY."

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	CreateSession(ctx context.Context) (*dto.NewSessionResponse, error)
	ClearSession(ctx context.Context, sessionId string) (*dto.ClearResponse, error)
	History(ctx context.Context, sessionId string) (*dto.HistoryResponse, error)
	Modes() *dto.ModesResponse
	Health() *dto.HealthResponse
	SendChat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	OpenStream(ctx context.Context, request *dto.ChatRequest) (*ChatStream, error)
}

// Providers groups the generation backends. Any of them may be nil when the
// matching backend is not configured.
type Providers struct {
	Local     llm.LLMProvider
	Chat      llm.ChatProvider
	Embedding embedding.EmbeddingProvider
}

type chatbotService struct {
	cfg         *config.Config
	backend     config.Backend
	timeouts    timeouts
	sessionRepo *memory.SessionRepository
	knowledge   IKnowledgeService
	responder   *demo.Responder
	providers   Providers
	publisher   IPublisherService
	logger      logger.ILogger
	tracer      trace.Tracer
}

func NewChatbotService(
	cfg *config.Config,
	sessionRepo *memory.SessionRepository,
	knowledge IKnowledgeService,
	providers Providers,
	publisher IPublisherService,
	logger logger.ILogger,
) IChatbotService {
	return &chatbotService{
		cfg:         cfg,
		backend:     cfg.Backend(),
		timeouts:    timeouts{backend: cfg.Ai.BackendTimeout},
		sessionRepo: sessionRepo,
		knowledge:   knowledge,
		responder:   demo.NewResponder(),
		providers:   providers,
		publisher:   publisher,
		logger:      logger,
		tracer:      otel.Tracer("ai-support-chat-be/service/chatbot"),
	}
}

// chatTurn is a validated chat request.
type chatTurn struct {
	sessionId string
	message   string
	mode      string
	useRag    bool
}

func (cs *chatbotService) CreateSession(ctx context.Context) (*dto.NewSessionResponse, error) {
	sessionId := newSessionId()
	cs.sessionRepo.GetOrCreate(sessionId)
	cs.autoLoad(ctx, sessionId)

	return &dto.NewSessionResponse{SessionId: sessionId}, nil
}

func (cs *chatbotService) ClearSession(ctx context.Context, sessionId string) (*dto.ClearResponse, error) {
	cs.sessionRepo.Clear(sessionId)
	return &dto.ClearResponse{Ok: true, SessionId: sessionId}, nil
}

func (cs *chatbotService) History(ctx context.Context, sessionId string) (*dto.HistoryResponse, error) {
	if sessionId == "" {
		return nil, apperror.Validation("session_id is required")
	}
	session := cs.sessionRepo.GetOrCreate(sessionId)
	return &dto.HistoryResponse{SessionId: sessionId, History: session.History}, nil
}

func (cs *chatbotService) Modes() *dto.ModesResponse {
	return &dto.ModesResponse{Modes: append([]string{}, constant.Modes...)}
}

func (cs *chatbotService) Health() *dto.HealthResponse {
	return &dto.HealthResponse{
		Ok:           true,
		Backend:      string(cs.backend),
		Demo:         cs.backend == config.BackendDemo,
		LocalOnly:    cs.cfg.Ai.LocalOnly,
		HasGeminiKey: cs.cfg.HasGeminiKey(),
		AutoLoadKb:   cs.cfg.Knowledge.AutoLoad,
		Sessions:     cs.sessionRepo.Count(),
	}
}

func (cs *chatbotService) SendChat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	turn, err := cs.prepare(request)
	if err != nil {
		return nil, err
	}

	respond := func(reply string) *dto.ChatResponse {
		return &dto.ChatResponse{SessionId: turn.sessionId, Reply: reply, Mode: turn.mode}
	}

	if safety.IsCrisis(turn.message) {
		cs.complete(ctx, turn, constant.CrisisResponse, turnOutcome{crisis: true})
		return respond(constant.CrisisResponse), nil
	}

	switch cs.backend {
	case config.BackendDemo:
		reply := cs.demoReply(turn)
		cs.complete(ctx, turn, reply, turnOutcome{})
		return respond(reply), nil

	case config.BackendLocalOnly:
		reply, err := cs.generateLocal(ctx, turn)
		if err != nil {
			cs.complete(ctx, turn, strings.TrimSpace(fmt.Sprintf(constant.OllamaErrorMarker, err)), turnOutcome{failed: true})
			return nil, apperror.Service("Ollama local call failed", err)
		}
		cs.complete(ctx, turn, reply, turnOutcome{})
		return respond(reply), nil

	default:
		if err := cs.requireChatProvider(); err != nil {
			return nil, err
		}
		system, history := cs.cloudInput(ctx, turn)

		reply, err := cs.chat(ctx, system, history, turn.message)
		if err != nil {
			cs.complete(ctx, turn, strings.TrimSpace(fmt.Sprintf(constant.GeminiErrorMarker, err)), turnOutcome{failed: true})
			return nil, apperror.Service("Gemini call failed", err)
		}
		cs.complete(ctx, turn, reply, turnOutcome{})
		return respond(reply), nil
	}
}

// prepare validates the request. A missing or short session id is replaced with a
// fresh one rather than rejected.
func (cs *chatbotService) prepare(request *dto.ChatRequest) (*chatTurn, error) {
	if strings.TrimSpace(request.Message) == "" {
		return nil, apperror.Validation("Empty input.")
	}

	sessionId := request.SessionId
	if len(sessionId) < constant.MinSessionIdLength {
		sessionId = newSessionId()
	}
	cs.sessionRepo.GetOrCreate(sessionId)

	mode := request.Mode
	if mode == "" {
		mode = constant.ModeHealth
	}

	return &chatTurn{
		sessionId: sessionId,
		message:   request.Message,
		mode:      mode,
		useRag:    request.RagEnabled(),
	}, nil
}

func (cs *chatbotService) demoReply(turn *chatTurn) string {
	reply := cs.responder.Reply(lastAssistant(cs.sessionRepo.History(turn.sessionId)), turn.message, turn.mode)
	if turn.useRag {
		if notes := cs.lexicalNotes(turn); notes != "" {
			reply += constant.DemoNotesHeader + notes
		}
	}
	return reply
}

func (cs *chatbotService) generateLocal(ctx context.Context, turn *chatTurn) (string, error) {
	if cs.providers.Local == nil {
		return "", fmt.Errorf("local runtime is not configured")
	}
	cs.autoLoad(ctx, turn.sessionId)

	notes := ""
	if turn.useRag {
		notes = cs.lexicalNotes(turn)
	}
	instructions := prompt.BuildInstructions(turn.mode, notes)
	history := nonEmptyTurns(cs.sessionRepo.History(turn.sessionId))
	input := prompt.BuildPrompt(turn.mode, instructions, history, turn.message)

	ctx, span := cs.tracer.Start(ctx, "chatbot.generate_local", trace.WithAttributes(
		attribute.String("session_id", turn.sessionId),
		attribute.Int("prompt_length", len(input)),
	))
	defer span.End()

	ctx, cancel := cs.timeouts.withBackend(ctx)
	defer cancel()

	start := time.Now()
	reply, err := cs.providers.Local.Generate(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		cs.logger.Error("CHAT", "Local generation failed", map[string]interface{}{
			"session_id": turn.sessionId,
			"error":      err.Error(),
		})
		return "", err
	}

	cs.logger.Debug("CHAT", "Local generation finished", map[string]interface{}{
		"session_id":  turn.sessionId,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return reply, nil
}

func (cs *chatbotService) requireChatProvider() error {
	if cs.cfg.Keys.GoogleGemini == "" || cs.providers.Chat == nil {
		return apperror.Configuration(missingKeyMessage)
	}
	return nil
}

// cloudInput builds the system instruction and the provider history for a cloud turn.
func (cs *chatbotService) cloudInput(ctx context.Context, turn *chatTurn) (string, []llm.Message) {
	notes := ""
	if turn.useRag {
		notes = cs.vectorNotes(ctx, turn)
	}
	system := prompt.BuildInstructions(turn.mode, notes)

	stored := cs.sessionRepo.History(turn.sessionId)
	history := make([]llm.Message, 0, len(stored))
	for _, t := range stored {
		history = append(history, llm.Message{Role: t.Role, Content: t.Content})
	}
	return system, history
}

func (cs *chatbotService) chat(ctx context.Context, system string, history []llm.Message, message string) (string, error) {
	ctx, span := cs.tracer.Start(ctx, "chatbot.generate_cloud", trace.WithAttributes(
		attribute.Int("history_length", len(history)),
	))
	defer span.End()

	ctx, cancel := cs.timeouts.withBackend(ctx)
	defer cancel()

	reply, err := cs.providers.Chat.Chat(ctx, system, history, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		cs.logger.Error("CHAT", "Cloud generation failed", map[string]interface{}{"error": err.Error()})
		return "", err
	}
	return reply, nil
}

func (cs *chatbotService) lexicalNotes(turn *chatTurn) string {
	chunks := cs.sessionRepo.Chunks(turn.sessionId)
	if len(chunks) == 0 {
		return ""
	}
	return search.FormatContext(search.LexicalTopK(turn.message, chunks, search.DefaultTopK))
}

// vectorNotes ranks the session's chunks by embedding similarity. Sessions holding only
// placeholder vectors skip the query embedding. Retrieval problems degrade to no notes.
func (cs *chatbotService) vectorNotes(ctx context.Context, turn *chatTurn) string {
	chunks := cs.sessionRepo.Chunks(turn.sessionId)
	if !search.HasVectors(chunks) || cs.providers.Embedding == nil {
		return ""
	}

	ctx, span := cs.tracer.Start(ctx, "chatbot.retrieve")
	defer span.End()

	ctx, cancel := cs.timeouts.withBackend(ctx)
	defer cancel()

	res, err := cs.providers.Embedding.Generate(ctx, turn.message, embedding.TaskRetrievalQuery)
	if err != nil {
		retrievalErr := apperror.Retrieval("Query embedding failed", err)
		span.RecordError(retrievalErr)
		cs.logger.Warn("RAG", "Retrieval skipped", map[string]interface{}{
			"session_id": turn.sessionId,
			"error":      retrievalErr.Error(),
		})
		return ""
	}

	hits := search.CosineTopK(res.Embedding.Values, chunks, search.DefaultTopK)
	span.SetAttributes(attribute.Int("hits", len(hits)))
	return search.FormatContext(hits)
}

func (cs *chatbotService) autoLoad(ctx context.Context, sessionId string) {
	if _, err := cs.knowledge.AutoLoad(ctx, sessionId); err != nil {
		cs.logger.Warn("KNOWLEDGE", "Auto-load failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

type turnOutcome struct {
	crisis   bool
	streamed bool
	failed   bool
}

// complete records the exchange and announces it. Every chat path ends here exactly once.
func (cs *chatbotService) complete(ctx context.Context, turn *chatTurn, reply string, outcome turnOutcome) {
	cs.sessionRepo.AppendTurn(turn.sessionId, constant.ChatMessageRoleUser, turn.message)
	cs.sessionRepo.AppendTurn(turn.sessionId, constant.ChatMessageRoleAssistant, reply)

	if cs.publisher == nil {
		return
	}
	event := events.New(constant.EventChatTurnCompleted, map[string]interface{}{
		"session_id":   turn.sessionId,
		"mode":         turn.mode,
		"backend":      string(cs.backend),
		"crisis":       outcome.crisis,
		"streamed":     outcome.streamed,
		"failed":       outcome.failed,
		"reply_length": len(reply),
	})
	// The request context may already be cancelled (client gone); the event still goes out.
	if err := cs.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		cs.logger.Warn("EVENTS", "Failed to publish chat event", map[string]interface{}{
			"session_id": turn.sessionId,
			"error":      err.Error(),
		})
	}
}

type timeouts struct {
	backend time.Duration
}

func (t timeouts) withBackend(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.backend <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.backend)
}

func newSessionId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func lastAssistant(history []entity.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == constant.ChatMessageRoleAssistant {
			return history[i].Content
		}
	}
	return ""
}

func nonEmptyTurns(history []entity.Turn) []entity.Turn {
	out := make([]entity.Turn, 0, len(history))
	for _, t := range history {
		if t.Content != "" {
			out = append(out, t)
		}
	}
	return out
}
