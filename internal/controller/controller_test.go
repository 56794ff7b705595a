package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/pkg/serverutils"
	"ai-support-chat-be/internal/repository/memory"
	"ai-support-chat-be/internal/service"
	"ai-support-chat-be/pkg/knowledge"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(cfg *config.Config) *fiber.App {
	log := logger.NewNopLogger()
	repo := memory.NewSessionRepository()
	kb := service.NewKnowledgeService(cfg.Knowledge, knowledge.NewSource(""), repo, log)
	chatbotService := service.NewChatbotService(cfg, repo, kb, service.Providers{}, nil, log)
	documentService := service.NewDocumentService(cfg, repo, nil, nil, log)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	app.Use(serverutils.ErrorHandlerMiddleware())

	NewHealthController(chatbotService).RegisterRoutes(app)
	api := app.Group("/api")
	NewChatbotController(chatbotService, log).RegisterRoutes(api)
	NewSessionController(chatbotService).RegisterRoutes(api)
	NewDocumentController(documentService).RegisterRoutes(api)
	return app
}

func demoConfig() *config.Config {
	return &config.Config{
		Ai:        config.AIConfig{Demo: true, BackendTimeout: time.Second},
		Knowledge: config.KnowledgeConfig{AutoLoad: true, MaxChunksPerDoc: 40},
	}
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestHealthAndModes(t *testing.T) {
	app := newTestApp(demoConfig())

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	health := decode[dto.HealthResponse](t, res)
	assert.True(t, health.Ok)
	assert.Equal(t, "demo", health.Backend)
	assert.True(t, health.Demo)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/modes", nil))
	require.NoError(t, err)
	modes := decode[dto.ModesResponse](t, res)
	assert.Equal(t, constant.Modes, modes.Modes)
}

func TestChatEndpoint(t *testing.T) {
	app := newTestApp(demoConfig())

	res, err := app.Test(jsonRequest(http.MethodPost, "/api/chat", map[string]interface{}{
		"session_id": "session-http",
		"message":    "I feel really anxious about my exam tomorrow",
		"mode":       "Health",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decode[dto.ChatResponse](t, res)
	assert.Equal(t, "session-http", body.SessionId)
	assert.Equal(t, "Health", body.Mode)
	assert.Contains(t, body.Reply, "Breathe in for 4")

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/session/history?session_id=session-http", nil))
	require.NoError(t, err)
	history := decode[dto.HistoryResponse](t, res)
	assert.Len(t, history.History, 2)
}

func TestChatEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *config.Config
		body       map[string]interface{}
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"missing message", demoConfig(), map[string]interface{}{"session_id": "session-http"}, http.StatusBadRequest, "VALIDATION_ERROR", "message is required"},
		{"blank message", demoConfig(), map[string]interface{}{"session_id": "session-http", "message": "  "}, http.StatusBadRequest, "VALIDATION_ERROR", "Empty input."},
		{"missing key", &config.Config{}, map[string]interface{}{"session_id": "session-http", "message": "hi"}, http.StatusInternalServerError, "CONFIGURATION_ERROR", "Missing GEMINI_API_KEY. Set environment variable GEMINI_API_KEY."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestApp(tt.cfg).Test(jsonRequest(http.MethodPost, "/api/chat", tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.StatusCode)

			body := decode[serverutils.ErrorResponse](t, res)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestChatStreamEndpoint(t *testing.T) {
	app := newTestApp(demoConfig())

	res, err := app.Test(jsonRequest(http.MethodPost, "/api/chat/stream", map[string]interface{}{
		"session_id": "x",
		"message":    "I want to die",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, constant.StreamContentType, res.Header.Get("Content-Type"))

	sessionId := res.Header.Get("X-Session-Id")
	assert.Len(t, sessionId, 32)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, constant.CrisisResponse, string(raw))

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/session/history?session_id="+sessionId, nil))
	require.NoError(t, err)
	history := decode[dto.HistoryResponse](t, res)
	require.Len(t, history.History, 2)
	assert.Equal(t, constant.CrisisResponse, history.History[1].Content)
}

func TestSessionEndpoints(t *testing.T) {
	app := newTestApp(demoConfig())

	res, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/session/new", nil))
	require.NoError(t, err)
	created := decode[dto.NewSessionResponse](t, res)
	require.Len(t, created.SessionId, 32)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/rag/status?session_id="+created.SessionId, nil))
	require.NoError(t, err)
	status := decode[dto.RagStatusResponse](t, res)
	assert.Equal(t, 3, status.TotalChunks)

	res, err = app.Test(jsonRequest(http.MethodPost, "/api/session/clear", map[string]string{"session_id": created.SessionId}))
	require.NoError(t, err)
	cleared := decode[dto.ClearResponse](t, res)
	assert.True(t, cleared.Ok)
	assert.Equal(t, created.SessionId, cleared.SessionId)

	res, err = app.Test(jsonRequest(http.MethodPost, "/api/session/clear", map[string]string{"session_id": "abc"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/session/history", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func uploadRequest(t *testing.T, sessionId, fileName, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/rag/upload?session_id="+sessionId, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadEndpoint(t *testing.T) {
	app := newTestApp(demoConfig())

	res, err := app.Test(uploadRequest(t, "session-up", "plan.md", "# Plan\n\nStudy algebra for twenty minutes."))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decode[dto.UploadResponse](t, res)
	assert.Equal(t, "plan.md", body.DocName)
	assert.Equal(t, 1, body.ChunksAdded)
	assert.Equal(t, 1, body.TotalChunks)

	res, err = app.Test(uploadRequest(t, "session-up", "plan.docx", "hello"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	errBody := decode[serverutils.ErrorResponse](t, res)
	assert.True(t, strings.Contains(errBody.Message, ".pdf"))

	missing := httptest.NewRequest(http.MethodPost, "/api/rag/upload?session_id=session-up", nil)
	res, err = app.Test(missing)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
