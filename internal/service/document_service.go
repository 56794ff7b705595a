package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/pkg/apperror"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/memory"
	"ai-support-chat-be/pkg/document"
	"ai-support-chat-be/pkg/embedding"
	"ai-support-chat-be/pkg/events"
	"ai-support-chat-be/pkg/utils"
)

type IDocumentService interface {
	Ingest(ctx context.Context, sessionId, fileName string, raw []byte) (*dto.UploadResponse, error)
	Status(ctx context.Context, sessionId string) *dto.RagStatusResponse
}

type documentService struct {
	backend           config.Backend
	timeouts          timeouts
	sessionRepo       *memory.SessionRepository
	embeddingProvider embedding.EmbeddingProvider
	publisher         IPublisherService
	logger            logger.ILogger
}

// NewDocumentService wires upload ingestion. embeddingProvider may be nil; chunks
// then carry placeholder embeddings.
func NewDocumentService(
	cfg *config.Config,
	sessionRepo *memory.SessionRepository,
	embeddingProvider embedding.EmbeddingProvider,
	publisher IPublisherService,
	logger logger.ILogger,
) IDocumentService {
	return &documentService{
		backend:           cfg.Backend(),
		timeouts:          timeouts{backend: cfg.Ai.BackendTimeout},
		sessionRepo:       sessionRepo,
		embeddingProvider: embeddingProvider,
		publisher:         publisher,
		logger:            logger,
	}
}

func (ds *documentService) Ingest(ctx context.Context, sessionId, fileName string, raw []byte) (*dto.UploadResponse, error) {
	if len(sessionId) < constant.MinSessionIdLength {
		return nil, apperror.Validation(fmt.Sprintf("session_id must be at least %d characters", constant.MinSessionIdLength))
	}

	docName := filepath.Base(fileName)
	text, err := document.Extract(docName, raw)
	if err != nil {
		if errors.Is(err, document.ErrUnsupportedType) || errors.Is(err, document.ErrEmptyDocument) {
			return nil, apperror.Validation(err.Error())
		}
		return nil, apperror.Validation(fmt.Sprintf("could not read %s: %v", docName, err))
	}

	pieces := utils.ChunkByWords(text, utils.DefaultChunkWords, utils.DefaultOverlapWords)
	chunks := make([]entity.RetrievalChunk, 0, len(pieces))
	embed := ds.backend == config.BackendCloud && ds.embeddingProvider != nil

	for i, piece := range pieces {
		vector := entity.PlaceholderEmbedding()
		if embed {
			vector, err = ds.embed(ctx, piece)
			if err != nil {
				return nil, apperror.Service("Embedding failed", err)
			}
		}
		chunks = append(chunks, entity.RetrievalChunk{
			DocName:   docName,
			ChunkId:   fmt.Sprintf("%s#%d", docName, i),
			Text:      piece,
			Embedding: vector,
		})
	}

	ds.sessionRepo.AddChunks(sessionId, chunks)
	total := ds.sessionRepo.Status(sessionId).TotalChunks

	ds.logger.Info("DOCUMENT", "Document ingested", map[string]interface{}{
		"session_id": sessionId,
		"doc_name":   docName,
		"chunks":     len(chunks),
		"embedded":   embed,
	})
	ds.publish(ctx, events.New(constant.EventDocumentIngested, map[string]interface{}{
		"session_id":   sessionId,
		"doc_name":     docName,
		"chunks_added": len(chunks),
	}))

	return &dto.UploadResponse{
		SessionId:   sessionId,
		DocName:     docName,
		ChunksAdded: len(chunks),
		TotalChunks: total,
	}, nil
}

func (ds *documentService) Status(ctx context.Context, sessionId string) *dto.RagStatusResponse {
	status := ds.sessionRepo.Status(sessionId)
	return &dto.RagStatusResponse{
		SessionId:   sessionId,
		TotalChunks: status.TotalChunks,
		ByDoc:       status.ByDoc,
	}
}

func (ds *documentService) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := ds.timeouts.withBackend(ctx)
	defer cancel()

	res, err := ds.embeddingProvider.Generate(ctx, text, embedding.TaskRetrievalDocument)
	if err != nil {
		return nil, err
	}
	return res.Embedding.Values, nil
}

func (ds *documentService) publish(ctx context.Context, event events.Event) {
	if ds.publisher == nil {
		return
	}
	if err := ds.publisher.Publish(ctx, event); err != nil {
		ds.logger.Warn("DOCUMENT", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
