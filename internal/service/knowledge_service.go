package service

import (
	"context"
	"fmt"
	"sync"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/memory"
	"ai-support-chat-be/pkg/document"
	"ai-support-chat-be/pkg/knowledge"
	"ai-support-chat-be/pkg/utils"
)

type IKnowledgeService interface {
	// AutoLoad seeds a session with the built-in documents and returns how many
	// chunks were added. Sessions that already hold chunks are left alone.
	AutoLoad(ctx context.Context, sessionId string) (int, error)
}

type knowledgeService struct {
	cfg         config.KnowledgeConfig
	source      *knowledge.Source
	sessionRepo *memory.SessionRepository
	logger      logger.ILogger

	// Serializes the check-then-add so concurrent callers load once.
	mu sync.Mutex

	once    sync.Once
	chunks  []entity.RetrievalChunk
	loadErr error
}

func NewKnowledgeService(
	cfg config.KnowledgeConfig,
	source *knowledge.Source,
	sessionRepo *memory.SessionRepository,
	logger logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		cfg:         cfg,
		source:      source,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

func (ks *knowledgeService) AutoLoad(ctx context.Context, sessionId string) (int, error) {
	if !ks.cfg.AutoLoad {
		return 0, nil
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	if ks.sessionRepo.Status(sessionId).TotalChunks > 0 {
		return 0, nil
	}

	chunks, err := ks.builtinChunks()
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	ks.sessionRepo.AddChunks(sessionId, chunks)
	ks.logger.Debug("KNOWLEDGE", "Built-in knowledge loaded", map[string]interface{}{
		"session_id": sessionId,
		"chunks":     len(chunks),
	})
	return len(chunks), nil
}

// builtinChunks chunks the documents once; the result is shared read-only.
func (ks *knowledgeService) builtinChunks() ([]entity.RetrievalChunk, error) {
	ks.once.Do(func() {
		docs, err := ks.source.Documents()
		if err != nil {
			ks.loadErr = fmt.Errorf("load built-in knowledge: %w", err)
			return
		}

		for _, doc := range docs {
			pieces := utils.ChunkByWords(document.CleanText(doc.Text), utils.DefaultChunkWords, utils.DefaultOverlapWords)
			if ks.cfg.MaxChunksPerDoc >= 0 && len(pieces) > ks.cfg.MaxChunksPerDoc {
				pieces = pieces[:ks.cfg.MaxChunksPerDoc]
			}
			for i, piece := range pieces {
				ks.chunks = append(ks.chunks, entity.RetrievalChunk{
					DocName:   doc.Name,
					ChunkId:   fmt.Sprintf("%s#%d", doc.Name, i),
					Text:      piece,
					Embedding: entity.PlaceholderEmbedding(),
				})
			}
		}
	})
	return ks.chunks, ks.loadErr
}
