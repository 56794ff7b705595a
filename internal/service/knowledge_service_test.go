package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/memory"
	"ai-support-chat-be/pkg/knowledge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoLoadIsIdempotent(t *testing.T) {
	repo := memory.NewSessionRepository()
	ks := NewKnowledgeService(config.KnowledgeConfig{AutoLoad: true, MaxChunksPerDoc: 40}, knowledge.NewSource(""), repo, logger.NewNopLogger())
	ctx := context.Background()

	added, err := ks.AutoLoad(ctx, "session-a")
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	added, err = ks.AutoLoad(ctx, "session-a")
	require.NoError(t, err)
	assert.Zero(t, added)

	status := repo.Status("session-a")
	assert.Equal(t, 3, status.TotalChunks)
	assert.Equal(t, map[string]int{"coping_skills.md": 1, "friendship_tips.md": 1, "study_planning.md": 1}, status.ByDoc)

	chunks := repo.Chunks("session-a")
	assert.Equal(t, "coping_skills.md#0", chunks[0].ChunkId)
	assert.Equal(t, []float32{0}, chunks[0].Embedding)
}

func TestAutoLoadConcurrentCallersLoadOnce(t *testing.T) {
	repo := memory.NewSessionRepository()
	ks := NewKnowledgeService(config.KnowledgeConfig{AutoLoad: true, MaxChunksPerDoc: 40}, knowledge.NewSource(""), repo, logger.NewNopLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ks.AutoLoad(context.Background(), "session-b")
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, repo.Status("session-b").TotalChunks)
}

func TestAutoLoadSkips(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		ks := NewKnowledgeService(config.KnowledgeConfig{AutoLoad: false, MaxChunksPerDoc: 40}, knowledge.NewSource(""), repo, logger.NewNopLogger())

		added, err := ks.AutoLoad(context.Background(), "session-c")
		require.NoError(t, err)
		assert.Zero(t, added)
		assert.False(t, repo.Exists("session-c"))
	})

	t.Run("missing directory", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		dir := filepath.Join(t.TempDir(), "nope")
		ks := NewKnowledgeService(config.KnowledgeConfig{AutoLoad: true, MaxChunksPerDoc: 40}, knowledge.NewSource(dir), repo, logger.NewNopLogger())

		added, err := ks.AutoLoad(context.Background(), "session-d")
		require.NoError(t, err)
		assert.Zero(t, added)
	})
}

func TestAutoLoadCapsChunksPerDocument(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("word ", 1000)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "long.md"), []byte(long), 0o644))

	repo := memory.NewSessionRepository()
	ks := NewKnowledgeService(config.KnowledgeConfig{AutoLoad: true, MaxChunksPerDoc: 2}, knowledge.NewSource(dir), repo, logger.NewNopLogger())

	added, err := ks.AutoLoad(context.Background(), "session-e")
	require.NoError(t, err)

	assert.Equal(t, 2, added)
	chunks := repo.Chunks("session-e")
	assert.Equal(t, "long.md#1", chunks[1].ChunkId)
}
