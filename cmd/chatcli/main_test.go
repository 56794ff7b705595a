package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/memory"
	"ai-support-chat-be/internal/service"
	"ai-support-chat-be/pkg/knowledge"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, opts options) (*session, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	cfg := &config.Config{
		Ai:        config.AIConfig{Demo: true, BackendTimeout: time.Second},
		Knowledge: config.KnowledgeConfig{AutoLoad: true, MaxChunksPerDoc: 40},
	}
	log := logger.NewNopLogger()
	repo := memory.NewSessionRepository()
	kb := service.NewKnowledgeService(cfg.Knowledge, knowledge.NewSource(""), repo, log)

	var out bytes.Buffer
	s := &session{
		svc:   service.NewChatbotService(cfg, repo, kb, service.Providers{}, nil, log),
		opts:  opts,
		out:   &out,
		reply: color.New(color.FgCyan),
		info:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
	}
	require.NoError(t, s.start(context.Background()))
	return s, &out
}

func TestSendStreamsAndBuffers(t *testing.T) {
	for _, buffered := range []bool{false, true} {
		s, out := newTestSession(t, options{mode: constant.ModeHealth, buffered: buffered})
		require.Len(t, s.opts.sessionId, 32)

		s.send(context.Background(), "I want to die")
		assert.Contains(t, out.String(), constant.CrisisResponse)
	}
}

func TestSlashCommands(t *testing.T) {
	s, out := newTestSession(t, options{mode: constant.ModeHealth})
	ctx := context.Background()

	assert.False(t, s.command(ctx, "/mode Coding"))
	assert.Equal(t, constant.ModeCoding, s.opts.mode)

	assert.False(t, s.command(ctx, "/mode Nope"))
	assert.Equal(t, constant.ModeCoding, s.opts.mode)

	s.send(ctx, "hello")
	out.Reset()
	assert.False(t, s.command(ctx, "/history"))
	assert.Contains(t, out.String(), "USER: hello")

	out.Reset()
	assert.False(t, s.command(ctx, "/clear"))
	assert.Contains(t, out.String(), "session cleared")

	assert.True(t, s.command(ctx, "/quit"))
}

func TestRootCommandRejectsUnknownMode(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--mode", "Poetry"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
