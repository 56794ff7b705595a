package service

import (
	"context"
	"fmt"
	"strings"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/safety"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// produceFunc writes the reply to emit and records everything it generated in out.
type produceFunc func(ctx context.Context, emit func(string) error, out *strings.Builder) error

// ChatStream is a prepared chat turn whose reply is delivered in fragments.
// Run must be called once.
type ChatStream struct {
	SessionId string
	Mode      string

	produce  produceFunc
	finish   func(reply string, outcome turnOutcome)
	outcome  turnOutcome
	trimText bool
}

// Run streams the reply through emit. However Run ends (emit error, backend failure,
// cancellation or panic) the user message and the produced reply are appended to
// the session exactly once.
func (s *ChatStream) Run(ctx context.Context, emit func(string) error) (err error) {
	var out strings.Builder
	defer func() {
		reply := out.String()
		if s.trimText {
			reply = strings.TrimSpace(reply)
		}
		outcome := s.outcome
		outcome.streamed = true
		outcome.failed = outcome.failed || err != nil
		s.finish(reply, outcome)
	}()

	return s.produce(ctx, emit, &out)
}

func (cs *chatbotService) OpenStream(ctx context.Context, request *dto.ChatRequest) (*ChatStream, error) {
	turn, err := cs.prepare(request)
	if err != nil {
		return nil, err
	}

	stream := &ChatStream{
		SessionId: turn.sessionId,
		Mode:      turn.mode,
		finish: func(reply string, outcome turnOutcome) {
			cs.complete(ctx, turn, reply, outcome)
		},
	}

	if safety.IsCrisis(turn.message) {
		stream.outcome.crisis = true
		stream.produce = fixedText(constant.CrisisResponse, constant.CrisisStreamFragment)
		return stream, nil
	}

	switch cs.backend {
	case config.BackendDemo:
		stream.produce = fixedText(cs.demoReply(turn), constant.ReplyStreamFragment)

	case config.BackendLocalOnly:
		stream.produce = func(ctx context.Context, emit func(string) error, out *strings.Builder) error {
			text, err := cs.generateLocal(ctx, turn)
			if err != nil {
				stream.outcome.failed = true
				text = fmt.Sprintf(constant.OllamaErrorMarker, err)
			}
			return fixedText(text, constant.ReplyStreamFragment)(ctx, emit, out)
		}

	default:
		if err := cs.requireChatProvider(); err != nil {
			return nil, err
		}
		system, history := cs.cloudInput(ctx, turn)
		stream.trimText = true
		stream.produce = func(ctx context.Context, emit func(string) error, out *strings.Builder) error {
			return cs.chatStream(ctx, system, history, turn.message, emit, out, &stream.outcome)
		}
	}

	return stream, nil
}

func (cs *chatbotService) chatStream(
	ctx context.Context,
	system string,
	history []llm.Message,
	message string,
	emit func(string) error,
	out *strings.Builder,
	outcome *turnOutcome,
) error {
	ctx, span := cs.tracer.Start(ctx, "chatbot.stream_cloud", trace.WithAttributes(
		attribute.Int("history_length", len(history)),
	))
	defer span.End()

	ctx, cancel := cs.timeouts.withBackend(ctx)
	defer cancel()

	var emitErr error
	err := cs.providers.Chat.ChatStream(ctx, system, history, message, func(fragment string) error {
		out.WriteString(fragment)
		if emitErr = emit(fragment); emitErr != nil {
			return emitErr
		}
		return nil
	})
	if emitErr != nil {
		// Client went away; nothing left to deliver to.
		return emitErr
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		cs.logger.Error("CHAT", "Cloud stream failed", map[string]interface{}{"error": err.Error()})

		outcome.failed = true
		marker := fmt.Sprintf(constant.GeminiErrorMarker, err)
		out.WriteString(marker)
		return emit(marker)
	}
	return nil
}

// fixedText streams an already complete reply in fragments of size runes.
func fixedText(text string, size int) produceFunc {
	return func(ctx context.Context, emit func(string) error, out *strings.Builder) error {
		out.WriteString(text)
		for _, fragment := range splitRunes(text, size) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := emit(fragment); err != nil {
				return err
			}
		}
		return nil
	}
}

func splitRunes(text string, size int) []string {
	runes := []rune(text)
	if size <= 0 {
		size = len(runes)
	}
	fragments := make([]string, 0, len(runes)/max(size, 1)+1)
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		fragments = append(fragments, string(runes[i:end]))
	}
	return fragments
}
