package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"

	"ai-support-chat-be/internal/bootstrap"
	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

type options struct {
	mode      string
	sessionId string
	noRag     bool
	buffered  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "chatcli",
		Short: "Talk to the support assistant from a terminal",
		Long: "chatcli runs the chat service in-process with the same configuration as the REST server " +
			"(DEMO_MOCK, LOCAL_ONLY, GEMINI_API_KEY, ...).\n\n" +
			"Commands while chatting: /mode <name>, /history, /clear, /quit",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(constant.Modes, opts.mode) {
				return fmt.Errorf("unknown mode %q (choose one of %s)", opts.mode, strings.Join(constant.Modes, ", "))
			}
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", constant.ModeHealth, "conversation mode")
	cmd.Flags().StringVarP(&opts.sessionId, "session", "s", "", "reuse a session id instead of creating one")
	cmd.Flags().BoolVar(&opts.noRag, "no-rag", false, "do not add related notes to the prompt")
	cmd.Flags().BoolVar(&opts.buffered, "buffered", false, "print whole replies instead of streaming")

	return cmd
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	cfg := config.Load()
	sysLogger := logger.NewConsoleLogger(zapcore.WarnLevel)
	defer sysLogger.Sync()

	container := bootstrap.NewContainer(ctx, cfg, sysLogger)
	defer container.Close()
	go func() { _ = container.ConsumerService.Consume(ctx) }()

	chat := &session{
		svc:   container.ChatbotService,
		opts:  opts,
		out:   out,
		reply: color.New(color.FgCyan),
		info:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
	}
	if err := chat.start(ctx); err != nil {
		return err
	}

	chat.info.Fprintf(out, "backend=%s session=%s mode=%s\n", cfg.Backend(), chat.opts.sessionId, chat.opts.mode)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, color.GreenString("you> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := chat.command(ctx, line); quit {
				return nil
			}
			continue
		}
		chat.send(ctx, line)
	}
}

type session struct {
	svc  service.IChatbotService
	opts options
	out  io.Writer

	reply *color.Color
	info  *color.Color
	fail  *color.Color
}

func (s *session) start(ctx context.Context) error {
	if s.opts.sessionId != "" {
		return nil
	}
	res, err := s.svc.CreateSession(ctx)
	if err != nil {
		return err
	}
	s.opts.sessionId = res.SessionId
	return nil
}

func (s *session) request(message string) *dto.ChatRequest {
	useRag := !s.opts.noRag
	return &dto.ChatRequest{
		SessionId: s.opts.sessionId,
		Message:   message,
		Mode:      s.opts.mode,
		UseRag:    &useRag,
	}
}

func (s *session) send(ctx context.Context, message string) {
	if s.opts.buffered {
		res, err := s.svc.SendChat(ctx, s.request(message))
		if err != nil {
			s.fail.Fprintf(s.out, "error: %v\n", err)
			return
		}
		s.opts.sessionId = res.SessionId
		s.reply.Fprintln(s.out, res.Reply)
		return
	}

	stream, err := s.svc.OpenStream(ctx, s.request(message))
	if err != nil {
		s.fail.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.opts.sessionId = stream.SessionId

	err = stream.Run(ctx, func(fragment string) error {
		_, err := s.reply.Fprint(s.out, fragment)
		return err
	})
	fmt.Fprintln(s.out)
	if err != nil {
		s.fail.Fprintf(s.out, "stream interrupted: %v\n", err)
	}
}

// command handles a slash command and reports whether the user asked to quit.
func (s *session) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true

	case "/mode":
		if !slices.Contains(constant.Modes, arg) {
			s.fail.Fprintf(s.out, "modes: %s\n", strings.Join(constant.Modes, ", "))
			return false
		}
		s.opts.mode = arg
		s.info.Fprintf(s.out, "mode=%s\n", arg)

	case "/history":
		res, err := s.svc.History(ctx, s.opts.sessionId)
		if err != nil {
			s.fail.Fprintf(s.out, "error: %v\n", err)
			return false
		}
		for _, turn := range res.History {
			s.info.Fprintf(s.out, "%s: ", strings.ToUpper(turn.Role))
			fmt.Fprintln(s.out, turn.Content)
		}

	case "/clear":
		if _, err := s.svc.ClearSession(ctx, s.opts.sessionId); err != nil {
			s.fail.Fprintf(s.out, "error: %v\n", err)
			return false
		}
		s.info.Fprintln(s.out, "session cleared")

	default:
		s.fail.Fprintf(s.out, "unknown command %s\n", name)
	}
	return false
}
