package bootstrap

import (
	"context"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/controller"
	"ai-support-chat-be/internal/handler"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/memory"
	"ai-support-chat-be/internal/service"
	"ai-support-chat-be/pkg/embedding"
	"ai-support-chat-be/pkg/events"
	"ai-support-chat-be/pkg/knowledge"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/llm/factory"

	pktNats "ai-support-chat-be/pkg/nats"
	pktRedis "ai-support-chat-be/pkg/redis"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	HealthController   controller.IHealthController
	ChatbotController  controller.IChatbotController
	SessionController  controller.ISessionController
	DocumentController controller.IDocumentController
	ChatSocketHandler  *handler.ChatSocketHandler

	// Services (exposed for main.go and the terminal client)
	ChatbotService  service.IChatbotService
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	// 1. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 2. Providers
	providers := service.Providers{
		Local:     newLocalProvider(cfg, sysLogger),
		Chat:      factory.NewChatProvider(cfg.Keys.GoogleGemini, cfg.Ai.GeminiModel),
		Embedding: newEmbeddingProvider(cfg, sysLogger),
	}
	sysLogger.Info("BOOTSTRAP", "Backend selected", map[string]interface{}{
		"backend":            string(cfg.Backend()),
		"local_runtime":      cfg.Ai.LocalRuntime,
		"embedding_provider": cfg.Ai.EmbeddingProvider,
	})

	// 3. Storage
	sessionRepo := memory.NewSessionRepository()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	knowledgeService := service.NewKnowledgeService(
		cfg.Knowledge,
		knowledge.NewSource(cfg.Knowledge.Dir),
		sessionRepo,
		sysLogger,
	)
	chatbotService := service.NewChatbotService(
		cfg,
		sessionRepo,
		knowledgeService,
		providers,
		publisherService,
		sysLogger,
	)
	documentService := service.NewDocumentService(
		cfg,
		sessionRepo,
		providers.Embedding,
		publisherService,
		sysLogger,
	)

	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Events.Topic,
		c.eventSinks(ctx, cfg.Events, sysLogger),
		sysLogger,
	)
	c.ChatbotService = chatbotService

	// 5. Controllers
	c.HealthController = controller.NewHealthController(chatbotService)
	c.ChatbotController = controller.NewChatbotController(chatbotService, sysLogger)
	c.SessionController = controller.NewSessionController(chatbotService)
	c.DocumentController = controller.NewDocumentController(documentService)
	c.ChatSocketHandler = handler.NewChatSocketHandler(chatbotService, sysLogger)

	return c
}

// Close releases the event bus and broker connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newLocalProvider(cfg *config.Config, sysLogger logger.ILogger) llm.LLMProvider {
	if cfg.Backend() != config.BackendLocalOnly {
		return nil
	}

	target := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LocalRuntime == factory.RuntimeCLI {
		target = cfg.Ai.OllamaPath
	}

	provider, err := factory.NewLLMProvider(cfg.Ai.LocalRuntime, cfg.Ai.OllamaModel, target)
	if err != nil {
		sysLogger.Error("BOOTSTRAP", "Failed to initialize local runtime", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return provider
}

// newEmbeddingProvider returns a cached embedder, or nil when none is configured.
func newEmbeddingProvider(cfg *config.Config, sysLogger logger.ILogger) embedding.EmbeddingProvider {
	var provider embedding.EmbeddingProvider
	switch {
	case cfg.Ai.EmbeddingProvider == "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel)
	case cfg.Keys.GoogleGemini != "":
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.GeminiEmbeddingModel)
	default:
		sysLogger.Info("BOOTSTRAP", "No embedding provider configured; retrieval is lexical only", nil)
		return nil
	}
	return embedding.NewCachedProvider(provider, embedding.DefaultCacheTTL)
}

// eventSinks connects the optional brokers. A broker that cannot be reached is
// skipped; events then stay in-process.
func (c *Container) eventSinks(ctx context.Context, cfg config.EventsConfig, sysLogger logger.ILogger) []events.Publisher {
	var sinks []events.Publisher

	if cfg.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS", map[string]interface{}{"error": err.Error()})
		} else {
			sinks = append(sinks, natsPub)
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	if cfg.RedisURL != "" {
		redisPub, err := pktRedis.NewPublisher(ctx, cfg.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		} else {
			sinks = append(sinks, redisPub)
			c.closers = append(c.closers, func() { _ = redisPub.Close() })
		}
	}

	return sinks
}
