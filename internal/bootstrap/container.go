package bootstrap

import (
	"context"
	"time"

	"simvado-be/internal/config"
	"simvado-be/internal/controller"
	"simvado-be/internal/pkg/logger"
	"simvado-be/internal/pkg/mailer"
	"simvado-be/internal/repository/memory"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/internal/service"
	"simvado-be/pkg/debrief"
	"simvado-be/pkg/events"
	"simvado-be/pkg/llm/factory"
	"simvado-be/pkg/lock"
	"simvado-be/pkg/metrics"

	pktNats "simvado-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	GameController    controller.IGameController
	ModuleController  controller.IModuleController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService

	Logger   logger.ILogger
	Registry *prometheus.Registry

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	var emailService mailer.IEmailService = mailer.NoopEmailService{}
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
		)
	} else {
		sysLogger.Warn("BOOT", "SMTP_HOST not set, assignment notices are disabled", nil)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// NATS
	var closers []func()
	var sender events.Sender
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOT", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
	} else {
		sender = natsPub
		closers = append(closers, natsPub.Close)
	}
	var auditSubscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOT", "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
	} else {
		auditSubscriber = natsSub
		closers = append(closers, natsSub.Close)
	}
	eventPublisher := events.NewNatsPublisher(sender, sysLogger)

	// Redis
	var distributed lock.Locker
	if cfg.Redis.Enabled {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			sysLogger.Warn("BOOT", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.Redis.URL}
		}
		rdb := redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			sysLogger.Warn("BOOT", "Failed to connect to Redis, session locks are process-local", map[string]interface{}{"error": err.Error()})
			_ = rdb.Close()
		} else {
			distributed = lock.NewRedisLocker(rdb, cfg.Redis.Prefix)
			closers = append(closers, func() { _ = rdb.Close() })
		}
		cancel()
	}
	sessionLocker := lock.NewSessionLocker(distributed, cfg.Engine.SessionLockTTL, sysLogger)

	// AI
	var reaction, debriefer debrief.Summarizer
	llmProvider, err := factory.NewLLMProvider(context.Background(), factory.Config{
		Provider:        cfg.Ai.LLMProvider,
		Model:           cfg.Ai.LLMModel,
		AnthropicAPIKey: cfg.Keys.Anthropic,
		OpenAIAPIKey:    cfg.Keys.OpenAI,
		OpenAIBaseURL:   cfg.Ai.OpenAIBaseURL,
		GeminiAPIKey:    cfg.Keys.GoogleGemini,
		OllamaBaseURL:   cfg.Ai.OllamaBaseURL,
	})
	if err != nil {
		sysLogger.Warn("BOOT", "LLM provider unavailable, reactions and debriefs fall back", map[string]interface{}{"error": err.Error()})
	} else {
		reaction = debrief.NewLLMSummarizer(llmProvider, cfg.Ai.Timeout, cfg.Ai.ReactionMaxToken)
		debriefer = debrief.NewLLMSummarizer(llmProvider, cfg.Ai.Timeout, cfg.Ai.DebriefMaxToken)
		sysLogger.Info("BOOT", "Using LLM provider", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"model":    cfg.Ai.LLMModel,
		})
	}
	generator := debrief.NewGenerator(reaction, debriefer, sysLogger, recorder)

	// 4. Services
	graphStore := service.NewGraphStore(uowFactory, memory.NewGraphCache(cfg.Engine.GraphCacheTTL))
	publisherService := service.NewPublisherService(cfg.App.CompletedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.CompletedTopic,
		uowFactory,
		emailService,
		cfg.App.BaseURL,
		sysLogger,
	)
	auditService := service.NewAuditService(auditSubscriber, logger.NewIsolatedLogger(cfg.App.EventLogFilePath))

	sessionService := service.NewSessionService(uowFactory, graphStore, generator, sysLogger)
	decisionService := service.NewDecisionService(
		uowFactory,
		graphStore,
		sessionLocker,
		generator,
		publisherService,
		eventPublisher,
		recorder,
		sysLogger,
	)
	gameService := service.NewGameService(
		uowFactory,
		sessionLocker,
		generator,
		publisherService,
		eventPublisher,
		recorder,
		sysLogger,
	)
	moduleService := service.NewModuleService(uowFactory, graphStore, sysLogger)
	apiKeyService := service.NewApiKeyService(uowFactory, sysLogger)

	// 5. Controllers
	closers = append(closers, func() { _ = pubSub.Close() })
	return &Container{
		SessionController: controller.NewSessionController(sessionService, decisionService, cfg.Auth.JwtSecret),
		GameController:    controller.NewGameController(gameService, apiKeyService),
		ModuleController:  controller.NewModuleController(moduleService, apiKeyService, cfg.Auth.JwtSecret),

		ConsumerService: consumerService,
		AuditService:    auditService,

		Logger:   sysLogger,
		Registry: registry,

		closers: closers,
	}
}

// Close releases broker and cache connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
