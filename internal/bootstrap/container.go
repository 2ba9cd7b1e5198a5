package bootstrap

import (
	"context"
	"log"

	"rag-compare-be/internal/config"
	"rag-compare-be/internal/controller"
	"rag-compare-be/internal/pkg/logger"
	"rag-compare-be/internal/repository/memory"
	"rag-compare-be/internal/repository/unitofwork"
	"rag-compare-be/internal/service"
	"rag-compare-be/internal/websocket"
	"rag-compare-be/pkg/embedding"
	"rag-compare-be/pkg/llm/factory"

	pktNats "rag-compare-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	HealthController   controller.IHealthController
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory cache for assembled session reads
	sessionCache := memory.NewSessionCache()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Retrieval.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Retrieval.IngestTopic,
		uowFactory,
		embeddingProvider, // Injected
		natsPub,
		cfg.Retrieval.ChunkSize,
		cfg.Retrieval.ChunkOverlap,
	)

	compareService := service.NewCompareService(
		uowFactory,
		embeddingProvider, // Injected
		llmProvider,       // Injected
		sessionCache,      // Injected
		natsPub,
		cfg.Retrieval.TopK,
		sysLogger,
	)
	sessionService := service.NewSessionService(uowFactory, sessionCache, natsPub, sysLogger)
	documentService := service.NewDocumentService(uowFactory, publisherService, cfg.Retrieval.UploadDir, sysLogger)

	// Bridge bus events onto connected websocket clients
	notifierService := service.NewNotifierService(natsSub, wsHub, wsLogger)
	go notifierService.Start()

	// 5. Controllers
	return &Container{
		HealthController:   controller.NewHealthController(db),
		ChatController:     controller.NewChatController(compareService, sessionService),
		DocumentController: controller.NewDocumentController(documentService),

		ConsumerService: consumerService,

		WebSocketHub: wsHub,
	}
}
