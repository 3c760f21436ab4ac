package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-therapy-be/internal/config"
	"ai-therapy-be/internal/controller"
	"ai-therapy-be/internal/handler"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/pkg/mailer"
	"ai-therapy-be/internal/repository/implementation"
	"ai-therapy-be/internal/repository/memory"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/internal/service"
	"ai-therapy-be/internal/websocket"
	"ai-therapy-be/internal/workflow"
	"ai-therapy-be/pkg/llm/factory"

	pktNats "ai-therapy-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	TherapyController  controller.ITherapyController
	MoodController     controller.IMoodController
	ActivityController controller.IActivityController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Alerts
	AlertHandler *handler.AlertHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
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
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/alerts.log")
	var hubRdb *redis.Client
	if redisUp {
		hubRdb = rdb
	}
	wsHub := websocket.NewHub(hubRdb, wsLogger)
	go wsHub.Run()

	// 4. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Workflow Engine
	var alertPublisher workflow.AlertPublisher
	if natsPub != nil {
		alertPublisher = natsPub
	}
	engine := workflow.NewEngine(llmProvider, sysLogger, alertPublisher, workflow.NewInProcessExecutor())

	// 6. Session Memory Store
	memoryTTL := time.Duration(cfg.Alerts.MemoryTTLMinutes) * time.Minute
	var memoryStore memory.MemoryStore
	if redisUp {
		memoryStore = memory.NewRedisStore(rdb, memoryTTL)
		log.Printf("[INFO] Using Redis session memory store")
	} else {
		memoryStore = memory.NewCacheStore(memoryTTL)
		log.Printf("[INFO] Using in-process session memory store")
	}

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ai.SessionEventTopic)
	moodPublisher := service.NewPublisherService(pubSub, cfg.Ai.MoodEventTopic)

	consumerService := service.NewConsumerService(
		pubSub,
		[]string{cfg.Ai.SessionEventTopic, cfg.Ai.MoodEventTopic},
		engine,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory)
	chatService := service.NewChatService(uowFactory, engine, memoryStore, publisherService, sysLogger)
	moodService := service.NewMoodService(uowFactory, moodPublisher, sysLogger)
	activityService := service.NewActivityService(uowFactory)

	// 8. Alert System
	alertRepo := implementation.NewAlertRepository(db)
	alertService := service.NewAlertService(
		alertRepo,
		natsSub,
		wsHub, // Hub implements AlertDelivery
		emailService,
		cfg.Alerts.EmergencyContact,
		wsLogger,
	)
	if natsSub != nil {
		go alertService.Start()
	}
	alertHandler := handler.NewAlertHandler(alertService, wsHub, wsLogger)

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		TherapyController:  controller.NewTherapyController(chatService),
		MoodController:     controller.NewMoodController(moodService),
		ActivityController: controller.NewActivityController(activityService),

		ConsumerService: consumerService,

		AlertHandler: alertHandler,
		WebSocketHub: wsHub,
	}
}
