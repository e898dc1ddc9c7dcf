package bootstrap

import (
	"context"
	"log"

	"virtual-assistant-be/internal/config"
	"virtual-assistant-be/internal/constant"
	"virtual-assistant-be/internal/controller"
	"virtual-assistant-be/internal/pkg/logger"
	"virtual-assistant-be/internal/repository/memory"
	"virtual-assistant-be/internal/service"
	"virtual-assistant-be/pkg/knowledge"
	"virtual-assistant-be/pkg/llm/factory"
	pktNats "virtual-assistant-be/pkg/nats"
	"virtual-assistant-be/pkg/rag/intent"
	"virtual-assistant-be/pkg/rag/pipeline"
	"virtual-assistant-be/pkg/rag/prompt"
	"virtual-assistant-be/pkg/rag/ranker"
	"virtual-assistant-be/pkg/rag/response"
	"virtual-assistant-be/pkg/rag/rules"
	"virtual-assistant-be/pkg/rag/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	AssistantController controller.IAssistantController

	// Background work started by main.
	ConsumerService service.IConsumerService
	KnowledgeStore  *knowledge.Store

	Pipeline *pipeline.Pipeline
	Logger   *logger.ZapLogger

	natsPub *pktNats.Publisher
}

// NewPipeline assembles the answer pipeline shared by the HTTP server and the CLI.
func NewPipeline(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (*pipeline.Pipeline, *knowledge.Store, error) {
	store := knowledge.NewStore(cfg.Knowledge.Path, sysLogger)

	r := rules.Default()
	if cfg.Knowledge.RulesPath != "" {
		loaded, err := rules.Load(cfg.Knowledge.RulesPath)
		if err != nil {
			return nil, nil, err
		}
		r = loaded
	}

	generator, err := factory.NewGenerator(ctx, factory.Params{
		Provider:           cfg.Ai.LLMProvider,
		Model:              cfg.Ai.LLMModel,
		GeminiAPIKey:       cfg.Keys.GoogleGemini,
		OllamaBaseURL:      cfg.Ai.OllamaBaseURL,
		HuggingFaceAPIKey:  cfg.Keys.HuggingFace,
		HuggingFaceBaseURL: cfg.Ai.HuggingFaceBaseURL,
	})
	if err != nil {
		return nil, nil, err
	}

	p := pipeline.New(
		store,
		ranker.New(r.Topics),
		prompt.NewBuilder(cfg.Knowledge.Owner),
		generator,
		intent.NewClassifier(r.Intents),
		response.NewFormatter(cfg.Chat.MaxResponseLength),
		sysLogger,
		pipeline.Options{
			MaxSections: cfg.Chat.MaxSections,
			Timeout:     cfg.Ai.Timeout,
		},
	)
	return p, store, nil
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	// 3. Answer pipeline
	p, store, err := NewPipeline(context.Background(), cfg, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize assistant pipeline: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", p.GeneratorName(), cfg.Ai.LLMModel)

	sessions := session.NewManager(
		memory.NewSessionRepository(cfg.Chat.SessionTTL),
		p,
		session.Options{
			Delay:         session.DefaultDelay(),
			Supplementary: cfg.Chat.SupplementaryFollowUp,
		},
		sysLogger,
	)

	// 4. Action events, forwarded to NATS when configured
	var forwarder service.EventForwarder
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
		}
	}

	publisherService := service.NewPublisherService(constant.AssistantActionTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, constant.AssistantActionTopic, forwarder, sysLogger)

	assistantService := service.NewAssistantService(store, p, sessions, publisherService, sysLogger)

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		ConsumerService:     consumerService,
		KnowledgeStore:      store,
		Pipeline:            p,
		Logger:              sysLogger,
		natsPub:             natsPub,
	}
}

// Close releases connections held by the container.
func (c *Container) Close() {
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	_ = c.Logger.Sync()
}
