package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/psds-microservice/chatbot-service/internal/agent"
	"github.com/psds-microservice/chatbot-service/internal/assignment"
	"github.com/psds-microservice/chatbot-service/internal/config"
	"github.com/psds-microservice/chatbot-service/internal/database"
	"github.com/psds-microservice/chatbot-service/internal/escalation"
	"github.com/psds-microservice/chatbot-service/internal/handler"
	"github.com/psds-microservice/chatbot-service/internal/kafka"
	"github.com/psds-microservice/chatbot-service/internal/router"
	"github.com/psds-microservice/chatbot-service/internal/service"
	"github.com/psds-microservice/chatbot-service/internal/storage"
)

// API приложение: HTTP-сервер (режим api).
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *kafka.Producer
}

// NewAPI собирает приложение: миграции, БД, клиент агента, оркестратор, роутер.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.ValidateAPI(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	agentClient := agent.NewClient(cfg.AgentAPIURL, cfg.AgentAPIKey, cfg.AgentTimeout)
	detector := escalation.NewDetector(cfg.EscalationMarker)
	balancer := assignment.NewBalancer(db)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)
	store := storage.NewStore(db)

	chatSvc := service.NewChatService(store, agentClient, detector, balancer, producer)
	ticketSvc := service.NewTicketService(db)
	supportSvc := service.NewSupportUserService(db, balancer)
	chatbotSvc := service.NewChatbotService(db, agentClient, cfg.EscalationMarker)

	mux := router.New(router.Handlers{
		Chat:        handler.NewChatHandler(chatSvc),
		Ticket:      handler.NewTicketHandler(ticketSvc, producer),
		SupportUser: handler.NewSupportUserHandler(supportSvc),
		Chatbot:     handler.NewChatbotHandler(chatbotSvc),
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		producer: producer,
	}, nil
}

// Run запускает HTTP-сервер, блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log := zap.S()
	log.Infof("HTTP server listening on %s", a.httpSrv.Addr)
	log.Infof("  Swagger UI:    %s/swagger", base)
	log.Infof("  Health:        %s/health", base)
	log.Infof("  Metrics:       %s/metrics", base)
	log.Infof("  API v1:        %s/api/v1/", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Errorf("kafka close: %v", err)
	}
	return nil
}
