package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/psds-microservice/chatbot-service/internal/config"
	"github.com/psds-microservice/chatbot-service/internal/database"
	"github.com/psds-microservice/chatbot-service/internal/kafka"
	"github.com/psds-microservice/chatbot-service/internal/model"
)

var replayEventsCmd = &cobra.Command{
	Use:   "replay-events",
	Short: "Re-publish all tickets to Kafka (for consumers that lost state)",
	RunE:  runReplayEvents,
}

func init() {
	rootCmd.AddCommand(replayEventsCmd)
}

func runReplayEvents(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := config.InitLogger(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	log := zap.S()

	if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopicTicket == "" {
		return fmt.Errorf("replay-events: KAFKA_BROKERS and KAFKA_TOPIC_TICKET are required")
	}

	conn, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}

	var tickets []model.Ticket
	if err := conn.Find(&tickets).Error; err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	log.Infof("replay-events: found %d tickets", len(tickets))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)
	defer producer.Close()
	for i := range tickets {
		t := &tickets[i]
		payload := map[string]interface{}{
			"ticket_id":  int64(t.ID),
			"session_id": t.SessionID,
			"chatbot_id": t.ChatbotID,
			"subject":    t.Subject,
		}
		if t.AssignedTo != nil {
			payload["assigned_to"] = *t.AssignedTo
		}
		producer.ProduceTicketEvent(ctx, "ticket.updated", payload)
		if (i+1)%50 == 0 || i == len(tickets)-1 {
			log.Infof("replay-events: sent %d/%d events", i+1, len(tickets))
		}
	}
	log.Infof("replay-events: done, sent %d events", len(tickets))
	return nil
}
