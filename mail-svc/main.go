package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirapurapushyam/AluminiHub-sub000/infra/queue"
	"github.com/sirapurapushyam/AluminiHub-sub000/mail-svc/config"
	"github.com/sirapurapushyam/AluminiHub-sub000/mail-svc/internal/api/rest/handlers"
	"github.com/sirapurapushyam/AluminiHub-sub000/mail-svc/internal/services"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// ---------- Load Config ----------
	cfg := config.LoadConfig()

	log, err := logger.New(logger.ConfigFromEnv())
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("mail service starting",
		zap.String("broker", cfg.KafkaBroker),
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group_id", cfg.KafkaGroupID),
	)

	// ---------- Init Service ----------
	mailService := services.NewMailService(services.SMTPSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
	}, cfg.MailFrom, cfg.MailFromName)

	// ---------- Init Handler ----------
	handler := handlers.NewMailHandler(mailService)

	// ---------- Init Kafka Consumer ----------
	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		"mail-svc",
		handler,
	)

	// ---------- Start Listening ----------
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Listen(ctx); err != nil {
		log.Error("consumer stopped", zap.Error(err))
	}
	log.Info("mail service stopped")
}
