package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adpulse-server/internal/clients/mail"
	"adpulse-server/internal/observability"
	"adpulse-server/internal/reminder"

	"github.com/joho/godotenv"
)

func main() {
	tasksPath := flag.String("tasks", "tasks.csv", "path to the exported task sheet")
	once := flag.Bool("once", false, "run a single check and exit")
	interval := flag.Duration("interval", 24*time.Hour, "time between scheduled checks")
	flag.Parse()

	// Load environment variables
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			log.Printf("Warning: env.local file not found: %v", err)
		}
	}

	logger := observability.NewLogger()
	ctx := context.Background()

	apiKey := os.Getenv("RESEND_API_KEY")
	from := os.Getenv("DEFAULT_EMAIL_SENDER_ADDRESS")
	to := os.Getenv("REMINDER_RECIPIENT_ADDRESS")
	if apiKey == "" || from == "" || to == "" {
		log.Fatal("Reminder email configuration not set")
	}

	mailClient, err := mail.NewResendClient(apiKey, logger)
	if err != nil {
		log.Fatalf("Failed to initialize mail client: %v", err)
	}

	service := reminder.NewService(mailClient, from, to, logger)

	run := func() {
		summary, err := service.Run(ctx, *tasksPath, time.Now())
		if err != nil {
			logger.Error(ctx, "reminder check failed", err)
			return
		}
		logger.Info(observability.WithFields(ctx,
			observability.Field{Key: "urgent_total", Value: summary.Total},
		), "reminder check completed")
	}

	// Initial run on startup
	run()
	if *once {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info(ctx, "Reminder service started")
	for {
		select {
		case <-ticker.C:
			run()
		case <-sigChan:
			logger.Info(ctx, "Reminder service stopped")
			return
		}
	}
}
