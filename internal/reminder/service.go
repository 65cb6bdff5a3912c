package reminder

import (
	"context"
	"fmt"
	"os"
	"time"

	"adpulse-server/internal/observability"
)

// EmailSender is the outbound mail operation used for the reminder digest.
type EmailSender interface {
	SendEmail(ctx context.Context, from, to, subject, htmlContent string) (string, error)
}

// Service reads the exported task sheet and emails a digest of tasks due
// within the next 24 hours.
type Service struct {
	sender EmailSender
	from   string
	to     string
	logger *observability.Logger
}

func NewService(sender EmailSender, from, to string, logger *observability.Logger) *Service {
	return &Service{
		sender: sender,
		from:   from,
		to:     to,
		logger: logger,
	}
}

// Summary reports how many urgent tasks were found per priority.
type Summary struct {
	Total  int
	High   int
	Medium int
	Low    int
}

// Run parses the task sheet at path, filters tasks due within 24 hours of now,
// and sends the digest email. No email is sent when nothing is urgent.
func (s *Service) Run(ctx context.Context, path string, now time.Time) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open task sheet: %w", err)
	}
	defer f.Close()

	tasks, err := ParseTasks(f)
	if err != nil {
		return Summary{}, err
	}
	s.logger.Info(ctx, fmt.Sprintf("Found %d total tasks", len(tasks)))

	urgent := FilterUrgent(tasks, now)
	summary := summarize(urgent)
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "urgent_total", Value: summary.Total},
		observability.Field{Key: "urgent_high", Value: summary.High},
		observability.Field{Key: "urgent_medium", Value: summary.Medium},
		observability.Field{Key: "urgent_low", Value: summary.Low},
	)

	if summary.Total == 0 {
		s.logger.Info(ctx, "No urgent tasks due within 24 hours")
		return summary, nil
	}

	html, err := RenderDigest(urgent)
	if err != nil {
		return summary, err
	}

	subject := fmt.Sprintf("Task Reminder: %d Tasks Due Within 24 Hours", summary.Total)
	if _, err := s.sender.SendEmail(ctx, s.from, s.to, subject, html); err != nil {
		return summary, err
	}

	s.logger.Info(ctx, "Reminder email sent successfully")
	return summary, nil
}

func summarize(tasks []Task) Summary {
	summary := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Priority {
		case "High":
			summary.High++
		case "Medium":
			summary.Medium++
		case "Low":
			summary.Low++
		}
	}
	return summary
}
