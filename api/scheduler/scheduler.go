package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/models"
	templates "github.com/roboclub/club-api/templates/html"
)

// Scheduler handles periodic background jobs for the inventory ledger
type Scheduler struct {
	cron *cron.Cron
	IDB  databases.IssuanceDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(iDB databases.IssuanceDatabase) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		IDB:  iDB,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Remind borrowers of components due within 24 hours, daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.sendDueDateReminders)
	if err != nil {
		zap.S().Errorw("failed to register due date reminder job", "error", err)
	}

	// Nudge borrowers with overdue loans, daily at 4 AM UTC
	_, err = s.cron.AddFunc("0 4 * * *", s.sendOverdueNotices)
	if err != nil {
		zap.S().Errorw("failed to register overdue notice job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Issuance scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Issuance scheduler stopped")
}

// sendDueDateReminders emails every borrower whose approved issuance is due
// within the next 24 hours
func (s *Scheduler) sendDueDateReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	issuances, err := s.IDB.Find(ctx, bson.M{
		"status": models.IssuanceStatusApproved,
		"dueDate": bson.M{
			"$gte": primitive.NewDateTimeFromTime(now),
			"$lte": primitive.NewDateTimeFromTime(now.Add(24 * time.Hour)),
		},
	})
	if err != nil {
		zap.S().Errorw("failed to query issuances due soon", "error", err)
		return
	}

	for _, issuance := range issuances {
		body := fmt.Sprintf(
			"Hi %s,\n\nYour loan of %d x %s is due back on %s.\n\nPlease return it to the inventory desk before then.",
			issuance.UserName, issuance.Quantity, issuance.ComponentName,
			issuance.DueDate.Time().Format("Mon, 02 Jan 2006"),
		)
		s.sendEmail(issuance.UserEmail, "Component return reminder", body)
	}
	zap.S().Infow("due date reminders processed", "count", len(issuances))
}

// sendOverdueNotices emails every borrower whose approved issuance is past
// its due date
func (s *Scheduler) sendOverdueNotices() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	issuances, err := s.IDB.Find(ctx, bson.M{
		"status":  models.IssuanceStatusApproved,
		"dueDate": bson.M{"$lt": primitive.NewDateTimeFromTime(time.Now())},
	})
	if err != nil {
		zap.S().Errorw("failed to query overdue issuances", "error", err)
		return
	}

	for _, issuance := range issuances {
		body := fmt.Sprintf(
			"Hi %s,\n\nYour loan of %d x %s was due back on %s and is now overdue.\n\nPlease return it as soon as possible so other members can use it.",
			issuance.UserName, issuance.Quantity, issuance.ComponentName,
			issuance.DueDate.Time().Format("Mon, 02 Jan 2006"),
		)
		s.sendEmail(issuance.UserEmail, "Overdue component loan", body)
	}
	zap.S().Infow("overdue notices processed", "count", len(issuances))
}

func (s *Scheduler) sendEmail(toEmail, subject, body string) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorf("recovered from panic while sending email: %v", r)
		}
	}()

	from := mail.NewEmail("Robotics Club Inventory", os.Getenv("EMAIL_FROM"))
	to := mail.NewEmail("", toEmail)
	html := templates.RenderGenericEmail(subject, body)
	msg := mail.NewSingleEmail(from, subject, to, body, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	if _, err := client.Send(msg); err != nil {
		zap.S().Errorw("failed to send email", "to", toEmail, "error", err)
	}
}
