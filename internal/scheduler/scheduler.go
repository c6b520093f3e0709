package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
	"parentuni/internal/progress"
	"parentuni/internal/service"

	"github.com/go-co-op/gocron"
)

// UserLister provides the accounts the reminder job iterates over.
// *repository.UserRepository implements it.
type UserLister interface {
	ListUsers() ([]models.User, error)
}

// ReminderMailer sends the daily study reminder.
// *service.EmailService implements it.
type ReminderMailer interface {
	IsEnabled() bool
	SendStudyReminderEmail(ctx context.Context, toEmail, toName, moduleTitle, lessonTitle string) error
}

// Scheduler runs the background jobs: the periodic state autosave sweep
// and the daily study reminder.
type Scheduler struct {
	scheduler *gocron.Scheduler
	catalog   *catalog.Catalog
	states    *service.StateService
	users     UserLister
	mailer    ReminderMailer

	autosaveInterval time.Duration
	reminderHour     int
}

// New creates a new scheduler instance
func New(cat *catalog.Catalog, states *service.StateService, users UserLister, mailer ReminderMailer, autosaveInterval time.Duration, reminderHour int) *Scheduler {
	return &Scheduler{
		scheduler:        gocron.NewScheduler(time.Local),
		catalog:          cat,
		states:           states,
		users:            users,
		mailer:           mailer,
		autosaveInterval: autosaveInterval,
		reminderHour:     reminderHour,
	}
}

// Start registers the jobs and begins running them in the background
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.autosaveInterval).Do(s.states.AutosaveActive); err != nil {
		return fmt.Errorf("failed to schedule autosave: %w", err)
	}

	at := fmt.Sprintf("%02d:00", s.reminderHour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.sendStudyReminders); err != nil {
		return fmt.Errorf("failed to schedule study reminders: %w", err)
	}

	s.scheduler.StartAsync()
	log.Printf("Scheduler started: autosave every %s, study reminders at %s", s.autosaveInterval, at)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sendStudyReminders emails every user who opted in and still has a
// pending lesson
func (s *Scheduler) sendStudyReminders() {
	if !s.mailer.IsEnabled() {
		log.Println("Study reminders skipped: email service disabled")
		return
	}

	users, err := s.users.ListUsers()
	if err != nil {
		log.Printf("Study reminders: failed to list users: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sent := 0
	for _, user := range users {
		lesson, ok, err := s.nextReminderLesson(user.ID)
		if err != nil {
			log.Printf("Study reminders: skipping user %s: %v", user.ID, err)
			continue
		}
		if !ok {
			continue
		}

		module := s.catalog.Module(lesson.ModuleID)
		if module == nil {
			continue
		}

		if err := s.mailer.SendStudyReminderEmail(ctx, user.Email, user.Name, module.Title, lesson.Title); err != nil {
			log.Printf("Study reminders: failed to email user %s: %v", user.ID, err)
			continue
		}
		sent++
	}

	log.Printf("Study reminders: sent %d of %d candidates", sent, len(users))
}

// nextReminderLesson decides whether a user should be reminded and of
// which lesson. Users who opted out, never filled in their account, or
// already finished the course get none.
func (s *Scheduler) nextReminderLesson(userID string) (models.Lesson, bool, error) {
	state, err := s.states.Load(userID)
	if err != nil {
		return models.Lesson{}, false, err
	}

	if !state.Account.Reminders || state.Account.Email == "" {
		return models.Lesson{}, false, nil
	}

	lesson, ok := progress.NextPendingLesson(s.catalog, state.CompletedLessons)
	if !ok {
		return models.Lesson{}, false, nil
	}
	return lesson, true, nil
}
