package scheduler

import (
	"context"
	"testing"
	"time"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
	"parentuni/internal/service"
)

type fakeStore struct {
	records map[string]string
}

func (f *fakeStore) Get(userID, key string) (string, bool, error) {
	v, ok := f.records[userID+"/"+key]
	return v, ok, nil
}

func (f *fakeStore) Set(userID, key, value string) error {
	f.records[userID+"/"+key] = value
	return nil
}

func (f *fakeStore) Remove(userID, key string) error {
	delete(f.records, userID+"/"+key)
	return nil
}

type fakeLister struct {
	users []models.User
}

func (f *fakeLister) ListUsers() ([]models.User, error) { return f.users, nil }

type fakeMailer struct {
	enabled bool
	sent    []string // "email|module|lesson"
}

func (f *fakeMailer) IsEnabled() bool { return f.enabled }

func (f *fakeMailer) SendStudyReminderEmail(_ context.Context, toEmail, _, moduleTitle, lessonTitle string) error {
	f.sent = append(f.sent, toEmail+"|"+moduleTitle+"|"+lessonTitle)
	return nil
}

func completeEverything(t *testing.T, states *service.StateService, cat *catalog.Catalog, userID string) {
	t.Helper()
	completed := map[string]bool{}
	for _, mod := range cat.Modules {
		for _, lesson := range mod.Lessons {
			completed[lesson.Key()] = true
		}
	}
	if _, err := states.Update(userID, models.StatePatch{CompletedLessons: completed}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
}

func TestSendStudyReminders(t *testing.T) {
	cat := catalog.MustDefault()
	states := service.NewStateService(cat, &fakeStore{records: map[string]string{}})

	optedIn := models.Account{Name: "Maria", Email: "maria@example.com", Reminders: true}
	if _, err := states.Update("in", models.StatePatch{Account: &optedIn}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	optedOut := models.Account{Name: "João", Email: "joao@example.com", Reminders: false}
	if _, err := states.Update("out", models.StatePatch{Account: &optedOut}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	finished := models.Account{Name: "Ana", Email: "ana@example.com", Reminders: true}
	if _, err := states.Update("done", models.StatePatch{Account: &finished}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	completeEverything(t, states, cat, "done")

	lister := &fakeLister{users: []models.User{
		{ID: "in", Email: "maria@example.com", Name: "Maria"},
		{ID: "out", Email: "joao@example.com", Name: "João"},
		{ID: "done", Email: "ana@example.com", Name: "Ana"},
	}}
	mailer := &fakeMailer{enabled: true}

	sched := New(cat, states, lister, mailer, 30*time.Second, 19)
	sched.sendStudyReminders()

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d reminders, want 1: %v", len(mailer.sent), mailer.sent)
	}

	firstLesson := cat.Lesson(0, 0)
	firstModule := cat.Module(0)
	want := "maria@example.com|" + firstModule.Title + "|" + firstLesson.Title
	if mailer.sent[0] != want {
		t.Errorf("reminder = %q, want %q", mailer.sent[0], want)
	}
}

func TestSendStudyRemindersPointsAtNextPendingLesson(t *testing.T) {
	cat := catalog.MustDefault()
	states := service.NewStateService(cat, &fakeStore{records: map[string]string{}})

	acct := models.Account{Name: "Maria", Email: "maria@example.com", Reminders: true}
	if _, err := states.Update("u1", models.StatePatch{
		Account:          &acct,
		CompletedLessons: map[string]bool{models.LessonKey(0, 0): true},
	}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	lister := &fakeLister{users: []models.User{{ID: "u1", Email: "maria@example.com", Name: "Maria"}}}
	mailer := &fakeMailer{enabled: true}

	sched := New(cat, states, lister, mailer, 30*time.Second, 19)
	sched.sendStudyReminders()

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d reminders, want 1", len(mailer.sent))
	}
	second := cat.Lesson(0, 1)
	want := "maria@example.com|" + cat.Module(0).Title + "|" + second.Title
	if mailer.sent[0] != want {
		t.Errorf("reminder = %q, want %q", mailer.sent[0], want)
	}
}

func TestSendStudyRemindersDisabledMailer(t *testing.T) {
	cat := catalog.MustDefault()
	states := service.NewStateService(cat, &fakeStore{records: map[string]string{}})

	acct := models.Account{Name: "Maria", Email: "maria@example.com", Reminders: true}
	if _, err := states.Update("u1", models.StatePatch{Account: &acct}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	lister := &fakeLister{users: []models.User{{ID: "u1", Email: "maria@example.com", Name: "Maria"}}}
	mailer := &fakeMailer{enabled: false}

	sched := New(cat, states, lister, mailer, 30*time.Second, 19)
	sched.sendStudyReminders()

	if len(mailer.sent) != 0 {
		t.Errorf("disabled mailer sent %d reminders", len(mailer.sent))
	}
}
