package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
)

func newTestBackupService() (*BackupService, *StateService, *NoteService) {
	states := newTestStateService(newMemStore())
	noteStore := newMemNoteStore()
	notes := newTestNoteService(noteStore)
	backups := NewBackupService(catalog.MustDefault(), states, noteStore)
	return backups, states, notes
}

func TestBackupExportRoundTrip(t *testing.T) {
	backups, states, notes := newTestBackupService()

	acct := models.Account{Name: "Maria", Email: "maria@example.com", Notifications: true}
	key := models.LessonKey(0, 0)
	if _, err := states.Update("u1", models.StatePatch{
		Account:          &acct,
		CompletedLessons: map[string]bool{key: true},
		QuizScores:       map[string]int{key: 3},
	}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if _, err := notes.Create("u1", "Minha anotação", "conteúdo"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var buf bytes.Buffer
	if err := backups.ExportToWriter(&buf, "u1"); err != nil {
		t.Fatalf("ExportToWriter() error: %v", err)
	}

	var exported BackupData
	if err := json.Unmarshal(buf.Bytes(), &exported); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if exported.App != backupAppName {
		t.Errorf("app = %q, want %q", exported.App, backupAppName)
	}
	if exported.Progress.CompletedCount != 1 || exported.Progress.TotalCount != 32 {
		t.Errorf("progress = %+v", exported.Progress)
	}
	if exported.Account.Name != "Maria" {
		t.Errorf("account = %+v", exported.Account)
	}
	if len(exported.Notes) != 1 {
		t.Fatalf("exported %d notes, want 1", len(exported.Notes))
	}

	// restore into a fresh user
	if err := backups.ImportFromReader(&buf, "u2"); err != nil {
		t.Fatalf("ImportFromReader() error: %v", err)
	}

	restored, err := states.Load("u2")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !restored.CompletedLessons[key] {
		t.Error("completed lessons not restored")
	}
	if restored.QuizScores[key] != 3 {
		t.Error("quiz scores not restored")
	}
	if restored.Account.Email != "maria@example.com" {
		t.Error("account not restored")
	}

	restoredNotes, err := notes.List("u2", models.NoteFilterAll)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(restoredNotes) != 1 || restoredNotes[0].Title != "Minha anotação" {
		t.Errorf("notes not restored: %+v", restoredNotes)
	}
}

func TestBackupImportRejectsGarbage(t *testing.T) {
	backups, states, _ := newTestBackupService()

	acct := models.Account{Name: "Maria", Email: "maria@example.com"}
	if _, err := states.Update("u1", models.StatePatch{Account: &acct}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{broken"},
		{"wrong app", `{"app":"other-app","version":"1.0"}`},
		{"missing version", `{"app":"universidade-de-pais"}`},
		{"unknown lesson", `{"app":"universidade-de-pais","version":"1.0","completedLessons":{"M9-A9":true}}`},
		{"bad lesson key", `{"app":"universidade-de-pais","version":"1.0","quizScores":{"garbage":2}}`},
		{"note without id", `{"app":"universidade-de-pais","version":"1.0","notes":[{"title":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := backups.ImportFromReader(strings.NewReader(tt.body), "u1")
			if !errors.Is(err, ErrInvalidBackup) {
				t.Errorf("error = %v, want ErrInvalidBackup", err)
			}
		})
	}

	// a rejected import must not touch existing state
	state, _ := states.Load("u1")
	if state.Account.Name != "Maria" {
		t.Error("rejected import modified existing state")
	}
}
