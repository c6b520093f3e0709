package handlers

import (
	"fmt"
	"net/http"
	"time"

	"parentuni/internal/service"
)

// maxBackupSize caps uploaded backup files.
const maxBackupSize = 5 << 20

// BackupHandler exposes per-user backup export and restore
type BackupHandler struct {
	backups *service.BackupService
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Export downloads the caller's full state and notes as a JSON file
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	filename := fmt.Sprintf("universidade-de-pais-backup-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.backups.ExportToWriter(w, user.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "backup export failed", err)
	}
}

// Import replaces the caller's state and notes with an uploaded backup.
// A rejected file leaves everything untouched.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	body := http.MaxBytesReader(w, r.Body, maxBackupSize)
	if err := h.backups.ImportFromReader(body, user.ID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"imported": true})
}
