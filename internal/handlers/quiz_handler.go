package handlers

import (
	"net/http"
	"strconv"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
	"parentuni/internal/service"
)

// QuizHandler drives the per-lesson quiz stepper over HTTP
type QuizHandler struct {
	catalog *catalog.Catalog
	quizzes *service.QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(cat *catalog.Catalog, quizzes *service.QuizService) *QuizHandler {
	return &QuizHandler{catalog: cat, quizzes: quizzes}
}

// lessonFromPath resolves {module}/{lesson} path values
func (h *QuizHandler) lessonFromPath(w http.ResponseWriter, r *http.Request) (moduleID, lessonID int, ok bool) {
	moduleID, errM := strconv.Atoi(r.PathValue("module"))
	lessonID, errL := strconv.Atoi(r.PathValue("lesson"))
	if errM != nil || errL != nil || h.catalog.Lesson(moduleID, lessonID) == nil {
		respondWithError(w, http.StatusNotFound, "Lesson not found", "", nil)
		return 0, 0, false
	}
	return moduleID, lessonID, true
}

func (h *QuizHandler) respondWithQuiz(w http.ResponseWriter, state models.AppState, moduleID, lessonID int) {
	quiz, ok := h.catalog.QuizForLesson(moduleID, lessonID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Quiz not found", "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, NewQuizView(quiz, state, models.LessonKey(moduleID, lessonID)))
}

// GetQuiz reports where the quiz cursor currently sits
func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	moduleID, lessonID, ok := h.lessonFromPath(w, r)
	if !ok {
		return
	}

	state, err := h.quizzes.State(user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	h.respondWithQuiz(w, state, moduleID, lessonID)
}

// Start begins the quiz at its first question
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	moduleID, lessonID, ok := h.lessonFromPath(w, r)
	if !ok {
		return
	}

	state, err := h.quizzes.Start(user.ID, moduleID, lessonID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	h.respondWithQuiz(w, state, moduleID, lessonID)
}

type answerRequest struct {
	SelectedIndex int `json:"selectedIndex"`
}

// Answer grades the current question; the cursor stays put so the
// client can show the explanation before advancing
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	moduleID, lessonID, ok := h.lessonFromPath(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.quizzes.SubmitAnswer(user.ID, moduleID, lessonID, req.SelectedIndex)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Next advances the cursor toward the results view
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	moduleID, lessonID, ok := h.lessonFromPath(w, r)
	if !ok {
		return
	}

	state, err := h.quizzes.NextStep(user.ID, moduleID, lessonID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	h.respondWithQuiz(w, state, moduleID, lessonID)
}

// Retake rewinds to the lesson intro keeping the previous score
func (h *QuizHandler) Retake(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	moduleID, lessonID, ok := h.lessonFromPath(w, r)
	if !ok {
		return
	}

	state, err := h.quizzes.Retake(user.ID, moduleID, lessonID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	h.respondWithQuiz(w, state, moduleID, lessonID)
}

// Complete marks the lesson done, unlocking the next one
func (h *QuizHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	moduleID, lessonID, ok := h.lessonFromPath(w, r)
	if !ok {
		return
	}

	state, err := h.quizzes.MarkComplete(user.ID, moduleID, lessonID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NewStateView(h.catalog, state))
}

// Results reports the score for the lesson's quiz
func (h *QuizHandler) Results(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	moduleID, lessonID, ok := h.lessonFromPath(w, r)
	if !ok {
		return
	}

	results, err := h.quizzes.Results(user.ID, moduleID, lessonID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, results)
}
