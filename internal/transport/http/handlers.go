// Package http exposes the quiz and reminder use cases over REST and websockets.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"edu-quiz-service/internal/app"
	"edu-quiz-service/internal/domain"
)

type API struct {
	quizzes   *app.QuizService
	reminders *app.ReminderService
	users     app.UserStore
}

func NewAPI(quizzes *app.QuizService, reminders *app.ReminderService, users app.UserStore) *API {
	return &API{quizzes: quizzes, reminders: reminders, users: users}
}

type generateRequest struct {
	LessonID     int64             `json:"lessonId"`
	Difficulty   domain.Difficulty `json:"difficulty"`
	NumQuestions int               `json:"numQuestions"`
}

type submitRequest struct {
	Answers map[int64]string `json:"answers"`
}

func (a *API) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.LessonID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lessonId is required"})
		return
	}

	detail, err := a.quizzes.Generate(r.Context(), caller, req.LessonID, req.Difficulty, req.NumQuestions)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (a *API) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()

	var input app.CreateQuizInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	detail, err := a.quizzes.CreateManual(r.Context(), caller, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (a *API) HandleFetch(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	view, err := a.quizzes.Fetch(r.Context(), caller, quizID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	defer r.Body.Close()

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Answers == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "answers is required"})
		return
	}

	result, err := a.quizzes.Submit(r.Context(), caller, quizID, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	defer r.Body.Close()

	var update app.QuizUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	detail, err := a.quizzes.Update(r.Context(), caller, quizID, update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) HandlePublish(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	quiz, err := a.quizzes.Publish(r.Context(), caller, quizID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (a *API) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := a.quizzes.Delete(r.Context(), caller, quizID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleFetchByLesson(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	lessonID, ok := pathID(w, r, "lessonId")
	if !ok {
		return
	}

	view, err := a.quizzes.FetchByLesson(r.Context(), caller, lessonID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) HandleListByCourse(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.caller(w, r); !ok {
		return
	}
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}

	quizzes, err := a.quizzes.ListByCourse(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (a *API) HandleMyResults(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}

	attempts, err := a.quizzes.MyResults(r.Context(), caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (a *API) HandleReminders(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}

	feed := a.reminders.Feed(r.Context(), caller)
	writeJSON(w, http.StatusOK, feed)
}

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": time.Now().UTC()})
}
