package http

import (
	"net/http"

	"edu-quiz-service/internal/app"
)

func NewRouter(quizzes *app.QuizService, reminders *app.ReminderService, users app.UserStore) http.Handler {
	api := NewAPI(quizzes, reminders, users)
	ws := NewWSHandler(api, reminders)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /quiz/generate", api.HandleGenerate)
	mux.HandleFunc("POST /quiz/create", api.HandleCreate)
	mux.HandleFunc("GET /quiz/{id}", api.HandleFetch)
	mux.HandleFunc("POST /quiz/{id}/submit", api.HandleSubmit)
	mux.HandleFunc("PUT /quiz/{id}", api.HandleUpdate)
	mux.HandleFunc("POST /quiz/{id}/publish", api.HandlePublish)
	mux.HandleFunc("DELETE /quiz/{id}", api.HandleDelete)
	mux.HandleFunc("GET /quiz/lesson/{lessonId}", api.HandleFetchByLesson)
	mux.HandleFunc("GET /quiz/course/{courseId}", api.HandleListByCourse)
	mux.HandleFunc("GET /quiz/results/my", api.HandleMyResults)
	mux.HandleFunc("GET /reminders", api.HandleReminders)
	mux.HandleFunc("GET /ws/reminders", ws.ServeWS)
	mux.HandleFunc("GET /healthz", api.HandleHealth)

	return mux
}
