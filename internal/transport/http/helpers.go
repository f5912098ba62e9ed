package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"edu-quiz-service/internal/domain"
)

const userIDHeader = "X-User-ID"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrLessonNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrDeckNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrQuizExpired):
		writeJSON(w, http.StatusGone, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrAttemptLimitExceeded):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrEmptyQuiz):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrGenerationFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

// caller resolves the requesting user from the X-User-ID header. Authn is
// delegated to the gateway in front of this service; the header carries the
// already-verified identity.
func (a *API) caller(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	raw := strings.TrimSpace(r.Header.Get(userIDHeader))
	if raw == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing " + userIDHeader + " header"})
		return domain.User{}, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid " + userIDHeader + " header"})
		return domain.User{}, false
	}
	user, err := a.users.User(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unknown user"})
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
		}
		return domain.User{}, false
	}
	return user, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}
