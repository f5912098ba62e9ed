package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"edu-quiz-service/internal/app"
	"edu-quiz-service/internal/domain"
)

const feedRefreshInterval = time.Minute

type WSHandler struct {
	api       *API
	reminders *app.ReminderService
	upgrader  websocket.Upgrader
	interval  time.Duration
}

func NewWSHandler(api *API, reminders *app.ReminderService) *WSHandler {
	return &WSHandler{
		api:       api,
		reminders: reminders,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		interval: feedRefreshInterval,
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS streams the caller's reminder feed over a websocket. A full feed is
// sent on connect, on every "refresh" message from the client, and on a fixed
// interval in between.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.wsCaller(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				feed := h.reminders.Feed(r.Context(), caller)
				select {
				case send <- outboundMessage{Type: "feed", Payload: feed}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage{Type: "feed", Payload: h.reminders.Feed(r.Context(), caller)}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "refresh":
			send <- outboundMessage{Type: "feed", Payload: h.reminders.Feed(r.Context(), caller)}
		case "ping":
			send <- outboundMessage{Type: "pong", Payload: json.RawMessage("{}")}
		default:
			send <- outboundMessage{Type: "error", Payload: errorResponse{Error: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}

// wsCaller resolves identity from the X-User-ID header, falling back to a
// userId query parameter for browser clients that cannot set headers on
// websocket dials.
func (h *WSHandler) wsCaller(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	if strings.TrimSpace(r.Header.Get(userIDHeader)) != "" {
		return h.api.caller(w, r)
	}
	raw := strings.TrimSpace(r.URL.Query().Get("userId"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "missing userId", http.StatusUnauthorized)
		return domain.User{}, false
	}
	user, err := h.api.users.User(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "unknown user", http.StatusUnauthorized)
		} else {
			http.Error(w, "request failed", http.StatusInternalServerError)
		}
		return domain.User{}, false
	}
	return user, true
}
