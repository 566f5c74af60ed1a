package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"quizdom/internal/app"
	"quizdom/internal/domain"
)

// SessionFactory builds a fresh quiz session that renders into r.
type SessionFactory func(r app.Renderer) *app.QuizSession

// WSHandler bridges a browser UI to one QuizSession per connection.
type WSHandler struct {
	newSession SessionFactory
	registry   app.SessionRegistry
	upgrader   websocket.Upgrader
}

func NewWSHandler(newSession SessionFactory, registry app.SessionRegistry) *WSHandler {
	return &WSHandler{
		newSession: newSession,
		registry:   registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type showPayload struct {
	Screen string `json:"screen"`
}

type categoryPayload struct {
	Key string `json:"key"`
}

type difficultyPayload struct {
	Difficulty string `json:"difficulty"`
}

type answerPayload struct {
	Index *int `json:"index"`
}

type settingsPayload struct {
	SoundEnabled     bool       `json:"soundEnabled"`
	TimerDuration    flexString `json:"timerDuration"`
	QuestionsPerQuiz flexString `json:"questionsPerQuiz"`
}

type playerPayload struct {
	Name string `json:"name"`
}

// flexString accepts a JSON string or number, since form inputs arrive either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives a quiz session from the
// client's messages.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	clientID := uuid.NewString()
	hub := app.NewEventHub(64)
	events, cancel := hub.Subscribe()
	defer cancel()

	session := h.newSession(hub)
	h.registry.Register(ctx, clientID, session)
	defer h.registry.Unregister(context.Background(), clientID)
	log.Printf("ws client %s connected", clientID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(event.Type), Payload: event.Payload}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	session.Init(ctx)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(ctx, session, inbound); err != nil {
			if errors.Is(err, domain.ErrStaleResponse) {
				continue
			}
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		}
	}

	session.Close()
	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
	log.Printf("ws client %s disconnected", clientID)
}

func (h *WSHandler) dispatch(ctx context.Context, session *app.QuizSession, inbound inboundMessage) error {
	switch inbound.Type {
	case "show":
		var payload showPayload
		if err := decode(inbound, &payload); err != nil {
			return err
		}
		screen, err := domain.ParseScreen(payload.Screen)
		if err != nil {
			return err
		}
		return session.ShowScreen(ctx, screen)
	case "category":
		var payload categoryPayload
		if err := decode(inbound, &payload); err != nil {
			return err
		}
		for _, category := range session.Categories(ctx) {
			if category.Key() == payload.Key {
				return session.SelectCategory(ctx, category)
			}
		}
		return &domain.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", payload.Key)}
	case "difficulty":
		var payload difficultyPayload
		if err := decode(inbound, &payload); err != nil {
			return err
		}
		return session.SelectDifficulty(ctx, domain.Difficulty(payload.Difficulty))
	case "start":
		return session.Start(ctx)
	case "answer":
		var payload answerPayload
		if err := decode(inbound, &payload); err != nil {
			return err
		}
		if payload.Index == nil {
			return &domain.ValidationError{Field: "index", Message: "answer index is required"}
		}
		return session.Answer(ctx, *payload.Index)
	case "next":
		return session.Next(ctx)
	case "end":
		return session.End(ctx)
	case "restart":
		return session.Restart(ctx)
	case "share":
		_, err := session.Share(ctx)
		return err
	case "settings":
		var payload settingsPayload
		if err := decode(inbound, &payload); err != nil {
			return err
		}
		return session.SaveSettings(ctx, app.SettingsForm{
			SoundEnabled:     payload.SoundEnabled,
			TimerDuration:    strings.TrimSpace(string(payload.TimerDuration)),
			QuestionsPerQuiz: strings.TrimSpace(string(payload.QuestionsPerQuiz)),
		})
	case "player":
		var payload playerPayload
		if err := decode(inbound, &payload); err != nil {
			return err
		}
		return session.SetPlayerName(ctx, payload.Name)
	default:
		return fmt.Errorf("unsupported message type %q", inbound.Type)
	}
}

func decode(inbound inboundMessage, v any) error {
	if len(inbound.Payload) == 0 {
		return &domain.ValidationError{Field: "payload", Message: fmt.Sprintf("%s payload is required", inbound.Type)}
	}
	if err := json.Unmarshal(inbound.Payload, v); err != nil {
		return &domain.ValidationError{Field: "payload", Message: fmt.Sprintf("invalid %s payload", inbound.Type)}
	}
	return nil
}
