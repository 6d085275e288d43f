package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"ar-quiz-service/internal/app"
	"ar-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// gameEvents are forwarded to the client as they are emitted.
var gameEvents = []app.EventType{
	app.EventStateChanged,
	app.EventValueChanged,
	app.EventQuestionShown,
	app.EventAnswerFeedback,
	app.EventFeedbackCleared,
	app.EventScorePulse,
	app.EventScorePulseEnded,
}

type toucher interface {
	Touch(ctx context.Context, id string) error
}

type WSHandler struct {
	games    app.GameRepository
	factory  *app.Factory
	upgrader websocket.Upgrader
}

func NewWSHandler(games app.GameRepository, factory *app.Factory) *WSHandler {
	return &WSHandler{
		games:   games,
		factory: factory,
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

type namePayload struct {
	Name string `json:"name"`
}

type modePayload struct {
	Mode domain.ARMode `json:"mode"`
}

type subjectPayload struct {
	Subject string `json:"subject"`
}

type levelPayload struct {
	Level int `json:"level"`
}

type tapPayload struct {
	Handle domain.Handle `json:"handle"`
}

type answerPayload struct {
	AnswerID string `json:"answerId"`
}

type joinedPayload struct {
	GameID string `json:"gameId"`
}

type levelsPayload struct {
	Subject domain.Subject        `json:"subject"`
	Levels  []domain.LevelSummary `json:"levels"`
}

// ServeWS upgrades the request and runs one game for the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	out := newOutbox(conn, 64)
	defer out.Close()

	renderer := newRemoteRenderer(out)
	id := uuid.NewString()
	game, err := h.factory.NewGame(r.Context(), id, renderer, renderer)
	if err != nil {
		out.Error(err)
		return
	}
	for _, eventType := range gameEvents {
		unsubscribe := game.On(eventType, func(ev app.Event) {
			out.Send(string(ev.Type), ev)
		})
		defer unsubscribe()
	}
	h.games.Put(game)
	defer h.games.Delete(id)
	defer game.Close()

	out.Send("joined", joinedPayload{GameID: id})
	game.Start()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if t, ok := h.games.(toucher); ok {
			if err := t.Touch(r.Context(), id); err != nil {
				log.Printf("warn: touch game %s: %v", id, err)
			}
		}
		if err := h.dispatch(r.Context(), game, renderer, out, inbound); err != nil {
			out.Error(err)
		}
	}
}

func (h *WSHandler) dispatch(ctx context.Context, game *app.Game, renderer *remoteRenderer, out *outbox, inbound inboundMessage) error {
	switch inbound.Type {
	case "submitName":
		var p namePayload
		if err := decode(inbound, &p); err != nil {
			return err
		}
		return game.SubmitName(p.Name)
	case "selectMode":
		var p modePayload
		if err := decode(inbound, &p); err != nil {
			return err
		}
		return game.SelectMode(p.Mode)
	case "selectSubject":
		var p subjectPayload
		if err := decode(inbound, &p); err != nil {
			return err
		}
		subject, err := domain.ParseSubject(p.Subject)
		if err != nil {
			return err
		}
		levels, err := game.SelectSubject(ctx, subject)
		if err != nil {
			return err
		}
		out.Send("levels", levelsPayload{Subject: subject, Levels: levels})
		return nil
	case "selectLevel":
		var p levelPayload
		if err := decode(inbound, &p); err != nil {
			return err
		}
		return game.SelectLevel(ctx, p.Level)
	case "startAR":
		return game.StartAR(ctx)
	case "pose":
		var p domain.Pose
		if err := decode(inbound, &p); err != nil {
			return err
		}
		renderer.SetPose(p)
		return nil
	case "tap":
		var p tapPayload
		if err := decode(inbound, &p); err != nil {
			return err
		}
		return game.Tap(p.Handle)
	case "answer":
		var p answerPayload
		if err := decode(inbound, &p); err != nil {
			return err
		}
		check, err := game.Answer(p.AnswerID)
		if err != nil {
			return err
		}
		out.Send("answerResult", check)
		return nil
	case "toggleAnchor":
		_, err := game.ToggleAnchor()
		return err
	case "markerFound":
		game.MarkerFound()
		return nil
	case "markerLost":
		game.MarkerLost()
		return nil
	case "restart":
		return game.Restart(ctx)
	case "exit":
		return game.Exit()
	case "returnToMenu":
		return game.ReturnToMenu()
	case "showLeaderboard":
		return game.ShowLeaderboard()
	case "backToResults":
		return game.BackToResults()
	case "snapshot":
		out.Send("snapshot", game.Snapshot())
		return nil
	default:
		return errors.New("unsupported message type")
	}
}

func decode(inbound inboundMessage, dst any) error {
	if len(inbound.Payload) == 0 {
		return fmt.Errorf("missing %s payload", inbound.Type)
	}
	if err := json.Unmarshal(inbound.Payload, dst); err != nil {
		return fmt.Errorf("invalid %s payload", inbound.Type)
	}
	return nil
}
