package http

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"ar-quiz-service/internal/app"
	"ar-quiz-service/internal/content"
	"ar-quiz-service/internal/domain"
	"github.com/gorilla/mux"
)

// NewRouter mounts the health check, the game socket and the read-only API.
func NewRouter(games app.GameRepository, factory *app.Factory) *mux.Router {
	ws := NewWSHandler(games, factory)
	api := &apiHandler{games: games, factory: factory}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS)

	sub := r.PathPrefix("/api").Subrouter()
	sub.HandleFunc("/leaderboard", api.leaderboard).Methods(http.MethodGet)
	sub.HandleFunc("/subjects", api.subjects).Methods(http.MethodGet)
	sub.HandleFunc("/subjects/{subject}/levels", api.levels).Methods(http.MethodGet)
	sub.HandleFunc("/games/{id}", api.game).Methods(http.MethodGet)
	return r
}

type apiHandler struct {
	games   app.GameRepository
	factory *app.Factory
}

func (a *apiHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.factory.Leaderboard.Load(r.Context()))
}

func (a *apiHandler) subjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Subjects)
}

// levels lists the level grid of a subject, with availability for the ?player= profile.
func (a *apiHandler) levels(w http.ResponseWriter, r *http.Request) {
	subject, err := domain.ParseSubject(mux.Vars(r)["subject"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorPayload{Message: err.Error()})
		return
	}
	printer := a.factory.Printer
	if printer == nil {
		printer = content.NewPrinter("en")
	}
	provider := content.NewProvider(a.factory.Catalog, a.factory.Progress, rand.New(rand.NewSource(time.Now().UnixNano())), printer)
	provider.SetProfile(r.URL.Query().Get("player"))
	writeJSON(w, http.StatusOK, provider.GetLevelsForSubject(r.Context(), subject))
}

func (a *apiHandler) game(w http.ResponseWriter, r *http.Request) {
	game, ok := a.games.Get(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, errorPayload{Message: domain.ErrGameNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, game.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http write error: %v", err)
	}
}
