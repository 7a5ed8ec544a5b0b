package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cbodonnell/instalose/pkg/api/middleware"
	"github.com/cbodonnell/instalose/pkg/cards"
	"github.com/cbodonnell/instalose/pkg/game"
	"github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/cbodonnell/instalose/pkg/log"
	"github.com/cbodonnell/instalose/pkg/version"
	"github.com/cbodonnell/instalose/pkg/view"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 64 << 10

// Games is the game surface served over HTTP. *game.GameManager implements it.
type Games interface {
	CreateGame(ctx context.Context, hostID string) (*types.Game, error)
	JoinGame(ctx context.Context, gameID string, req game.JoinRequest) (*types.Game, error)
	StartGame(ctx context.Context, gameID string, requestingPlayerID string) (*types.Game, error)
	TakeAction(ctx context.Context, gameID string, action game.Action) (*game.ActionOutcome, error)
	GetState(ctx context.Context, gameID string, viewerPlayerID string, sinceVersion *int64) (*view.View, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type CreateGameRequest struct {
	HostID string `json:"hostId"`
}

type CreateGameResponse struct {
	GameID string     `json:"gameId"`
	State  *view.View `json:"state"`
}

type StartGameRequest struct {
	PlayerID string `json:"playerId"`
}

type ActionResponse struct {
	Record      types.ActionRecord `json:"record"`
	PeekedCards []cards.Card       `json:"peekedCards,omitempty"`
	State       *view.View         `json:"state"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func HandleCreateGame(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := CreateGameRequest{}
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		g, err := games.CreateGame(r.Context(), req.HostID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreateGameResponse{
			GameID: g.ID,
			State:  view.Project(g, ""),
		})
	}
}

func HandleJoinGame(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]
		req := game.JoinRequest{}
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		g, err := games.JoinGame(r.Context(), gameID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, view.Project(g, req.PlayerID))
	}
}

func HandleStartGame(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]
		req := StartGameRequest{}
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		g, err := games.StartGame(r.Context(), gameID, req.PlayerID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, view.Project(g, req.PlayerID))
	}
}

func HandleTakeAction(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]
		action := game.Action{}
		if err := decodeBody(w, r, &action); err != nil {
			writeError(w, r, err)
			return
		}

		outcome, err := games.TakeAction(r.Context(), gameID, action)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, ActionResponse{
			Record:      outcome.Record,
			PeekedCards: outcome.PeekedCards,
			State:       view.Project(outcome.Game, action.PlayerID),
		})
	}
}

// HandleGetState serves GET /games/{gameID}?playerId=&sinceVersion=.
func HandleGetState(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]
		query := r.URL.Query()

		var sinceVersion *int64
		if v := query.Get("sinceVersion"); v != "" {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, r, game.ErrMissingField.WithDetail("sinceVersion must be an integer"))
				return
			}
			sinceVersion = &parsed
		}

		v, err := games.GetState(r.Context(), gameID, query.Get("playerId"), sinceVersion)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version.Get()})
	}
}

// StatusForCategory maps a game error category to its HTTP status.
func StatusForCategory(category game.Category) int {
	switch category {
	case game.CategoryValidation:
		return http.StatusBadRequest
	case game.CategoryNotFound:
		return http.StatusNotFound
	case game.CategoryStateConflict, game.CategoryWriteConflict:
		return http.StatusConflict
	case game.CategoryAuthorization:
		return http.StatusForbidden
	case game.CategoryRuleViolation:
		return http.StatusUnprocessableEntity
	case game.CategoryNotModified:
		return http.StatusNotModified
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return game.ErrMissingField.WithDetail("invalid request body: %v", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var gameErr *game.Error
	if !errors.As(err, &gameErr) {
		log.Error("Request %s %s failed [%s]: %v", r.Method, r.URL.Path, middleware.RequestID(r.Context()), err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal"})
		return
	}

	status := StatusForCategory(gameErr.Category)
	if status == http.StatusNotModified {
		w.WriteHeader(status)
		return
	}
	log.Debug("Request %s %s rejected [%s]: %v", r.Method, r.URL.Path, middleware.RequestID(r.Context()), err)
	writeJSON(w, status, ErrorResponse{Error: gameErr.Message, Code: gameErr.Code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
