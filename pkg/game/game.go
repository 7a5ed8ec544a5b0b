package game

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/instalose/pkg/cards"
	"github.com/cbodonnell/instalose/pkg/game/constants"
	"github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/cbodonnell/instalose/pkg/log"
	"github.com/cbodonnell/instalose/pkg/messages"
	"github.com/cbodonnell/instalose/pkg/repositories"
	"github.com/cbodonnell/instalose/pkg/subscribers"
	"github.com/cbodonnell/instalose/pkg/view"
)

// Broadcaster fans out game updates to push connections.
// *subscribers.Registry implements it.
type Broadcaster interface {
	Register(ctx context.Context, req subscribers.RegisterRequest) error
	Unregister(ctx context.Context, connectionID string) error
	SendCurrent(ctx context.Context, connectionID string, game *types.Game) error
	Publish(ctx context.Context, update subscribers.Update)
}

// GameManager runs every game operation as load, apply, save and publish.
// It keeps no game state between calls.
type GameManager struct {
	repository  repositories.Repository
	broadcaster Broadcaster
	engine      *Engine
	rand        cards.Rand
	now         func() time.Time
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	Repository  repositories.Repository
	Broadcaster Broadcaster
	// Engine defaults to an engine using Rand and Now
	Engine *Engine
	// Rand is used for room codes and defaults to cards.DefaultRand
	Rand cards.Rand
	// Now defaults to time.Now
	Now func() time.Time
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	gm := &GameManager{
		repository:  opts.Repository,
		broadcaster: opts.Broadcaster,
		engine:      opts.Engine,
		rand:        opts.Rand,
		now:         opts.Now,
	}
	if gm.rand == nil {
		gm.rand = cards.DefaultRand
	}
	if gm.now == nil {
		gm.now = time.Now
	}
	if gm.engine == nil {
		gm.engine = NewEngine(NewEngineOptions{Rand: gm.rand, Now: gm.now})
	}
	return gm
}

// ActionOutcome is the result of a successful TakeAction.
type ActionOutcome struct {
	Record types.ActionRecord `json:"record"`
	// PeekedCards is only set for the acting player's Peek plays
	PeekedCards []cards.Card `json:"peekedCards,omitempty"`
	Game        *types.Game  `json:"-"`
}

// CreateGame creates a waiting game hosted by hostID under a new room code.
func (gm *GameManager) CreateGame(ctx context.Context, hostID string) (*types.Game, error) {
	if hostID == "" {
		return nil, ErrMissingField.WithDetail("hostId")
	}

	for attempt := 0; attempt < constants.GameIDMaxRetries; attempt++ {
		g := types.NewGame(NewGameID(gm.rand), hostID, constants.MaxPlayers, gm.now().UnixMilli())
		err := gm.repository.CreateGame(ctx, g)
		if err == nil {
			log.Info("Game %s created by host %s", g.ID, hostID)
			return g, nil
		}
		if !repositories.IsAlreadyExists(err) {
			return nil, fmt.Errorf("failed to create game: %v", err)
		}
		log.Debug("Room code %s is taken, retrying", g.ID)
	}
	return nil, fmt.Errorf("failed to find an unused room code after %d attempts", constants.GameIDMaxRetries)
}

// JoinGame adds a player to a waiting game.
func (gm *GameManager) JoinGame(ctx context.Context, gameID string, req JoinRequest) (*types.Game, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := gm.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	next, err := gm.engine.Join(g, req)
	if err != nil {
		return nil, err
	}
	if err := gm.save(ctx, next); err != nil {
		return nil, err
	}

	log.Info("Player %s joined game %s", req.PlayerID, gameID)
	gm.broadcaster.Publish(ctx, subscribers.Update{Game: next})
	return next, nil
}

// StartGame deals the cards and starts play. Only the MVP may start.
func (gm *GameManager) StartGame(ctx context.Context, gameID string, requestingPlayerID string) (*types.Game, error) {
	if requestingPlayerID == "" {
		return nil, ErrMissingField.WithDetail("playerId")
	}

	g, err := gm.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	next, err := gm.engine.Start(g, requestingPlayerID)
	if err != nil {
		return nil, err
	}
	if err := gm.save(ctx, next); err != nil {
		return nil, err
	}

	log.Info("Game %s started with %d players", gameID, len(next.Players))
	gm.broadcaster.Publish(ctx, subscribers.Update{Game: next})
	return next, nil
}

// TakeAction applies a player's draw or play to the game.
func (gm *GameManager) TakeAction(ctx context.Context, gameID string, action Action) (*ActionOutcome, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}

	g, err := gm.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	result, err := gm.engine.Apply(g, action)
	if err != nil {
		return nil, err
	}
	if err := gm.save(ctx, result.Game); err != nil {
		return nil, err
	}

	log.Debug("Game %s action %d: %s %s -> %s", gameID, result.Record.SequenceNumber, action.PlayerID, action.Type, result.Record.Result)
	if result.Game.Status == types.StatusFinished {
		log.Info("Game %s finished, winner %s", gameID, result.Game.WinnerID)
	}

	update := subscribers.Update{Game: result.Game}
	if result.PeekedCards != nil {
		update.Private = &messages.ActionResult{
			PlayerID:    action.PlayerID,
			PeekedCards: result.PeekedCards,
		}
	}
	gm.broadcaster.Publish(ctx, update)

	return &ActionOutcome{
		Record:      result.Record,
		PeekedCards: result.PeekedCards,
		Game:        result.Game,
	}, nil
}

// GetState returns the game as seen by viewerPlayerID. When sinceVersion is
// set and the game has not changed since, it returns ErrNotModified.
func (gm *GameManager) GetState(ctx context.Context, gameID string, viewerPlayerID string, sinceVersion *int64) (*view.View, error) {
	g, err := gm.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if sinceVersion != nil && g.Version <= *sinceVersion {
		return nil, ErrNotModified
	}
	return view.Project(g, viewerPlayerID), nil
}

// SubscribeRequest registers a push connection for a game.
type SubscribeRequest struct {
	ConnectionID   string
	GameID         string
	ViewerPlayerID string
	IsHost         bool
	Sender         subscribers.Sender
}

// Subscribe registers the connection and sends it the current view.
// The game is loaded only after registering, so a write that lands in between
// is either published to the connection or included in the view sent here.
func (gm *GameManager) Subscribe(ctx context.Context, req SubscribeRequest) error {
	if req.GameID == "" {
		return ErrMissingField.WithDetail("gameId")
	}

	if err := gm.broadcaster.Register(ctx, subscribers.RegisterRequest{
		ConnectionID:   req.ConnectionID,
		GameID:         req.GameID,
		ViewerPlayerID: req.ViewerPlayerID,
		IsHost:         req.IsHost,
		Sender:         req.Sender,
	}); err != nil {
		return fmt.Errorf("failed to register subscriber: %v", err)
	}

	g, err := gm.load(ctx, req.GameID)
	if err != nil {
		if unregisterErr := gm.broadcaster.Unregister(ctx, req.ConnectionID); unregisterErr != nil {
			log.Warn("Failed to unregister %s after failed subscribe: %v", req.ConnectionID, unregisterErr)
		}
		return err
	}

	if err := gm.broadcaster.SendCurrent(ctx, req.ConnectionID, g); err != nil {
		log.Warn("Failed to send current state of game %s to %s: %v", req.GameID, req.ConnectionID, err)
	}
	return nil
}

func (gm *GameManager) Unsubscribe(ctx context.Context, connectionID string) error {
	return gm.broadcaster.Unregister(ctx, connectionID)
}

func (gm *GameManager) load(ctx context.Context, gameID string) (*types.Game, error) {
	if gameID == "" {
		return nil, ErrMissingField.WithDetail("gameId")
	}
	g, err := gm.repository.LoadGame(ctx, gameID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %s: %v", gameID, err)
	}
	return g, nil
}

func (gm *GameManager) save(ctx context.Context, g *types.Game) error {
	if err := gm.repository.SaveGame(ctx, g); err != nil {
		switch {
		case repositories.IsConflict(err):
			return ErrWriteConflict
		case repositories.IsNotFound(err):
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to save game %s: %v", g.ID, err)
	}
	return nil
}
