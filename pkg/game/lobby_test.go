package game

import (
	"testing"

	"github.com/cbodonnell/instalose/pkg/cards"
	"github.com/cbodonnell/instalose/pkg/game/constants"
	"github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitingGame(maxPlayers int, playerIDs ...string) *types.Game {
	g := types.NewGame("LOBBY1", "host", maxPlayers, 0)
	for _, id := range playerIDs {
		g.Players = append(g.Players, types.NewPlayer(id, id, "", ""))
	}
	return g
}

func TestEngine_Join(t *testing.T) {
	started := waitingGame(10, "A", "B")
	started.Status = types.StatusInProgress

	tests := []struct {
		name    string
		game    *types.Game
		req     JoinRequest
		wantErr error
	}{
		{name: "first player", game: waitingGame(10), req: JoinRequest{PlayerID: "A", Name: "Alice"}},
		{name: "missing id", game: waitingGame(10), req: JoinRequest{Name: "Alice"}, wantErr: ErrMissingField},
		{name: "missing name", game: waitingGame(10), req: JoinRequest{PlayerID: "A"}, wantErr: ErrMissingField},
		{name: "unknown game", game: nil, req: JoinRequest{PlayerID: "A", Name: "Alice"}, wantErr: ErrGameNotFound},
		{name: "already started", game: started, req: JoinRequest{PlayerID: "C", Name: "Carol"}, wantErr: ErrAlreadyStarted},
		{name: "full", game: waitingGame(2, "A", "B"), req: JoinRequest{PlayerID: "C", Name: "Carol"}, wantErr: ErrGameFull},
		{name: "host", game: waitingGame(10), req: JoinRequest{PlayerID: "host", Name: "Host"}, wantErr: ErrAlreadyJoined},
		{name: "twice", game: waitingGame(10, "A"), req: JoinRequest{PlayerID: "A", Name: "Alice"}, wantErr: ErrAlreadyJoined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := newTestEngine(1).Join(tt.game, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, next)
				return
			}
			require.NoError(t, err)
			p := next.Player(tt.req.PlayerID)
			require.NotNil(t, p)
			assert.Equal(t, constants.DefaultPlayerIcon, p.Icon)
			assert.Equal(t, constants.DefaultPlayerColor, p.Color)
			assert.True(t, p.Alive)
			assert.Empty(t, tt.game.Players, "input game was mutated")
		})
	}
}

func TestEngine_JoinKeepsChosenLook(t *testing.T) {
	next, err := newTestEngine(1).Join(waitingGame(10), JoinRequest{PlayerID: "A", Name: "Alice", Icon: "🦊", Color: "bg-blue-500"})
	require.NoError(t, err)
	assert.Equal(t, "🦊", next.Players[0].Icon)
	assert.Equal(t, "bg-blue-500", next.Players[0].Color)
}

func TestEngine_Start(t *testing.T) {
	started := waitingGame(10, "A", "B")
	started.Status = types.StatusInProgress

	tests := []struct {
		name      string
		game      *types.Game
		requester string
		wantErr   error
	}{
		{name: "mvp starts", game: waitingGame(10, "A", "B", "C"), requester: "A"},
		{name: "missing requester", game: waitingGame(10, "A", "B"), requester: "", wantErr: ErrMissingField},
		{name: "unknown game", game: nil, requester: "A", wantErr: ErrGameNotFound},
		{name: "not mvp", game: waitingGame(10, "A", "B", "C"), requester: "B", wantErr: ErrNotMVP},
		{name: "host is not mvp", game: waitingGame(10, "A", "B"), requester: "host", wantErr: ErrNotMVP},
		{name: "already started", game: started, requester: "A", wantErr: ErrAlreadyStarted},
		{name: "alone", game: waitingGame(10, "A"), requester: "A", wantErr: ErrNotEnoughPlayers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := newTestEngine(1).Start(tt.game, tt.requester)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, next)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, types.StatusInProgress, next.Status)
			assert.ElementsMatch(t, []string{"A", "B", "C"}, next.TurnOrder)
			assert.Equal(t, next.TurnOrder[0], next.CurrentTurnPlayerID)

			require.Len(t, next.Actions, 1)
			assert.Equal(t, types.ActionTypeGameStarted, next.Actions[0].Type)
			assert.Equal(t, int64(1), next.Actions[0].SequenceNumber)
			assert.Equal(t, int64(1), next.TotalActionCount)

			assert.Equal(t, types.StatusWaiting, tt.game.Status, "input game was mutated")
		})
	}
}

func TestEngine_StartDeckIntegrity(t *testing.T) {
	for numPlayers := 2; numPlayers <= 10; numPlayers++ {
		for seed := uint64(0); seed < 5; seed++ {
			ids := make([]string, numPlayers)
			for i := range ids {
				ids[i] = string(rune('A' + i))
			}

			g, err := newTestEngine(seed).Start(waitingGame(100, ids...), "A")
			require.NoError(t, err)

			eliminations := g.Deck.Count(cards.KindElimination)
			for _, p := range g.Players {
				assert.Len(t, p.Hand, constants.StartingHandSize)
				assert.Equal(t, 0, cards.CountKind(p.Hand, cards.KindElimination))
				assert.Equal(t, 1, cards.CountKind(p.Hand, cards.KindSave))
			}
			assert.Equal(t, numPlayers-1, eliminations)
			assert.ElementsMatch(t, ids, g.TurnOrder)
		}
	}
}
