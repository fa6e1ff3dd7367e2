package e2e_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropfour/dropfour/internal/cli"
	"github.com/dropfour/dropfour/internal/factory"
	"github.com/dropfour/dropfour/internal/gateway"
	"github.com/dropfour/dropfour/internal/protocol"
	"github.com/dropfour/dropfour/internal/services/invite"
	"github.com/dropfour/dropfour/internal/services/match"
)

// startServer boots the full application on an ephemeral port
func startServer(t *testing.T) string {
	t.Helper()

	logger := zap.NewNop()
	app, err := factory.New(factory.Config{
		Names:        []string{"Ava", "Bea", "Cleo"},
		MatchConfig:  match.Config{CountdownSeconds: 1, TickRate: 30},
		InviteConfig: invite.Config{TTL: 30 * time.Second},
		Logger:       logger,
	})
	require.NoError(t, err)

	router := gateway.NewRouter(gateway.RouterConfig{
		Logger:  logger,
		Handler: app.Handler,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go app.Scheduler.Run(ctx)

	return srv.URL
}

// dial connects a client and waits for its roster frame to learn its name
func dial(t *testing.T, ctx context.Context, url string) (*cli.Client, string) {
	t.Helper()

	client, err := cli.Dial(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	roster := waitFrame(t, ctx, client, func(msg protocol.ServerMessage) bool {
		_, ok := msg.(protocol.Clients)
		return ok
	}).(protocol.Clients)
	return client, roster.ID
}

// waitFrame reads frames until one matches the predicate
func waitFrame(t *testing.T, ctx context.Context, client *cli.Client, pred func(protocol.ServerMessage) bool) protocol.ServerMessage {
	t.Helper()

	readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for {
		msg, err := client.Read(readCtx)
		require.NoError(t, err, "waiting for frame")
		if pred(msg) {
			return msg
		}
	}
}

func isPlayingSnapshot(msg protocol.ServerMessage) bool {
	sd, ok := msg.(protocol.ServerData)
	return ok && sd.Game != nil && sd.Game.Status == "playing"
}

func TestHealthEndpoint(t *testing.T) {
	url := startServer(t)

	resp, err := http.Get(url + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
}

func TestFullMatchOverWebsockets(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()

	red, redName := dial(t, ctx, url)
	yellow, yellowName := dial(t, ctx, url)
	require.Equal(t, "Ava", redName)
	require.Equal(t, "Bea", yellowName)

	// Invite and accept
	require.NoError(t, red.Invite(ctx, yellowName))
	waitFrame(t, ctx, yellow, func(msg protocol.ServerMessage) bool {
		inv, ok := msg.(protocol.Invitation)
		return ok && inv.From == redName && inv.InvitationType == protocol.InvitationReceived
	})

	require.NoError(t, yellow.Accept(ctx, redName))
	waitFrame(t, ctx, red, func(msg protocol.ServerMessage) bool {
		inv, ok := msg.(protocol.Invitation)
		return ok && inv.InvitationType == protocol.InvitationAccepted
	})

	// Countdown runs, then both see the playing state with red to move
	snap := waitFrame(t, ctx, red, isPlayingSnapshot).(protocol.ServerData)
	assert.Equal(t, redName, snap.Game.Turn)
	assert.Equal(t, "R", snap.Game.Color)

	snap = waitFrame(t, ctx, yellow, isPlayingSnapshot).(protocol.ServerData)
	assert.Equal(t, "Y", snap.Game.Color)
	assert.Equal(t, redName, snap.Game.Opponent)

	// Red stacks column 0 to a vertical four; yellow answers in column 6
	for i := 0; i < 3; i++ {
		require.NoError(t, red.Play(ctx, 0))
		waitFrame(t, ctx, yellow, func(msg protocol.ServerMessage) bool {
			sd, ok := msg.(protocol.ServerData)
			return ok && sd.Game != nil && sd.Game.Turn == yellowName
		})
		require.NoError(t, yellow.Play(ctx, 6))
		waitFrame(t, ctx, red, func(msg protocol.ServerMessage) bool {
			sd, ok := msg.(protocol.ServerData)
			return ok && sd.Game != nil && sd.Game.Turn == redName
		})
	}
	require.NoError(t, red.Play(ctx, 0))

	res := waitFrame(t, ctx, red, func(msg protocol.ServerMessage) bool {
		_, ok := msg.(protocol.GameResult)
		return ok
	}).(protocol.GameResult)
	assert.Equal(t, protocol.ResultWin, res.Result)
	assert.Equal(t, redName, res.Winner)

	res = waitFrame(t, ctx, yellow, func(msg protocol.ServerMessage) bool {
		_, ok := msg.(protocol.GameResult)
		return ok
	}).(protocol.GameResult)
	assert.Equal(t, protocol.ResultLose, res.Result)
}

func TestRuleViolationGetsErrorFrame(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()

	client, _ := dial(t, ctx, url)

	// Playing without a session is refused but keeps the connection alive
	require.NoError(t, client.Play(ctx, 3))
	waitFrame(t, ctx, client, func(msg protocol.ServerMessage) bool {
		_, ok := msg.(protocol.Error)
		return ok
	})

	require.NoError(t, client.Ready(ctx))
	waitFrame(t, ctx, client, func(msg protocol.ServerMessage) bool {
		_, ok := msg.(protocol.Clients)
		return ok
	})
}

func TestDisconnectSettlesMatchForOpponent(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()

	red, redName := dial(t, ctx, url)
	yellow, yellowName := dial(t, ctx, url)

	require.NoError(t, red.Invite(ctx, yellowName))
	waitFrame(t, ctx, yellow, func(msg protocol.ServerMessage) bool {
		_, ok := msg.(protocol.Invitation)
		return ok
	})
	require.NoError(t, yellow.Accept(ctx, redName))
	waitFrame(t, ctx, yellow, isPlayingSnapshot)

	require.NoError(t, red.Close())

	waitFrame(t, ctx, yellow, func(msg protocol.ServerMessage) bool {
		od, ok := msg.(protocol.OpponentDisconnected)
		return ok && od.Name == redName
	})

	res := waitFrame(t, ctx, yellow, func(msg protocol.ServerMessage) bool {
		_, ok := msg.(protocol.GameResult)
		return ok
	}).(protocol.GameResult)
	assert.Equal(t, protocol.ResultWin, res.Result)
	assert.Equal(t, yellowName, res.Winner)
}
