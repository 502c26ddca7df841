package live_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gullyscore/cricket-scoring-service/internal/engine"
	"github.com/gullyscore/cricket-scoring-service/internal/live"
	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

func TestHubBroadcast(t *testing.T) {
	hub := live.NewHub(zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Subscribe(w, r, 7)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers(7) == 1
	}, time.Second, 10*time.Millisecond)

	m := model.Match{ID: 7, Phase: model.PhaseFirstInnings}
	m.Batting().Score = 42
	hub.BroadcastMatch(m, engine.Events{WicketFell: true})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var got live.Update
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, int64(7), got.Match.ID)
	require.Equal(t, 42, got.Match.Batting().Score)
	require.True(t, got.Events.WicketFell)
}

func TestHubIgnoresOtherMatches(t *testing.T) {
	hub := live.NewHub(zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Subscribe(w, r, 7)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers(7) == 1
	}, time.Second, 10*time.Millisecond)

	// An update for another match never reaches this subscriber.
	hub.BroadcastMatch(model.Match{ID: 8}, engine.Events{})
	hub.BroadcastMatch(model.Match{ID: 7}, engine.Events{})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var got live.Update
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, int64(7), got.Match.ID)
}

func TestHubDropsDisconnectedSubscribers(t *testing.T) {
	hub := live.NewHub(zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Subscribe(w, r, 7)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.Subscribers(7) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.Subscribers(7) == 0
	}, time.Second, 10*time.Millisecond)
}
