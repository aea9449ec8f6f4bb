package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/bazaar/internal/catalog"
)

type event struct {
	Type string        `json:"type"`
	Data CatalogUpdate `json:"data"`
}

func setup(t *testing.T) (*catalog.Store, *Hub, string) {
	t.Helper()
	store := catalog.NewStore(catalog.Entertainment, []catalog.Vendor{
		{ID: "a", Offerings: []catalog.Offering{{ID: "1"}}},
		{ID: "b", Offerings: []catalog.Offering{{ID: "2"}}},
	})
	hub := NewHub(catalog.NewRegistry(store))

	e := echo.New()
	e.GET("/catalog/:vertical/live", hub.Serve)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return store, hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHubBroadcastsCatalogUpdates(t *testing.T) {
	store, hub, base := setup(t)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/catalog/entertainment/live", nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var hello event
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "catalog_snapshot", hello.Type)
	assert.Equal(t, uint64(0), hello.Data.Version)

	require.Eventually(t, func() bool {
		return hub.Listeners(catalog.Entertainment) == 1
	}, time.Second, 10*time.Millisecond)

	store.Dispatch(catalog.Shuffle{Seed: 4})

	var got event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "catalog_updated", got.Type)
	assert.Equal(t, CatalogUpdate{Vertical: catalog.Entertainment, Version: 1, Reason: "shuffle"}, got.Data)

	conn.Close()
	require.Eventually(t, func() bool {
		return hub.Listeners(catalog.Entertainment) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubRejectsUnknownVertical(t *testing.T) {
	_, _, base := setup(t)

	_, resp, err := websocket.DefaultDialer.Dial(base+"/catalog/insurance/live", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBroadcastDropsClientThatCannotKeepUp(t *testing.T) {
	r := &room{clients: make(map[*client]bool)}
	stuck := &client{send: make(chan []byte)}
	ready := &client{send: make(chan []byte, 1)}
	r.register(stuck)
	r.register(ready)

	done := make(chan struct{})
	go func() {
		r.broadcast([]byte(`{"type":"catalog_updated"}`))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a client that is not reading")
	}

	assert.Equal(t, 1, r.size())
	_, open := <-stuck.send
	assert.False(t, open)
	assert.JSONEq(t, `{"type":"catalog_updated"}`, string(<-ready.send))

	// a second unregister of a dropped client is a no-op
	r.unregister(stuck)
	r.unregister(ready)
	assert.Zero(t, r.size())
}
