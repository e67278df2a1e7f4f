package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type fakeStatus struct {
	isSaved bool
	path    string
	at      time.Time
}

func (f fakeStatus) Status() (bool, string, time.Time) { return f.isSaved, f.path, f.at }

func TestStatusRouteReportsCurrentState(t *testing.T) {
	srv, err := New("127.0.0.1:0", fakeStatus{isSaved: false, path: "/tmp/doc.json", at: time.Unix(0, 0)})
	require.NoError(t, err)
	go srv.Start()
	defer srv.Shutdown(context.Background())

	resp, err := http.Get("http://" + srv.Addr() + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, false, body["is_saved"])
	require.Equal(t, "/tmp/doc.json", body["source_path"])
}

func TestFeedDeliversPublishedEvents(t *testing.T) {
	srv, err := New("127.0.0.1:0", fakeStatus{isSaved: true, path: "/tmp/doc.json", at: time.Unix(0, 0)})
	require.NoError(t, err)
	go srv.Start()
	defer srv.Shutdown(context.Background())

	url := "ws://" + srv.Addr() + "/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(20 * time.Millisecond)
	srv.Publish("write", "/a")

	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, "write", event.Op)
	require.Equal(t, "/a", event.Path)
}
