package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeStreamWritesUpdates(t *testing.T) {
	hub := NewHub()
	src := &counter{}
	src.value.Store(10)
	q := NewQuery("count", hub, src.load, 0, quiet(), "cart")
	defer q.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeStream(w, r, q, quiet())
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var got int64
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, int64(10), got)

	src.value.Store(11)
	hub.Publish("cart")
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, int64(11), got)

	conn.Close()
	require.Eventually(t, func() bool { return !q.Active() }, 2*time.Second, 5*time.Millisecond)
}
