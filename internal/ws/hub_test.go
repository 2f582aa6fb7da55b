package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"
)

func TestHub_RoomBroadcast(t *testing.T) {
	h := NewHub()
	r := h.EnsureRoom("products")

	c := NewClient(nil, r, "u1")
	r.Add(c)
	h.Broadcast("products", []byte("hi"))
	h.Broadcast("elsewhere", []byte("ignored"))

	select {
	case b := <-c.Send:
		if string(b) != "hi" {
			t.Errorf("got %q", b)
		}
	default:
		t.Fatalf("no broadcast received")
	}
	if n := h.Count("products"); n != 1 {
		t.Errorf("count: got %d", n)
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := NewHub()
	r := h.EnsureRoom("products")
	c := NewClient(nil, r, "u1")
	r.Add(c)

	for i := 0; i < sendBuffer+1; i++ {
		h.Broadcast("products", []byte("x"))
	}

	select {
	case <-c.Done():
	default:
		t.Fatal("slow client should be closed")
	}
	if n := h.Count("products"); n != 0 {
		t.Errorf("count: got %d", n)
	}

	c.Close()
	h.Broadcast("products", []byte("after close"))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_ServeDeliversAndCleansUp(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.Serve(w, r, "products", "u1")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return h.Count("products") == 1 })
	h.Broadcast("products", []byte(`{"type":"product.created"}`))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if string(msg) != `{"type":"product.created"}` {
		t.Errorf("got %s", msg)
	}

	_ = conn.Close()
	waitFor(t, func() bool { return h.Count("products") == 0 })
	h.Close()
}
