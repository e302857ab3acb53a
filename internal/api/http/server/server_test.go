package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedListenerLayer struct {
	ln net.Listener
}

func (f *fixedListenerLayer) Listen(protocol, addr string) (net.Listener, error) {
	return f.ln, nil
}

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestHTTPServer_StartStop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s := NewHTTPServer(mux, ":0")

	done := make(chan error, 1)
	go func() {
		done <- s.Start(&fixedListenerLayer{ln: ln})
	}()

	// Wait for the server to come up.
	var resp *http.Response
	require.Eventually(t, func() bool {
		var err error
		resp, err = http.Get("http://" + ln.Addr().String() + "/ping")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop(context.Background()))

	// Graceful shutdown is not reported as an error by Start.
	assert.NoError(t, <-done)
}
