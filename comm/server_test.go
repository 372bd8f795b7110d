package comm

import (
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recordingHandler remembers the messages it executed. Its summary is the
// fixed reply when one is set; otherwise it reports the most recent message,
// so a reply computed for a different request is detectable.
type recordingHandler struct {
	mu       sync.Mutex
	messages []string
	reply    string
	last     string
}

func (h *recordingHandler) Execute(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, message)
	h.last = message
}

func (h *recordingHandler) Summary() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reply != "" {
		return h.reply
	}
	return "handled " + h.last
}

func (h *recordingHandler) received() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.messages))
	copy(out, h.messages)
	return out
}

// startTestServer starts a server on an ephemeral loopback port and returns
// it together with its host::port address.
func startTestServer(t *testing.T, h Handler, opts ...ServerOption) (*Server, string) {
	t.Helper()

	srv, err := StartServer("127.0.0.1::0", h, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		srv.Stop()
		srv.Wait()
	})

	addr, err := FormatAddress(srv.Addr().String())
	require.NoError(t, err)
	return srv, addr
}

func sendOnce(t *testing.T, addr, message string) string {
	t.Helper()

	client, err := NewClient(addr)
	require.NoError(t, err)
	defer client.Close()

	reply, err := client.Send(message)
	require.NoError(t, err)
	return reply
}

func TestServer_RequestReply(t *testing.T) {
	h := &recordingHandler{reply: "ok"}
	_, addr := startTestServer(t, h)

	require.Equal(t, "ok", sendOnce(t, addr, "ping"))
	require.Equal(t, []string{"ping"}, h.received())
}

func TestServer_ShutdownScenario(t *testing.T) {
	h := &recordingHandler{reply: "ok"}
	srv, addr := startTestServer(t, h)

	require.Equal(t, "ok", sendOnce(t, addr, "ping"))
	require.Equal(t, shutdownReply, sendOnce(t, addr, "shutdown"))

	srv.Wait()

	_, err := NewClient(addr)
	require.ErrorIs(t, err, ErrUnreachable)

	// The sentinel never reaches the handler.
	require.Equal(t, []string{"ping"}, h.received())
}

func TestServer_ShutdownSentinelTrimmed(t *testing.T) {
	h := &recordingHandler{reply: "ok"}
	srv, addr := startTestServer(t, h)

	require.Equal(t, shutdownReply, sendOnce(t, addr, "  shutdown\t"))
	srv.Wait()
}

func TestServer_MultiLinePayload(t *testing.T) {
	h := &recordingHandler{reply: "received"}
	_, addr := startTestServer(t, h)

	require.Equal(t, "received", sendOnce(t, addr, "line1\nline2"))
	require.Equal(t, []string{"line1\nline2"}, h.received())
}

func TestServer_SecondInstanceRefused(t *testing.T) {
	h := &recordingHandler{reply: "ok"}
	_, _ = startTestServer(t, h)

	_, err := StartServer("127.0.0.1::0", h)
	require.ErrorIs(t, err, ErrServerRunning)
}

func TestServer_RestartAfterTermination(t *testing.T) {
	h := &recordingHandler{reply: "ok"}
	srv, _ := startTestServer(t, h)
	srv.Stop()
	srv.Wait()

	srv2, err := StartServer("127.0.0.1::0", h)
	require.NoError(t, err)
	srv2.Stop()
	srv2.Wait()
}

func TestServer_MalformedAddress(t *testing.T) {
	h := &recordingHandler{reply: "ok"}
	_, err := StartServer("127.0.0.1:3141", h)
	require.ErrorIs(t, err, ErrMalformedAddress)
}

func TestServer_NilHandler(t *testing.T) {
	_, err := StartServer("", nil)
	require.ErrorIs(t, err, ErrNilHandler)
}

func TestServer_SurvivesAbortedConnection(t *testing.T) {
	h := &recordingHandler{reply: "ok"}
	_, addr := startTestServer(t, h)

	// A peer that connects and disconnects without sending anything must
	// not terminate the server.
	hostport, err := ParseAddress(addr)
	require.NoError(t, err)
	conn, err := net.Dial("tcp", hostport)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	require.Equal(t, "ok", sendOnce(t, addr, "still alive"))
}

func TestServer_ConcurrentClients(t *testing.T) {
	h := &recordingHandler{}
	_, addr := startTestServer(t, h, WithMaxConnections(2))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client, err := NewClient(addr, WithDialTimeout(5*time.Second))
			if err != nil {
				t.Error(err)
				return
			}
			defer client.Close()

			msg := fmt.Sprintf("request-%d", i)
			reply, err := client.Send(msg)
			if err != nil {
				t.Error(err)
				return
			}
			// Each reply must be the summary computed for its own request,
			// not a concurrent sibling's.
			if reply != "handled "+msg {
				t.Errorf("reply = %q; want %q", reply, "handled "+msg)
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, h.received(), 8)
}
