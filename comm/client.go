package comm

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"
)

// DefaultDialTimeout bounds the client's reachability probe.
const DefaultDialTimeout = 2 * time.Second

// Client sends one framed message to a server and reads the framed reply.
// A client is one-shot: after a successful exchange, further Send calls
// return an empty reply.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	spent  bool
	closed bool
}

type clientConfig struct {
	dialTimeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// WithDialTimeout overrides the reachability probe timeout (default 2s).
func WithDialTimeout(d time.Duration) ClientOption {
	return func(cfg *clientConfig) {
		if d <= 0 {
			panic("dial timeout must be positive")
		}
		cfg.dialTimeout = d
	}
}

// NewClient parses addr ("host::port") and opens a connection, failing with
// ErrUnreachable when the peer does not accept within the probe timeout.
func NewClient(addr string, opts ...ClientOption) (*Client, error) {
	hostport, err := ParseAddress(addr)
	if err != nil {
		return nil, err
	}

	cfg := clientConfig{dialTimeout: DefaultDialTimeout}
	for _, opt := range opts {
		if opt == nil {
			panic("nil client option")
		}
		opt(&cfg)
	}

	conn, err := net.DialTimeout("tcp", hostport, cfg.dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, hostport, err)
	}

	return &Client{conn: conn}, nil
}

// Send writes the framed message and returns the framed reply. After a
// successful exchange the client is spent and further Send calls return an
// empty reply with no error.
func (c *Client) Send(message string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrClientClosed
	}
	if c.spent {
		return "", nil
	}

	if err := writeMessage(c.conn, message); err != nil {
		return "", fmt.Errorf(Namespace+": send: %w", err)
	}
	reply, err := readMessage(bufio.NewReader(c.conn))
	if err != nil {
		return "", fmt.Errorf(Namespace+": receive: %w", err)
	}

	c.spent = true
	return reply, nil
}

// Close releases the underlying connection. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
