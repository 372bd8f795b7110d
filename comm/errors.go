package comm

import "errors"

const Namespace = "comm"

var (
	ErrMalformedAddress = errors.New(Namespace + ": address must be host::port with port in [0, 65535]")
	ErrServerRunning    = errors.New(Namespace + ": a server instance is already running in this process")
	ErrNilHandler       = errors.New(Namespace + ": handler must not be nil")
	ErrUnreachable      = errors.New(Namespace + ": peer is not reachable")
	ErrClientClosed     = errors.New(Namespace + ": client is closed")
)
