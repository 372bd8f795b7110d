// Package comm implements the request/response wire layer of the analysis
// infrastructure: a single-listener TCP server that hands each inbound
// message to an injected Handler and replies with its summary, plus the
// matching one-shot client.
//
// Wire protocol
// Messages are UTF-8 text lines; a message ends when a line ends with the
// literal marker "[<EOM>]". The marker is stripped on read and interior line
// breaks are preserved. A message that trim-equals "shutdown" makes the
// server reply "Shutting down" (framed) and close its listener; in-flight
// handlers then drain before the server terminates.
//
// Concurrency
// Connections are served concurrently, one request per connection, with
// admission bounded by a weighted semaphore (WithMaxConnections, default 4).
// Only admission and I/O overlap: the handler's Execute and the Summary read
// that produces the reply form one critical section, so each reply carries
// the summary computed for its own request. Shutdown waits for every
// admitted connection to finish before Wait returns.
//
// Addresses use the "host::port" form with a literal double-colon separator,
// e.g. "127.0.0.1::3141".
package comm
