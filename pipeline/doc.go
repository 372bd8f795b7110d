// Package pipeline executes a transform over a stream of inputs concurrently
// while delivering results to a consumer strictly in submission order.
//
// Construction
//   - New(ctx, transform, consume, opts ...Option): builds and starts a
//     pipeline. The transform runs on a fixed number of workers; the consumer
//     runs on a single dedicated emitter goroutine.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created instance:
//   - Workers: 1
//   - ResultWindow: 1024 (0 disables backpressure)
//   - Metrics: no-op provider
//
// Lifecycle
// Items are submitted with Add, which assigns a strictly increasing sequence
// number and never blocks the caller. End signals that no further items will
// be added; it is idempotent, and Add fails afterwards. Join blocks until
// every accepted item has been processed and the emitter has quiesced.
//
// Failure containment
// A transform error or panic drops that single item from the output stream;
// a consumer error or panic drops that single result. Neither terminates the
// pipeline or affects sibling items. Nothing is surfaced to the caller; drop
// counts are observable through the injected metrics provider.
package pipeline
