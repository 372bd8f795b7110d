package pipeline

// Metric names reported through the injected metrics.Provider.
const (
	MetricItemsEmitted   = "pipeline.items.emitted"
	MetricItemsFailed    = "pipeline.items.failed"
	MetricConsumerFailed = "pipeline.consumer.failed"
)

// item is a single submitted value together with its sequence number,
// assigned at Add time.
type item[I any] struct {
	seq   uint64
	input I
}

// outcome represents a completed item as published by a worker to the
// emitter. present == true means val carries a result to deliver; false
// means the item failed and the cursor must advance without emission.
type outcome[O any] struct {
	seq     uint64
	val     O
	present bool
}
