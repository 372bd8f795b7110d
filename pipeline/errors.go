package pipeline

import "errors"

const Namespace = "pipeline"

var (
	ErrInvalidWorkerCount  = errors.New(Namespace + ": worker count must be at least 1")
	ErrInvalidResultWindow = errors.New(Namespace + ": result window must not be negative")
	ErrPipelineEnded       = errors.New(Namespace + ": cannot add an item after End")
	ErrNilTransform        = errors.New(Namespace + ": transform function must not be nil")
	ErrNilConsumer         = errors.New(Namespace + ": consumer function must not be nil")
)
