package pipeline

import (
	"context"
	"time"
)

// Event is an inbound occurrence flowing through the pipeline.
type Event struct {
	Type      string                 `json:"type"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// KVStore is the persistent key-value port. The engine uses it to load and
// save trigger state snapshots when the orchestrator chooses to persist.
type KVStore interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
}

// Topic is the pub/sub delivery port. Fired triggers publish their firing
// decision to a topic for downstream phases.
type Topic interface {
	Name() string
	Publish(ctx context.Context, event Event) error
}

// Trace is the distributed-tracing port.
type Trace interface {
	StartSpan(ctx context.Context, name string) (context.Context, func())
}

// Integration is an external bridge (webhook, message bus, third-party
// API) that fired triggers can be forwarded to.
type Integration interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}

// Stage processes an event during one lifecycle phase.
type Stage interface {
	Phase() Phase
	Execute(ctx context.Context, event Event) (Event, error)
}
