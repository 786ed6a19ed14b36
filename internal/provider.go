package internal

import (
	"context"
)

// Mux resolves a source platform name ("google", "ics") to its adapter.
type Mux interface {
	Get(platform string) (Source, error)
}

// Source fetches raw events from one provider calendar over a window.
type Source interface {
	FetchEvents(_ context.Context, _ *Calendar, from, to Date) ([]*RawEvent, error)
}

// Destination receives classified events, one batched call per role
// bucket. A Push error fails the whole bucket; the reconciler leaves
// it pending and retries on the next pass.
type Destination interface {
	Name() string
	Push(_ context.Context, _ Role, _ []*Event) error
}
