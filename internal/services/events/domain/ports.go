package domain

import (
	"context"
	"time"
)

// WriterPort inserts events, used by ingestion and by user-driven creates
type WriterPort interface {
	Insert(ctx context.Context, w EventWrite) (Event, error)
}

// ExternalPort exposes the externally sourced slice of the store for
// ingestion snapshots and expiry
type ExternalPort interface {
	ListExternal(ctx context.Context) ([]Event, error)
	DeleteExternalBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// QueryPort reads events
type QueryPort interface {
	Get(ctx context.Context, id string) (Event, error)
	List(ctx context.Context) ([]Event, error)
	Search(ctx context.Context, q string) ([]Event, error)
}

// MutatePort edits user-owned events; every call checks ownership
type MutatePort interface {
	Update(ctx context.Context, owner, id string, u EventUpdate) (Event, error)
	Delete(ctx context.Context, owner, id string) error
}

// RSVPPort tracks attendance
type RSVPPort interface {
	AddRSVP(ctx context.Context, userID, eventID string) (bool, error)
	RemoveRSVP(ctx context.Context, userID, eventID string) (bool, error)
	Attendees(ctx context.Context, eventID string) ([]string, error)
}
