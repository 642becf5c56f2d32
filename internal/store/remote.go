package store

import (
	"context"

	"github.com/parlons/parlons-api/internal/domain"
)

// RemoteStore is the opaque remote snapshot collaborator. The remote format
// is a whole-document overwrite: Save always pushes the full current
// snapshot, never a diff. Transport and authentication are the
// implementation's concern.
// Version: 1.0
type RemoteStore interface {
	// Load fetches and normalizes the snapshot for the context key.
	// Returns ErrSnapshotNotFound when the remote holds no document for the
	// key, and an error wrapping ErrRemoteUnavailable on transport failure.
	Load(ctx context.Context, contextKey string) (*domain.RemoteSnapshot, error)

	// Save overwrites the remote document for the context key with the
	// given snapshot. Returns an error wrapping ErrRemoteUnavailable on
	// failure; callers do not retry eagerly, the next merge event will.
	Save(ctx context.Context, contextKey string, snapshot *domain.RemoteSnapshot) error
}
