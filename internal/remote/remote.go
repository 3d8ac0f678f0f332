// Package remote defines the external collaborators of the sync engine: the
// remote document store, the authentication provider, and the network
// reachability signal. The engine depends only on these interfaces.
package remote

import (
	"context"
	"encoding/json"
	"errors"

	"countme-core/internal/domain"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// DocumentStore is a generic keyed document store laid out as
// users/{userId}/{collection}/{itemId}. Implementations must scope List
// server-side to the given owner; the engine still re-checks ownership
// client-side.
type DocumentStore interface {
	Get(ctx context.Context, collection domain.EntityType, id string) (json.RawMessage, error)
	List(ctx context.Context, collection domain.EntityType, userID string) ([]json.RawMessage, error)
	Put(ctx context.Context, collection domain.EntityType, id string, doc domain.Document) error
	Delete(ctx context.Context, collection domain.EntityType, id string) error
}

// AuthProvider supplies the opaque id of the currently authenticated
// principal. The core treats identity as an input; it never manages accounts.
type AuthProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// StaticAuth is an AuthProvider pinned to one user id. Used for single-user
// deployments and tests.
type StaticAuth string

func (a StaticAuth) CurrentUserID(ctx context.Context) (string, error) {
	if a == "" {
		return "", ErrNotAuthenticated
	}
	return string(a), nil
}
