// Package repository persists named query profiles and their matches.
//
// The store keeps a single JSON document keyed by profile name. Every mutation
// is a whole-document read-modify-write: read snapshot, mutate in memory,
// write snapshot. There is no optimistic concurrency check; callers must
// serialize access (last writer wins).
package repository

import (
	"context"

	"github.com/okian/foundermatch/internal/domain/model"
)

// Op names a mutating store operation.
type Op string

// Mutating operations reported to listeners.
const (
	OpSave          Op = "save"
	OpUpdateMatches Op = "update_matches"
)

// ChangeEvent describes a committed mutation.
type ChangeEvent struct {
	Op   Op
	Name string
}

// Listener is invoked synchronously after every committed mutation.
type Listener func(ctx context.Context, ev ChangeEvent)

// Store provides read/write access to saved profiles.
type Store interface {
	// Save upserts the profile keyed by its name, replacing any stored matches
	// with the ones carried by p.
	Save(ctx context.Context, p model.SavedProfile) error

	// Load returns every saved profile keyed by name. A missing document is an
	// empty store.
	Load(ctx context.Context) (map[string]model.SavedProfile, error)

	// Get returns one profile. Returns ErrNotFound if the name is unknown.
	Get(ctx context.Context, name string) (model.SavedProfile, error)

	// UpdateMatches replaces the matches of an existing profile.
	// Returns ErrNotFound if the name is unknown; nothing is written then.
	UpdateMatches(ctx context.Context, name string, matches []model.MatchResult) error

	// OnChange registers a listener. Listeners run in registration order on
	// the caller's stack before the mutating call returns.
	OnChange(l Listener)
}
