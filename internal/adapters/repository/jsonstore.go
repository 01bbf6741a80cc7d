package repository

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/okian/foundermatch/internal/domain/model"
	"github.com/okian/foundermatch/pkg/logger"
	"github.com/okian/foundermatch/pkg/metrics"
)

const defaultFileMode fs.FileMode = 0o644

// JSONFileStore implements Store over one JSON file.
// It holds no lock: concurrent mutations race at the document level.
type JSONFileStore struct {
	path      string
	mode      fs.FileMode
	listeners []Listener
	logger    logger.Logger
}

// NewJSONFileStore creates a store backed by the document at path.
// The file is created on the first successful mutation.
func NewJSONFileStore(path string, opts ...Option) *JSONFileStore {
	s := &JSONFileStore{
		path: path,
		mode: defaultFileMode,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the backing document path.
func (s *JSONFileStore) Path() string { return s.path }

// OnChange implements Store.
func (s *JSONFileStore) OnChange(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// Save implements Store.
func (s *JSONFileStore) Save(ctx context.Context, p model.SavedProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		metrics.RecordStoreOperation(string(OpSave), "invalid")
		return fmt.Errorf("%w: %w", model.ErrInvalidProfile, model.ErrMissingName)
	}
	err := s.mutate(ctx, OpSave, p.Name, func(t *txn) error { return t.put(p) })
	if err != nil {
		return fmt.Errorf("save profile %q: %w", p.Name, err)
	}
	return nil
}

// UpdateMatches implements Store.
func (s *JSONFileStore) UpdateMatches(ctx context.Context, name string, matches []model.MatchResult) error {
	err := s.mutate(ctx, OpUpdateMatches, name, func(t *txn) error { return t.setMatches(name, matches) })
	if err != nil {
		return fmt.Errorf("update matches of %q: %w", name, err)
	}
	return nil
}

// Load implements Store.
func (s *JSONFileStore) Load(ctx context.Context) (map[string]model.SavedProfile, error) {
	doc, err := readDocument(s.path)
	if err != nil {
		metrics.RecordStoreOperation("load", "error")
		return nil, err
	}
	out := make(map[string]model.SavedProfile, len(doc))
	for name, raw := range doc {
		p, err := decodeProfile(name, raw)
		if err != nil {
			metrics.RecordStoreOperation("load", "error")
			return nil, err
		}
		out[name] = p
	}
	metrics.RecordStoreOperation("load", "ok")
	metrics.UpdateProfileCount(len(out))
	return out, nil
}

// Get implements Store.
func (s *JSONFileStore) Get(ctx context.Context, name string) (model.SavedProfile, error) {
	doc, err := readDocument(s.path)
	if err != nil {
		return model.SavedProfile{}, err
	}
	raw, ok := doc[name]
	if !ok {
		return model.SavedProfile{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return decodeProfile(name, raw)
}

// mutate runs one transaction: read snapshot, apply fn, write snapshot, then
// notify listeners. Nothing is written when fn fails.
func (s *JSONFileStore) mutate(ctx context.Context, op Op, name string, fn func(*txn) error) error {
	doc, err := readDocument(s.path)
	if err != nil {
		metrics.RecordStoreOperation(string(op), "error")
		metrics.RecordErrorByComponent("store", "read")
		return err
	}
	t := newTxn(doc)
	if err := fn(t); err != nil {
		metrics.RecordStoreOperation(string(op), "rejected")
		return err
	}
	if err := writeDocument(s.path, t.doc, s.mode); err != nil {
		metrics.RecordStoreOperation(string(op), "error")
		metrics.RecordErrorByComponent("store", "write")
		if s.logger != nil {
			s.logger.Error(ctx, "profile document write failed",
				logger.String("txn", t.id),
				logger.String("op", string(op)),
				logger.Error(err),
			)
		}
		return err
	}
	metrics.RecordStoreOperation(string(op), "ok")
	metrics.UpdateProfileCount(len(t.doc))
	if s.logger != nil {
		s.logger.Debug(ctx, "profile document committed",
			logger.String("txn", t.id),
			logger.String("op", string(op)),
			logger.String("profile", name),
			logger.Int("profiles", len(t.doc)),
		)
	}

	ev := ChangeEvent{Op: op, Name: name}
	for _, l := range s.listeners {
		l(ctx, ev)
	}
	return nil
}
