package repository

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/okian/foundermatch/internal/domain/model"
)

// document is the persisted object keyed by profile name. Entries stay raw so
// that a mutation rewrites only the entry it touches.
type document map[string]json.RawMessage

// txn is one read-modify-write cycle over the document.
type txn struct {
	id  string
	doc document
}

func readDocument(path string) (document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return document{}, nil
		}
		return nil, fmt.Errorf("%w %s: %w", ErrReadDocument, path, err)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return document{}, nil
	}
	var doc document
	if err := json.Unmarshal(quoteNonFinite(b), &doc); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptDocument, path, err)
	}
	if doc == nil {
		doc = document{}
	}
	return doc, nil
}

// writeDocument replaces the document atomically: a failed write leaves the
// previous document in place.
func writeDocument(path string, doc document, mode fs.FileMode) (err error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteDocument, path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteDocument, path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteDocument, path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w %s: %w", ErrWriteDocument, path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w %s: %w", ErrWriteDocument, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteDocument, path, err)
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteDocument, path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteDocument, path, err)
	}
	return nil
}

func newTxn(doc document) *txn {
	return &txn{id: uuid.NewString(), doc: doc}
}

// put stores a whole profile under its name.
func (t *txn) put(p model.SavedProfile) error {
	if p.MatchedProfiles == nil {
		p.MatchedProfiles = []model.MatchResult{}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile %q: %w", p.Name, err)
	}
	t.doc[p.Name] = raw
	return nil
}

// setMatches replaces matched_profiles of an existing entry, keeping every
// other field of the entry as stored.
func (t *txn) setMatches(name string, matches []model.MatchResult) error {
	raw, ok := t.doc[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fmt.Errorf("%w: entry %q: %w", ErrCorruptDocument, name, err)
	}
	if entry == nil {
		entry = map[string]json.RawMessage{}
	}
	if matches == nil {
		matches = []model.MatchResult{}
	}
	encoded, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encode matches for %q: %w", name, err)
	}
	entry["matched_profiles"] = encoded
	if raw, err = json.Marshal(entry); err != nil {
		return fmt.Errorf("encode profile %q: %w", name, err)
	}
	t.doc[name] = raw
	return nil
}

// decodeProfile reads one entry. Older documents may lack weight and
// num_neighbors; those fall back to the form defaults.
func decodeProfile(name string, raw json.RawMessage) (model.SavedProfile, error) {
	p := model.SavedProfile{
		QueryProfile: model.QueryProfile{
			Weight:       model.DefaultWeight,
			NumNeighbors: model.DefaultNumNeighbors,
		},
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.SavedProfile{}, fmt.Errorf("%w: entry %q: %w", ErrCorruptDocument, name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	if p.MatchedProfiles == nil {
		p.MatchedProfiles = []model.MatchResult{}
	}
	return p, nil
}

var nonFiniteTokens = [][]byte{[]byte("-Infinity"), []byte("Infinity"), []byte("NaN")}

// quoteNonFinite turns bare Infinity/-Infinity/NaN tokens, which some JSON
// writers emit for non-finite floats, into strings Similarity can decode.
func quoteNonFinite(b []byte) []byte {
	if !bytes.Contains(b, []byte("Infinity")) && !bytes.Contains(b, []byte("NaN")) {
		return b
	}
	out := make([]byte, 0, len(b)+16)
	inString, escaped := false, false
	for i := 0; i < len(b); i++ {
		c := b[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		matched := false
		for _, tok := range nonFiniteTokens {
			if bytes.HasPrefix(b[i:], tok) {
				out = append(out, '"')
				out = append(out, tok...)
				out = append(out, '"')
				i += len(tok) - 1
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, c)
		}
	}
	return out
}
