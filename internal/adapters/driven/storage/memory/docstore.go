package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Records are copied on insert and on read.
type DocumentStore struct {
	mu        sync.RWMutex
	databases map[string]map[string][]driven.Record
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		databases: make(map[string]map[string][]driven.Record),
	}
}

// Database returns the named logical database. It exists once written to.
func (s *DocumentStore) Database(name string) driven.Database {
	return &database{store: s, name: name}
}

// Databases lists databases that hold at least one record, sorted.
func (s *DocumentStore) Databases(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.databases))
	for name := range s.databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op.
func (s *DocumentStore) Close() error {
	return nil
}

type database struct {
	store *DocumentStore
	name  string
}

func (d *database) Name() string {
	return d.name
}

func (d *database) InsertOne(ctx context.Context, collection string, record driven.Record) (string, error) {
	ids, err := d.InsertMany(ctx, collection, []driven.Record{record})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (d *database) InsertMany(_ context.Context, collection string, records []driven.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	db, ok := s.databases[d.name]
	if !ok {
		db = make(map[string][]driven.Record)
		s.databases[d.name] = db
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		stored := copyRecord(r)
		id := uuid.NewString()
		stored[driven.FieldID] = id
		db[collection] = append(db[collection], stored)
		ids = append(ids, id)
	}
	return ids, nil
}

func (d *database) Find(_ context.Context, collection string, filter driven.Filter) ([]driven.Record, error) {
	s := d.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []driven.Record
	for _, r := range s.databases[d.name][collection] {
		if filter.Matches(r) {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func copyRecord(r driven.Record) driven.Record {
	out := make(driven.Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}
