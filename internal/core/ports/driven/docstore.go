package driven

import (
	"context"
	"reflect"
)

// Record is one JSON document in a collection.
type Record map[string]any

// String returns the string field key, or "" if absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Filter selects records whose fields equal the given values.
// An empty filter matches every record.
type Filter map[string]any

// Matches reports whether r satisfies every field of f.
func (f Filter) Matches(r Record) bool {
	for k, want := range f {
		got, ok := r[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Collection names used by the analysis store.
const (
	CollectionMorphemes   = "morphemes"
	CollectionSentences   = "sentences"
	CollectionExpressions = "expressions"
	CollectionParameters  = "parameters"
	CollectionManuscripts = "manuscripts"
	CollectionSnapshots   = "snapshots"
)

// DocumentStore is a generic document store with named logical databases.
// One database is used per routing category.
type DocumentStore interface {
	// Database selects a logical database by name. It is created on first write.
	Database(name string) Database

	// Databases lists the names of databases holding at least one record.
	Databases(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}

// Database is one logical database of collections.
type Database interface {
	// Name returns the database name.
	Name() string

	// InsertOne stores a record and returns its assigned ID.
	InsertOne(ctx context.Context, collection string, record Record) (string, error)

	// InsertMany stores records atomically and returns their IDs in order.
	// Inserting no records is a no-op.
	InsertMany(ctx context.Context, collection string, records []Record) ([]string, error)

	// Find returns records matching filter in insertion order.
	// Each returned record carries its ID under the "_id" key.
	Find(ctx context.Context, collection string, filter Filter) ([]Record, error)
}

// FieldID is the key under which Find reports a record's ID.
const FieldID = "_id"
