package contracts

import "context"

type FindSpec struct {
	Predicates []Predicate
	Sort       []SortField
	Skip       int64
	Limit      int64
}

// RecordStore is the only place predicates become database queries.
type RecordStore interface {
	Find(ctx context.Context, collection string, spec FindSpec, out interface{}) error
	Count(ctx context.Context, collection string, predicates []Predicate) (int64, error)
	// FindOne decodes the first match into out and reports whether one existed.
	FindOne(ctx context.Context, collection string, predicates []Predicate, out interface{}) (bool, error)
	Insert(ctx context.Context, collection string, document interface{}) error
	// Save applies set to the document with the given id only if its version
	// still equals expectedVersion, and bumps the version.
	Save(ctx context.Context, collection, id string, expectedVersion int64, set map[string]interface{}) error
}
