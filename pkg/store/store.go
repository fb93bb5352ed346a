// Package store defines the persistence contract for Unit Records. The store
// is document-oriented and keyed by unit identity; the import engine needs
// point reads, partial field updates and owner append/merge operations, while
// the external filter/UI consumer needs text search, exact filters, numeric
// ranges, pagination and distinct-value enumeration.
package store

import (
	"context"

	"github.com/unitbook/unitbook/pkg/units"
)

// Store is the persistent collection of Unit Records.
type Store interface {
	// EnsureIndexes creates the indexes the consumer queries rely on.
	// Idempotent.
	EnsureIndexes(ctx context.Context) error

	// Seed returns the identity and owners of every stored record, for the
	// import engine's in-memory mirror. Attribute fields are not loaded.
	Seed(ctx context.Context) ([]units.Projection, error)

	// Insert stores a brand-new unit record.
	Insert(ctx context.Context, unit *units.Unit) error

	// SetFields applies a partial attribute update to the record at key.
	// An empty patch is a no-op.
	SetFields(ctx context.Context, key units.Key, patch map[string]any) error

	// AppendOwner appends a new owner entry to the record at key.
	AppendOwner(ctx context.Context, key units.Key, owner units.Owner) error

	// MergeContacts adds the given numbers to the contact set of the owner
	// entry identified by (name, role, date) on the record at key, without
	// creating duplicates.
	MergeContacts(ctx context.Context, key units.Key, name, role, date string, numbers []string) error

	// Find returns one page of records matching the query plus the total
	// match count.
	Find(ctx context.Context, query Query) ([]units.Unit, int64, error)

	// Distinct enumerates the distinct non-empty values of a field, sorted,
	// for UI option lists.
	Distinct(ctx context.Context, field string) ([]string, error)
}

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultPerPage is the page size used when a query does not set one.
const DefaultPerPage = 12

// Query describes a consumer lookup over the record collection.
type Query struct {
	// Search matches case-insensitive substrings over building name,
	// community, owner names, and contact numbers.
	Search string

	// Exact filters. Empty string / nil means "any".
	PropertyType          string
	SubType               string
	City                  string
	Beds                  *float64
	MunicipalityNumber    string
	MunicipalitySubNumber string

	// Numeric ranges, inclusive. Nil bound means unbounded.
	MinArea  *float64
	MaxArea  *float64
	MinPrice *float64
	MaxPrice *float64

	// SortBy is one of area_sqft (default), price, building_name.
	SortBy string
	// Order is SortAsc or SortDesc (default).
	Order string

	// Page is 1-based; PerPage defaults to DefaultPerPage.
	Page    int
	PerPage int
}

// Normalize fills query defaults in place and returns the query.
func (q Query) Normalize() Query {
	switch q.SortBy {
	case units.FieldPrice, units.FieldBuildingName, units.FieldAreaSqft:
	default:
		q.SortBy = units.FieldAreaSqft
	}
	if q.Order != SortAsc {
		q.Order = SortDesc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	return q
}
