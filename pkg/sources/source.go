// Package sources defines the input side of the import pipeline: readers that
// turn spreadsheet exports into raw rows. Every cell is read as text exactly
// as authored; numeric and date coercion belongs to the normalizers. All
// sheets of all inputs are concatenated into one logical row-wise table in
// argument order.
package sources

import (
	"context"

	"github.com/unitbook/unitbook/pkg/fields"
)

// Source is one input of raw rows. Implementations read a bounded batch; the
// import pipeline never streams.
type Source interface {
	// Name identifies the source in logs and the run summary.
	Name() string

	// Rows reads every data row of the source. The header row of each sheet
	// is consumed to label the rows that follow it.
	Rows(ctx context.Context) ([]fields.Row, error)
}

// Multi concatenates several sources into one logical table.
type Multi struct {
	sources []Source
}

// NewMulti creates a source that yields the rows of each given source in
// order.
func NewMulti(srcs ...Source) *Multi {
	return &Multi{sources: srcs}
}

// Name implements Source.
func (m *Multi) Name() string {
	if len(m.sources) == 1 {
		return m.sources[0].Name()
	}
	return "multiple sources"
}

// Rows implements Source.
func (m *Multi) Rows(ctx context.Context) ([]fields.Row, error) {
	var all []fields.Row
	for _, src := range m.sources {
		rows, err := src.Rows(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

// Sources returns the underlying sources.
func (m *Multi) Sources() []Source {
	return m.sources
}
