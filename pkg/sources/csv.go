package sources

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/fields"
)

// CSV reads a delimiter-separated export. The first record is the header row.
type CSV struct {
	path  string
	comma rune
}

// NewCSV creates a source for the file at path with the given delimiter.
// A zero delimiter means comma.
func NewCSV(path string, comma rune) *CSV {
	if comma == 0 {
		comma = ','
	}
	return &CSV{path: path, comma: comma}
}

// Name implements Source.
func (c *CSV) Name() string {
	return filepath.Base(c.path)
}

// Rows implements Source.
func (c *CSV) Rows(ctx context.Context) ([]fields.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.ErrCanceled
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, errors.WrapIO("open", c.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = c.comma
	reader.FieldsPerRecord = -1 // exports are ragged more often than not
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", c.path, err)
	}

	return tabulate(records), nil
}
