package sources

import (
	"context"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/fields"
	"github.com/unitbook/unitbook/pkg/logging"
)

// Excel reads every sheet of an .xlsx workbook. The first non-empty row of
// each sheet is its header row; sheets without one contribute nothing.
type Excel struct {
	path string
}

// NewExcel creates a source for the workbook at path.
func NewExcel(path string) *Excel {
	return &Excel{path: path}
}

// Name implements Source.
func (e *Excel) Name() string {
	return filepath.Base(e.path)
}

// Rows implements Source.
func (e *Excel) Rows(ctx context.Context) ([]fields.Row, error) {
	logger := logging.FromContext(ctx)

	f, err := excelize.OpenFile(e.path)
	if err != nil {
		return nil, errors.WrapParse("xlsx", e.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn().Err(cerr).Str("file", e.path).Msg("Failed to close workbook")
		}
	}()

	var all []fields.Row
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, errors.ErrCanceled
		}

		cells, err := f.GetRows(sheet)
		if err != nil {
			return nil, errors.WrapParse("xlsx", e.path, err)
		}

		rows := tabulate(cells)
		logger.Debug().
			Str("file", e.Name()).
			Str("sheet", sheet).
			Int("rows", len(rows)).
			Msg("Read sheet")
		all = append(all, rows...)
	}

	return all, nil
}

// tabulate turns a sheet's cell grid into labelled rows: the first non-empty
// line becomes the header, every following line a data row.
func tabulate(cells [][]string) []fields.Row {
	var headers []string
	var rows []fields.Row

	for _, line := range cells {
		if headers == nil {
			if !blankLine(line) {
				headers = line
			}
			continue
		}

		row := fields.NewRow(headers, line)
		if row.Empty() {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

func blankLine(line []string) bool {
	for _, cell := range line {
		if cell != "" {
			return false
		}
	}
	return true
}
