package reconciler

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/fields"
	"github.com/unitbook/unitbook/pkg/sources"
	"github.com/unitbook/unitbook/pkg/store"
	"github.com/unitbook/unitbook/pkg/units"
)

// rowSource is an in-memory Source for engine tests.
type rowSource struct {
	name string
	rows []fields.Row
}

func (s rowSource) Name() string { return s.name }

func (s rowSource) Rows(context.Context) ([]fields.Row, error) { return s.rows, nil }

var testHeaders = []string{
	"Building", "Unit No", "Unit Size", "Price", "Property Type",
	"Beds", "City", "Community", "Name", "Role", "Registration Date", "Contact",
}

func row(cells ...string) fields.Row {
	return fields.NewRow(testHeaders, cells)
}

func runRows(t *testing.T, m *store.Memory, rows []fields.Row, opts ...Option) *Result {
	t.Helper()
	r, err := New(m, opts...)
	require.NoError(t, err)

	result, err := r.Run(context.Background(), rowSource{name: "test.xlsx", rows: rows})
	require.NoError(t, err)
	return result
}

func marinaKey() units.Key {
	return units.Key{Building: "Marina Heights", UnitNumber: "101"}
}

func TestRunInsertsNewRecord(t *testing.T) {
	m := store.NewMemory()
	result := runRows(t, m, []fields.Row{
		row("Marina Heights", "101", "1,200 sqft", "AED 1,500,000", "Apartment",
			"2", "Dubai", "Dubai Marina", "J. Doe", "Owner", "21-10-2023", "0501234567"),
	})

	assert.Equal(t, 1, result.RowsRead)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 0, result.Updated)

	u, ok := m.Get(marinaKey())
	require.True(t, ok)
	assert.Equal(t, 1200.0, *u.AreaSqft)
	assert.Equal(t, 1500000.0, *u.Price)
	assert.Equal(t, "AED 1,500,000", u.PriceRaw)
	assert.Equal(t, 2.0, *u.Beds)
	require.Len(t, u.Owners, 1)
	assert.Equal(t, "2023-10-21", u.Owners[0].RegistrationDate)
	assert.Equal(t, []string{"+971501234567"}, u.Owners[0].Contacts)
}

func TestRunMergesContactsForSameEntry(t *testing.T) {
	// A second row carrying the same entry key but extra numbers merges
	// contacts without appending a new owner entry.
	m := store.NewMemory()
	result := runRows(t, m, []fields.Row{
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", "0501234567"),
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", "+971501234567, 971509999999"),
	})

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.ContactsMerged)
	assert.Equal(t, 0, result.OwnersNew)

	u, _ := m.Get(marinaKey())
	require.Len(t, u.Owners, 1)
	assert.Equal(t, []string{"+971501234567", "971509999999"}, u.Owners[0].Contacts)
}

func TestRunAppendsEntryForNewDate(t *testing.T) {
	m := store.NewMemory()
	result := runRows(t, m, []fields.Row{
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2022-05-01", ""),
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", ""),
	})

	assert.Equal(t, 1, result.OwnersNewDate)

	u, _ := m.Get(marinaKey())
	require.Len(t, u.Owners, 2)
	assert.Equal(t, "2022-05-01", u.Owners[0].RegistrationDate)
	assert.Equal(t, "2023-01-01", u.Owners[1].RegistrationDate)
}

func TestRunAppendsNewOwner(t *testing.T) {
	m := store.NewMemory()
	result := runRows(t, m, []fields.Row{
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", ""),
		row("Marina Heights", "101", "", "", "", "", "", "", "A. Smith", "Buyer", "2023-01-01", ""),
	})

	assert.Equal(t, 1, result.OwnersNew)

	u, _ := m.Get(marinaKey())
	assert.Len(t, u.Owners, 2)
}

func TestRunNeverClobbersKnownData(t *testing.T) {
	m := store.NewMemory()
	runRows(t, m, []fields.Row{
		row("Marina Heights", "101", "1200", "1500000", "Apartment", "2", "Dubai", "Dubai Marina", "J. Doe", "Owner", "2023-01-01", ""),
		// Same key, empty city/area: must not erase what is known.
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", ""),
	})

	u, _ := m.Get(marinaKey())
	assert.Equal(t, "Dubai", u.City)
	assert.Equal(t, 1200.0, *u.AreaSqft)

	// A later row with a known value still refreshes the field.
	runRows(t, m, []fields.Row{
		row("Marina Heights", "101", "1250", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", ""),
	})
	u, _ = m.Get(marinaKey())
	assert.Equal(t, 1250.0, *u.AreaSqft)
}

func TestRunSkipsRowsMissingIdentifiers(t *testing.T) {
	m := store.NewMemory()
	result := runRows(t, m, []fields.Row{
		row("", "101", "", "", "", "", "", "", "J. Doe", "Owner", "", ""),
		row("Marina Heights", "", "", "", "", "", "", "", "J. Doe", "Owner", "", ""),
		row("Marina Heights", "101", "", "", "", "", "", "", "", "Owner", "", ""),
	})

	assert.Equal(t, 3, result.RowsRead)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, m.Len())
}

func TestRunIdempotentReimport(t *testing.T) {
	rows := []fields.Row{
		row("Marina Heights", "101", "1200", "1500000", "Apartment", "2", "Dubai", "Dubai Marina", "J. Doe", "Owner", "2023-01-01", "0501234567; 0509999999"),
		row("Marina Heights", "101", "", "", "", "", "", "", "A. Smith", "Buyer", "2023-02-01", "0502222222"),
		row("Palm Vista", "7", "4100", "", "Villa", "5", "Dubai", "Palm Jumeirah", "K. Lee", "Owner", "", ""),
	}

	m := store.NewMemory()
	runRows(t, m, rows)
	first := stateOf(m)

	second := runRows(t, m, rows)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 3, second.Updated)
	assert.Equal(t, 0, second.ContactsMerged)
	assert.Equal(t, 0, second.OwnersNewDate)
	assert.Equal(t, 0, second.OwnersNew)

	if diff := cmp.Diff(first, stateOf(m)); diff != "" {
		t.Errorf("re-import changed store state (-first +second):\n%s", diff)
	}
}

func TestRunHeaderVariants(t *testing.T) {
	// A second export with a different header vocabulary lands on the same
	// records.
	m := store.NewMemory()
	runRows(t, m, []fields.Row{
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", ""),
	})

	variantHeaders := []string{"Tower Name", "UnitNumber", "NameEn", "ProcedurePartyTypeNameEn", "Reg Date", "Mobile"}
	result := runRows(t, m, []fields.Row{
		fields.NewRow(variantHeaders, []string{"Marina Heights", "101", "J. Doe", "Owner", "01-01-2023", "0501234567"}),
	})

	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.ContactsMerged)

	u, _ := m.Get(marinaKey())
	require.Len(t, u.Owners, 1)
	assert.Equal(t, []string{"+971501234567"}, u.Owners[0].Contacts)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	m := store.NewMemory()
	result := runRows(t, m, []fields.Row{
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", "0501234567"),
		row("Marina Heights", "101", "", "", "", "", "", "", "A. Smith", "Buyer", "2023-01-01", ""),
	}, WithDryRun(true))

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.OwnersNew)
	assert.Equal(t, 0, m.Len())
}

func TestRunMultiSourceConcatenation(t *testing.T) {
	m := store.NewMemory()
	r, err := New(m)
	require.NoError(t, err)

	a := rowSource{name: "a.xlsx", rows: []fields.Row{
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", "0501234567"),
	}}
	b := rowSource{name: "b.xlsx", rows: []fields.Row{
		row("Marina Heights", "101", "", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", "0509999999"),
	}}

	result, err := r.Run(context.Background(), sources.NewMulti(a, b))
	require.NoError(t, err)

	// The second workbook's row sees the first one's insert through the
	// in-memory mirror.
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.ContactsMerged)

	u, _ := m.Get(marinaKey())
	require.Len(t, u.Owners, 1)
	assert.Equal(t, []string{"+971501234567", "+971509999999"}, u.Owners[0].Contacts)
}

// failingStore delegates to Memory until insertAfter inserts have happened,
// then reports the store as unreachable.
type failingStore struct {
	*store.Memory
	insertAfter int
	inserts     int
}

func (s *failingStore) Insert(ctx context.Context, u *units.Unit) error {
	s.inserts++
	if s.inserts > s.insertAfter {
		return errors.WrapStore("insert", u.Key().String(), errors.ErrStoreUnavailable)
	}
	return s.Memory.Insert(ctx, u)
}

func TestRunAbortsOnStoreFailure(t *testing.T) {
	m := store.NewMemory()
	st := &failingStore{Memory: m, insertAfter: 1}
	r, err := New(st)
	require.NoError(t, err)

	rows := []fields.Row{
		row("Marina Heights", "101", "1200", "", "", "", "", "", "J. Doe", "Owner", "2023-01-01", ""),
		row("Palm Vista", "7", "", "", "", "", "", "", "K. Lee", "Owner", "", ""),
		row("Marina Heights", "102", "", "", "", "", "", "", "A. Smith", "Owner", "", ""),
	}
	result, err := r.Run(context.Background(), rowSource{name: "test.xlsx", rows: rows})
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))

	// Progress committed before the fault stays committed and is reported;
	// the row that hit the fault and everything after it were not applied.
	assert.Equal(t, 2, result.RowsRead)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, m.Len())
	_, ok := m.Get(marinaKey())
	assert.True(t, ok)
}

func TestResultSummary(t *testing.T) {
	result := NewResult("run-1", "test.xlsx", false)
	result.RowsRead = 10
	result.Inserted = 3
	result.Updated = 5
	result.Skipped = 2
	result.ContactsMerged = 1
	result.Finalize()

	summary := result.Summary()
	assert.Contains(t, summary, "Import Summary")
	assert.Contains(t, summary, "Total rows read: 10")
	assert.Contains(t, summary, "Records inserted: 3")
	assert.Contains(t, summary, "Owners merged (contacts only): 1")

	dry := NewResult("run-2", "test.xlsx", true)
	assert.Contains(t, dry.Summary(), "dry run")
}

func TestWithAliasesValidation(t *testing.T) {
	_, err := New(store.NewMemory(), WithAliases(nil))
	assert.Error(t, err)
}

// stateOf captures the full store state keyed by unit identity.
func stateOf(m *store.Memory) map[string]units.Unit {
	state := make(map[string]units.Unit)
	seeds, _ := m.Seed(context.Background())
	for _, p := range seeds {
		u, _ := m.Get(p.Key())
		state[p.Key().String()] = u
	}
	return state
}
