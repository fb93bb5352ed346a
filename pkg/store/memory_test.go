package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/units"
)

func f64(v float64) *float64 { return &v }

func seedMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	ctx := context.Background()

	records := []units.Unit{
		{
			BuildingName: "Marina Heights", UnitNumber: "101",
			AreaSqft: f64(1200), Price: f64(1500000), Beds: f64(2),
			PropertyType: "Apartment", SubType: "Flat",
			City: "Dubai", Community: "Dubai Marina",
			Owners: []units.Owner{{
				OwnerName: "J. Doe", Role: "Owner",
				RegistrationDate: "2023-01-01",
				Contacts:         []string{"+971501234567"},
			}},
		},
		{
			BuildingName: "Marina Heights", UnitNumber: "102",
			AreaSqft: f64(800), Price: f64(900000), Beds: f64(1),
			PropertyType: "Apartment", City: "Dubai", Community: "Dubai Marina",
		},
		{
			BuildingName: "Palm Vista", UnitNumber: "7",
			AreaSqft: f64(4100), Price: nil, Beds: f64(5),
			PropertyType: "Villa", City: "Dubai", Community: "Palm Jumeirah",
		},
	}
	for i := range records {
		require.NoError(t, m.Insert(ctx, &records[i]))
	}
	return m
}

func TestInsertDuplicateKey(t *testing.T) {
	m := seedMemory(t)
	dup := units.Unit{BuildingName: "Marina Heights", UnitNumber: "101"}
	assert.ErrorIs(t, m.Insert(context.Background(), &dup), errors.ErrAlreadyExists)
}

func TestSeedProjectsKeyAndOwners(t *testing.T) {
	m := seedMemory(t)

	projections, err := m.Seed(context.Background())
	require.NoError(t, err)
	require.Len(t, projections, 3)

	first := projections[0]
	assert.Equal(t, units.Key{Building: "Marina Heights", UnitNumber: "101"}, first.Key())
	require.Len(t, first.Owners, 1)
	assert.Equal(t, "J. Doe", first.Owners[0].OwnerName)
}

func TestSetFieldsPartialUpdate(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()
	key := units.Key{Building: "Marina Heights", UnitNumber: "102"}

	require.NoError(t, m.SetFields(ctx, key, map[string]any{
		units.FieldPrice:   950000.0,
		units.FieldSubType: "Studio",
	}))

	u, ok := m.Get(key)
	require.True(t, ok)
	assert.Equal(t, 950000.0, *u.Price)
	assert.Equal(t, "Studio", u.SubType)
	// Untouched fields survive.
	assert.Equal(t, 800.0, *u.AreaSqft)
	assert.Equal(t, "Dubai", u.City)
}

func TestSetFieldsUnknownKey(t *testing.T) {
	m := seedMemory(t)
	err := m.SetFields(context.Background(), units.Key{Building: "X", UnitNumber: "1"}, map[string]any{units.FieldCity: "Dubai"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestAppendOwnerAndMergeContacts(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()
	key := units.Key{Building: "Marina Heights", UnitNumber: "101"}

	require.NoError(t, m.AppendOwner(ctx, key, units.Owner{
		OwnerName: "A. Smith", Role: "Buyer", RegistrationDate: "2024-03-01",
		Contacts: []string{"+971509999999"},
	}))

	require.NoError(t, m.MergeContacts(ctx, key, "J. Doe", "Owner", "2023-01-01",
		[]string{"+971501234567", "+971508888888"}))

	u, _ := m.Get(key)
	require.Len(t, u.Owners, 2)
	assert.Equal(t, []string{"+971501234567", "+971508888888"}, u.Owners[0].Contacts)
}

func TestMergeContactsUnknownOwner(t *testing.T) {
	m := seedMemory(t)
	key := units.Key{Building: "Marina Heights", UnitNumber: "101"}
	err := m.MergeContacts(context.Background(), key, "J. Doe", "Owner", "2099-01-01", []string{"+971501111111"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestFindSearchText(t *testing.T) {
	m := seedMemory(t)

	results, total, err := m.Find(context.Background(), Query{Search: "marina"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, results, 2)

	// Owner name and contact substrings match too.
	_, total, err = m.Find(context.Background(), Query{Search: "doe"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = m.Find(context.Background(), Query{Search: "50123"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestFindFiltersAndRanges(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	_, total, err := m.Find(ctx, Query{PropertyType: "Villa"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = m.Find(ctx, Query{Beds: f64(2)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = m.Find(ctx, Query{MinArea: f64(1000), MaxArea: f64(2000)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// Range filters exclude records with unknown values.
	_, total, err = m.Find(ctx, Query{MinPrice: f64(1)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestFindSortAndPagination(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	// Default sort: area descending.
	results, _, err := m.Find(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Palm Vista", results[0].BuildingName)

	results, total, err := m.Find(ctx, Query{SortBy: units.FieldAreaSqft, Order: SortAsc, Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, results, 2)
	assert.Equal(t, "102", results[0].UnitNumber)

	results, _, err = m.Find(ctx, Query{SortBy: units.FieldAreaSqft, Order: SortAsc, Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Palm Vista", results[0].BuildingName)

	results, _, err = m.Find(ctx, Query{Page: 99})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDistinct(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	values, err := m.Distinct(ctx, units.FieldPropertyType)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apartment", "Villa"}, values)

	// Whole-number beds render without a decimal part; empties are dropped.
	beds, err := m.Distinct(ctx, units.FieldBeds)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2", "5"}, beds)

	subTypes, err := m.Distinct(ctx, units.FieldSubType)
	require.NoError(t, err)
	assert.Equal(t, []string{"Flat"}, subTypes)

	_, err = m.Distinct(ctx, "price_raw")
	assert.Error(t, err)
}
