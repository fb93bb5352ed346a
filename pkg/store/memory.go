package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/units"
)

// Memory is an in-process Store. It backs tests and dry runs, and documents
// the query semantics the persistent implementation must match.
type Memory struct {
	mu    sync.RWMutex
	byKey map[units.Key]*units.Unit
	order []units.Key // insertion order, for stable iteration
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byKey: make(map[units.Key]*units.Unit)}
}

// EnsureIndexes implements Store. The in-memory store needs none.
func (m *Memory) EnsureIndexes(context.Context) error { return nil }

// Seed implements Store.
func (m *Memory) Seed(context.Context) ([]units.Projection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projections := make([]units.Projection, 0, len(m.order))
	for _, key := range m.order {
		u := m.byKey[key]
		owners := make([]units.Owner, len(u.Owners))
		copy(owners, u.Owners)
		projections = append(projections, units.Projection{
			BuildingName: u.BuildingName,
			UnitNumber:   u.UnitNumber,
			Owners:       owners,
		})
	}
	return projections, nil
}

// Insert implements Store.
func (m *Memory) Insert(_ context.Context, unit *units.Unit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := unit.Key()
	if _, exists := m.byKey[key]; exists {
		return errors.ErrAlreadyExists
	}

	clone := *unit
	clone.Owners = make([]units.Owner, len(unit.Owners))
	copy(clone.Owners, unit.Owners)
	m.byKey[key] = &clone
	m.order = append(m.order, key)
	return nil
}

// SetFields implements Store.
func (m *Memory) SetFields(_ context.Context, key units.Key, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byKey[key]
	if !ok {
		return errors.ErrNotFound
	}

	for field, value := range patch {
		switch field {
		case units.FieldAreaSqft:
			v := value.(float64)
			u.AreaSqft = &v
		case units.FieldPrice:
			v := value.(float64)
			u.Price = &v
		case units.FieldBeds:
			v := value.(float64)
			u.Beds = &v
		case units.FieldPriceRaw:
			u.PriceRaw = value.(string)
		case units.FieldPropertyType:
			u.PropertyType = value.(string)
		case units.FieldSubType:
			u.SubType = value.(string)
		case units.FieldCity:
			u.City = value.(string)
		case units.FieldCommunity:
			u.Community = value.(string)
		case units.FieldSubCommunity:
			u.SubCommunity = value.(string)
		case units.FieldMunicipalityNumber:
			u.MunicipalityNumber = value.(string)
		case units.FieldMunicipalitySubNumber:
			u.MunicipalitySubNumber = value.(string)
		default:
			return errors.NewValidationError(field, value, "unknown attribute field")
		}
	}
	return nil
}

// AppendOwner implements Store.
func (m *Memory) AppendOwner(_ context.Context, key units.Key, owner units.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byKey[key]
	if !ok {
		return errors.ErrNotFound
	}
	u.Owners = append(u.Owners, owner)
	return nil
}

// MergeContacts implements Store.
func (m *Memory) MergeContacts(_ context.Context, key units.Key, name, role, date string, numbers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byKey[key]
	if !ok {
		return errors.ErrNotFound
	}

	idx := units.FindOwner(u.Owners, name, role, date)
	if idx < 0 {
		return errors.ErrNotFound
	}

	missing := u.Owners[idx].MissingContacts(numbers)
	u.Owners[idx].Contacts = append(u.Owners[idx].Contacts, missing...)
	return nil
}

// Find implements Store.
func (m *Memory) Find(_ context.Context, query Query) ([]units.Unit, int64, error) {
	q := query.Normalize()

	m.mu.RLock()
	var matched []units.Unit
	for _, key := range m.order {
		u := m.byKey[key]
		if matches(u, q) {
			matched = append(matched, snapshot(u))
		}
	}
	m.mu.RUnlock()

	sortUnits(matched, q.SortBy, q.Order)

	total := int64(len(matched))
	start := (q.Page - 1) * q.PerPage
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + q.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Distinct implements Store.
func (m *Memory) Distinct(_ context.Context, field string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, u := range m.byKey {
		v, err := fieldValue(u, field)
		if err != nil {
			return nil, err
		}
		if v != "" {
			seen[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// Get returns a copy of the record at key, for tests and dry-run inspection.
func (m *Memory) Get(key units.Key) (units.Unit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byKey[key]
	if !ok {
		return units.Unit{}, false
	}
	return snapshot(u), true
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byKey)
}

func snapshot(u *units.Unit) units.Unit {
	clone := *u
	clone.Owners = make([]units.Owner, len(u.Owners))
	for i, o := range u.Owners {
		clone.Owners[i] = o
		clone.Owners[i].Contacts = append([]string(nil), o.Contacts...)
	}
	return clone
}

func matches(u *units.Unit, q Query) bool {
	if q.Search != "" && !searchMatches(u, q.Search) {
		return false
	}

	if q.PropertyType != "" && u.PropertyType != q.PropertyType {
		return false
	}
	if q.SubType != "" && u.SubType != q.SubType {
		return false
	}
	if q.City != "" && u.City != q.City {
		return false
	}
	if q.MunicipalityNumber != "" && u.MunicipalityNumber != q.MunicipalityNumber {
		return false
	}
	if q.MunicipalitySubNumber != "" && u.MunicipalitySubNumber != q.MunicipalitySubNumber {
		return false
	}
	if q.Beds != nil && (u.Beds == nil || *u.Beds != *q.Beds) {
		return false
	}

	if !inRange(u.AreaSqft, q.MinArea, q.MaxArea) {
		return false
	}
	if !inRange(u.Price, q.MinPrice, q.MaxPrice) {
		return false
	}
	return true
}

func searchMatches(u *units.Unit, search string) bool {
	needle := strings.ToLower(search)
	contains := func(s string) bool {
		return s != "" && strings.Contains(strings.ToLower(s), needle)
	}

	if contains(u.BuildingName) || contains(u.Community) {
		return true
	}
	for _, o := range u.Owners {
		if contains(o.OwnerName) {
			return true
		}
		for _, c := range o.Contacts {
			if contains(c) {
				return true
			}
		}
	}
	return false
}

func inRange(v, min, max *float64) bool {
	if min == nil && max == nil {
		return true
	}
	if v == nil {
		return false
	}
	if min != nil && *v < *min {
		return false
	}
	if max != nil && *v > *max {
		return false
	}
	return true
}

func sortUnits(list []units.Unit, sortBy, order string) {
	less := func(a, b units.Unit) bool {
		switch sortBy {
		case units.FieldPrice:
			return numLess(a.Price, b.Price)
		case units.FieldBuildingName:
			return a.BuildingName < b.BuildingName
		default:
			return numLess(a.AreaSqft, b.AreaSqft)
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		if order == SortAsc {
			return less(list[i], list[j])
		}
		return less(list[j], list[i])
	})
}

// numLess orders nil numerics first so descending sorts push unknown values
// to the end.
func numLess(a, b *float64) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return *a < *b
}

func fieldValue(u *units.Unit, field string) (string, error) {
	switch field {
	case units.FieldBuildingName:
		return u.BuildingName, nil
	case units.FieldPropertyType:
		return u.PropertyType, nil
	case units.FieldSubType:
		return u.SubType, nil
	case units.FieldCity:
		return u.City, nil
	case units.FieldCommunity:
		return u.Community, nil
	case units.FieldSubCommunity:
		return u.SubCommunity, nil
	case units.FieldMunicipalityNumber:
		return u.MunicipalityNumber, nil
	case units.FieldMunicipalitySubNumber:
		return u.MunicipalitySubNumber, nil
	case units.FieldBeds:
		if u.Beds == nil {
			return "", nil
		}
		// 2.0 renders as "2" for dropdowns.
		return strconv.FormatFloat(*u.Beds, 'f', -1, 64), nil
	default:
		return "", errors.NewValidationError("field", field, "not enumerable")
	}
}
