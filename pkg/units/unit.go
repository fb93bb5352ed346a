// Package units defines the unitbook data model: the Unit Record stored per
// physical property unit and the Owner Entries attached to it. The types carry
// the store's field names so every layer (importer, store, CLI) agrees on one
// vocabulary.
package units

// Store field names for unit attributes. Shared by the reconciler's partial
// updates and the store implementations.
const (
	FieldBuildingName          = "building_name"
	FieldUnitNumber            = "unit_number"
	FieldAreaSqft              = "area_sqft"
	FieldPrice                 = "price"
	FieldPriceRaw              = "price_raw"
	FieldPropertyType          = "property_type"
	FieldSubType               = "sub_type"
	FieldBeds                  = "beds"
	FieldCity                  = "city"
	FieldCommunity             = "community"
	FieldSubCommunity          = "sub_community"
	FieldMunicipalityNumber    = "municipality_number"
	FieldMunicipalitySubNumber = "municipality_sub_number"
	FieldOwners                = "owners"
)

// Unit is the canonical stored representation of one property unit.
// Identity is (BuildingName, UnitNumber); everything else is attribute data
// refreshed by later imports, never erased by them. Owners is append/merge
// only, in chronological import order.
type Unit struct {
	BuildingName          string   `bson:"building_name" json:"building_name"`
	UnitNumber            string   `bson:"unit_number" json:"unit_number"`
	AreaSqft              *float64 `bson:"area_sqft" json:"area_sqft"`
	Price                 *float64 `bson:"price" json:"price"`
	PriceRaw              string   `bson:"price_raw,omitempty" json:"price_raw,omitempty"`
	PropertyType          string   `bson:"property_type,omitempty" json:"property_type,omitempty"`
	SubType               string   `bson:"sub_type,omitempty" json:"sub_type,omitempty"`
	Beds                  *float64 `bson:"beds" json:"beds"`
	City                  string   `bson:"city,omitempty" json:"city,omitempty"`
	Community             string   `bson:"community,omitempty" json:"community,omitempty"`
	SubCommunity          string   `bson:"sub_community,omitempty" json:"sub_community,omitempty"`
	MunicipalityNumber    string   `bson:"municipality_number,omitempty" json:"municipality_number,omitempty"`
	MunicipalitySubNumber string   `bson:"municipality_sub_number,omitempty" json:"municipality_sub_number,omitempty"`
	Owners                []Owner  `bson:"owners" json:"owners"`
}

// Key returns the unit's identity key.
func (u *Unit) Key() Key {
	return Key{Building: u.BuildingName, UnitNumber: u.UnitNumber}
}

// Patch returns the set of attribute fields that carry a known value, keyed by
// store field name. Nil numerics and empty strings are excluded, so applying a
// patch never clobbers known data with unknown data.
func (u *Unit) Patch() map[string]any {
	patch := make(map[string]any)

	setNum := func(field string, v *float64) {
		if v != nil {
			patch[field] = *v
		}
	}
	setStr := func(field, v string) {
		if v != "" {
			patch[field] = v
		}
	}

	setNum(FieldAreaSqft, u.AreaSqft)
	setNum(FieldPrice, u.Price)
	setNum(FieldBeds, u.Beds)
	setStr(FieldPriceRaw, u.PriceRaw)
	setStr(FieldPropertyType, u.PropertyType)
	setStr(FieldSubType, u.SubType)
	setStr(FieldCity, u.City)
	setStr(FieldCommunity, u.Community)
	setStr(FieldSubCommunity, u.SubCommunity)
	setStr(FieldMunicipalityNumber, u.MunicipalityNumber)
	setStr(FieldMunicipalitySubNumber, u.MunicipalitySubNumber)

	return patch
}

// Projection is the slice of a Unit the reconciler mirrors in memory: identity
// plus owners. Attribute fields stay in the store to bound memory on large
// collections.
type Projection struct {
	BuildingName string  `bson:"building_name" json:"building_name"`
	UnitNumber   string  `bson:"unit_number" json:"unit_number"`
	Owners       []Owner `bson:"owners" json:"owners"`
}

// Key returns the projection's identity key.
func (p *Projection) Key() Key {
	return Key{Building: p.BuildingName, UnitNumber: p.UnitNumber}
}
