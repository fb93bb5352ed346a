package fields

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/unitbook/unitbook/pkg/errors"
)

// Logical field names used by the alias table.
const (
	Building              = "building"
	UnitNumber            = "unit_number"
	Area                  = "area"
	Price                 = "price"
	PropertyType          = "property_type"
	SubType               = "sub_type"
	Beds                  = "beds"
	City                  = "city"
	Community             = "community"
	SubCommunity          = "sub_community"
	MunicipalityNumber    = "municipality_number"
	MunicipalitySubNumber = "municipality_sub_number"
	OwnerName             = "owner_name"
	Role                  = "role"
	RegistrationDate      = "registration_date"
	Contact               = "contact"
)

// Aliases maps each logical field to the header variants seen across export
// vocabularies, in preference order.
type Aliases map[string][]string

// DefaultAliases returns the built-in alias table covering the known export
// header vocabularies.
func DefaultAliases() Aliases {
	return Aliases{
		Building: {
			"Building", "Building Name", "BuildingName", "BuildingNameEn",
			"Tower", "Tower Name", "Building (EN)",
		},
		UnitNumber: {
			"Unit No", "Unit no", "Unit Number", "UnitNumber", "Unit_No",
			"Unit-No", "Unit#", "Unit #", "Unit", "unitno", "unitno.",
		},
		Area:  {"Unit Size", "Size", "Area", "Area (sqft)", "Built-up Area"},
		Price: {"Price", "ProcedureValue", "Procedure Val", "ProcedureVal", "Value"},

		PropertyType: {"Property Type", "PropertyType", "PropertyTypeEn"},
		SubType:      {"Sub Type", "SubType", "SubTypeNameEn"},
		Beds:         {"Beds", "Bed", "Bedrooms"},

		City:         {"City"},
		Community:    {"Community", "Project Lnd", "Project"},
		SubCommunity: {"Sub Community", "Sub-Community", "SubCommunity"},

		MunicipalityNumber:    {"Mun No", "Municipality No", "Municipality Number"},
		MunicipalitySubNumber: {"Mun Sub No", "Municipality Sub No", "Municipality Sub Number"},

		OwnerName:        {"Name", "NameEn", "Owner Name"},
		Role:             {"Role", "Owner Type", "ProcedurePartyTypeNameEn"},
		RegistrationDate: {"Regis", "Registration Date", "Reg Date"},
		Contact:          {"Contact", "Phone", "Mobile", "Whatsapp", "Tel"},
	}
}

// Candidates returns the header variants for a logical field.
func (a Aliases) Candidates(field string) []string {
	return a[field]
}

// Merge overlays other onto a: fields present in other replace the defaults,
// fields absent in other are kept.
func (a Aliases) Merge(other Aliases) Aliases {
	merged := make(Aliases, len(a)+len(other))
	for field, names := range a {
		merged[field] = names
	}
	for field, names := range other {
		merged[field] = names
	}
	return merged
}

// LoadAliases reads a YAML alias table (logical field → header list) and
// overlays it on the built-in defaults. Fields not named in the file keep
// their default variants.
func LoadAliases(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var overrides Aliases
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	return DefaultAliases().Merge(overrides), nil
}
