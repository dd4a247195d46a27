package domain

import "strings"

// NotReported is the explicit category for records with no value for a dimension.
const NotReported = "Not Reported"

// Dimension identifies one of the categorical columns a breakdown can be grouped by.
type Dimension string

// Dimension constants, in display order.
const (
	DimensionStatus           Dimension = "status"
	DimensionGoverningBody    Dimension = "governing_body"
	DimensionOwnerType        Dimension = "owner_type"
	DimensionIUCNCategory     Dimension = "iucn_category"
	DimensionVerificationType Dimension = "verification_type"
	DimensionParentCountry    Dimension = "parent_country"
)

type dimensionDef struct {
	label  string
	column string
	value  func(AreaRecord) string
}

//nolint:gochecknoglobals // Static dimension table
var dimensionDefs = map[Dimension]dimensionDef{
	DimensionStatus: {
		label:  "Protection status",
		column: "STATUS",
		value:  func(r AreaRecord) string { return r.Status },
	},
	DimensionGoverningBody: {
		label:  "Governance type",
		column: "GOV_TYPE",
		value:  func(r AreaRecord) string { return r.GoverningBody },
	},
	DimensionOwnerType: {
		label:  "Ownership type",
		column: "OWN_TYPE",
		value:  func(r AreaRecord) string { return r.OwnerType },
	},
	DimensionIUCNCategory: {
		label:  "IUCN category",
		column: "IUCN_CAT",
		value:  func(r AreaRecord) string { return r.IUCNCategory },
	},
	DimensionVerificationType: {
		label:  "Verification",
		column: "VERIF",
		value:  func(r AreaRecord) string { return r.VerificationType },
	},
	DimensionParentCountry: {
		label:  "Parent country",
		column: "PARENT_ISO3",
		value:  func(r AreaRecord) string { return r.ParentCountryCode },
	},
}

// AllDimensions returns every dimension in display order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionStatus,
		DimensionGoverningBody,
		DimensionOwnerType,
		DimensionIUCNCategory,
		DimensionVerificationType,
		DimensionParentCountry,
	}
}

// ParseDimension converts an API name to a Dimension.
func ParseDimension(s string) (Dimension, bool) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

// Valid returns true if the dimension is a recognized value.
func (d Dimension) Valid() bool {
	_, ok := dimensionDefs[d]
	return ok
}

// Label returns the human-readable column heading.
func (d Dimension) Label() string {
	return dimensionDefs[d].label
}

// Column returns the WDPA column the dimension is read from.
func (d Dimension) Column() string {
	return dimensionDefs[d].column
}

// Value returns the record's category for this dimension.
// Missing values are reported as NotReported, never as an empty string.
func (d Dimension) Value(r AreaRecord) string {
	def, ok := dimensionDefs[d]
	if !ok {
		return NotReported
	}
	return NormalizeCategory(def.value(r))
}

// NormalizeCategory trims a raw category value and maps empty or textual null values to NotReported.
func NormalizeCategory(raw string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "na", "n/a", "null", "nan", strings.ToLower(NotReported):
		return NotReported
	}
	return s
}
