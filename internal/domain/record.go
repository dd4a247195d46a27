// Package domain contains the core types shared by the loaders, the aggregation pipeline and the API.
package domain

import "strings"

// CountryKeySeparator joins the codes of an area shared by several countries ("FRA;ITA").
// Such keys are kept whole and never split across countries.
const CountryKeySeparator = ";"

// CanonicalCountryKey uppercases a country key and trims each separated code.
// "fra; ita " -> "FRA;ITA".
func CanonicalCountryKey(s string) string {
	parts := strings.Split(strings.ToUpper(s), CountryKeySeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, CountryKeySeparator)
}

// AreaRecord is one protected area (or one intersected area entry) within a country.
// Records are immutable once loaded.
type AreaRecord struct {
	CountryCode string  `json:"country_code"`
	AreaSqKm    float64 `json:"area_sq_km"`

	Status            string `json:"status"`
	GoverningBody     string `json:"governing_body"`
	OwnerType         string `json:"owner_type"`
	IUCNCategory      string `json:"iucn_category"`
	VerificationType  string `json:"verification_type"`
	ParentCountryCode string `json:"parent_country_code"`
}

// Country is an entry of the country-name reference table.
type Country struct {
	Name   string `json:"name"`
	Alpha2 string `json:"alpha2,omitempty"`
	ISO3   string `json:"iso3"`
}
