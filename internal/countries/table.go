package countries

import (
	"slices"
	"strings"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

// Resolver translates a display name into an ISO3 code.
type Resolver interface {
	Lookup(name string) (code string, ok bool)
}

// Table is an immutable country reference table. It implements Resolver.
type Table struct {
	countries []domain.Country
	byName    map[string]int
	byCode    map[string]int
}

var _ Resolver = (*Table)(nil)

// NewTable indexes countries by normalized name and by ISO3 code.
// Later duplicates of a name or code are ignored.
func NewTable(countries []domain.Country) (*Table, error) {
	t := &Table{
		countries: make([]domain.Country, 0, len(countries)),
		byName:    make(map[string]int, len(countries)),
		byCode:    make(map[string]int, len(countries)),
	}

	for _, c := range countries {
		c.Name = strings.TrimSpace(c.Name)
		c.Alpha2 = strings.ToUpper(strings.TrimSpace(c.Alpha2))
		c.ISO3 = strings.ToUpper(strings.TrimSpace(c.ISO3))

		if c.Name == "" || !LooksLikeCode(c.ISO3) {
			return nil, errors.MalformedInputf("invalid country entry %q/%q", c.Name, c.ISO3)
		}

		key := NormalizeName(c.Name)
		if _, dup := t.byName[key]; dup {
			continue
		}
		if _, dup := t.byCode[c.ISO3]; dup {
			continue
		}

		t.byName[key] = len(t.countries)
		t.byCode[c.ISO3] = len(t.countries)
		t.countries = append(t.countries, c)
	}

	if len(t.countries) == 0 {
		return nil, errors.MalformedInput("country table is empty")
	}
	return t, nil
}

// Lookup returns the ISO3 code for a display name. Matching ignores case, accents and punctuation.
func (t *Table) Lookup(name string) (string, bool) {
	i, ok := t.byName[NormalizeName(name)]
	if !ok {
		return "", false
	}
	return t.countries[i].ISO3, true
}

// ByCode returns the country with the given ISO3 code.
func (t *Table) ByCode(code string) (domain.Country, bool) {
	i, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return domain.Country{}, false
	}
	return t.countries[i], true
}

// Name returns the display name for a code, or the code itself when it is not in the table.
func (t *Table) Name(code string) string {
	if c, ok := t.ByCode(code); ok {
		return c.Name
	}
	return code
}

// Countries returns all entries sorted by name.
func (t *Table) Countries() []domain.Country {
	out := slices.Clone(t.countries)
	slices.SortFunc(out, func(a, b domain.Country) int {
		return strings.Compare(NormalizeName(a.Name), NormalizeName(b.Name))
	})
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.countries)
}
