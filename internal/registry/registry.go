// Package registry resolves heterogeneous jurisdiction tokens (country
// names, ISO-2/ISO-3 codes) to one country record per canonical identity.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tpdash/tprules/internal/domain"
	"github.com/tpdash/tprules/internal/tabular"
)

// Lookup maps jurisdiction tokens to canonical identity and region. It is
// built once from the country/region mapping table.
type Lookup struct {
	regionByToken map[string]string // lowercased name or code -> region
	nameByCode    map[string]string // uppercased ISO code -> canonical name
	iso2ByName    map[string]string // lowercased canonical name -> ISO-2 code
	knownNames    map[string]struct{}
}

// BuildLookup reads the country/region mapping table. A Country column is
// mandatory; ISO-3, ISO-2 and Region columns are picked up when present.
func BuildLookup(t *tabular.Table) (*Lookup, error) {
	if t.FindColumn("Country", "Jurisdiction") == "" {
		return nil, fmt.Errorf("country mapping table %q must contain a Country column", t.Name)
	}

	l := &Lookup{
		regionByToken: make(map[string]string),
		nameByCode:    make(map[string]string),
		iso2ByName:    make(map[string]string),
		knownNames:    make(map[string]struct{}),
	}

	for _, r := range t.Rows() {
		name := r.Get("Country", "Jurisdiction")
		if name == "" {
			continue
		}
		code3 := strings.ToUpper(r.Get("Code_3", "Code 3", "Code3", "ISO3", "ISO_3", "ISO-3"))
		iso2 := strings.ToUpper(r.Get("Code (ISO2)", "ISO2", "ISO-2", "ISO 2"))
		region := r.Get("Region")

		key := strings.ToLower(name)
		l.knownNames[key] = struct{}{}
		l.regionByToken[key] = region
		if code3 != "" {
			l.regionByToken[strings.ToLower(code3)] = region
			l.nameByCode[code3] = name
		}
		if iso2 != "" {
			l.regionByToken[strings.ToLower(iso2)] = region
			l.nameByCode[iso2] = name
			l.iso2ByName[key] = iso2
		}
	}
	return l, nil
}

// Canonical resolves a raw token to its canonical country name. Codes
// translate to the mapped name; known names pass through. The second result
// is false when the token is not in the mapping at all.
func (l *Lookup) Canonical(token string) (string, bool) {
	token = tabular.Clean(token)
	if token == "" {
		return "", false
	}
	if name, ok := l.nameByCode[strings.ToUpper(token)]; ok {
		return name, true
	}
	if _, ok := l.knownNames[strings.ToLower(token)]; ok {
		return token, true
	}
	return "", false
}

// Registry is the shared country registry mutated by each category pass.
type Registry struct {
	lookup    *Lookup
	countries map[string]*domain.Country // key: lowercased canonical name
	unmatched map[string]struct{}
	missing   []string // resolved countries with no region mapping
}

// New creates an empty registry over a lookup table.
func New(lookup *Lookup) *Registry {
	return &Registry{
		lookup:    lookup,
		countries: make(map[string]*domain.Country),
		unmatched: make(map[string]struct{}),
	}
}

// Ensure returns the country record owning the given jurisdiction token,
// creating it on first reference. Unresolvable tokens return nil and are
// recorded for diagnostics; the caller skips the row.
func (r *Registry) Ensure(token string) *domain.Country {
	token = tabular.Clean(token)
	if token == "" {
		return nil
	}
	name, ok := r.lookup.Canonical(token)
	if !ok {
		r.unmatched[token] = struct{}{}
		return nil
	}
	key := strings.ToLower(name)
	c, ok := r.countries[key]
	if !ok {
		region := r.lookup.regionByToken[strings.ToLower(token)]
		if region == "" {
			region = r.lookup.regionByToken[key]
		}
		if region == "" {
			r.missing = append(r.missing, name)
		}
		c = domain.NewCountry(name, r.lookup.iso2ByName[key], region)
		r.countries[key] = c
	}
	return c
}

// Find resolves a token to an existing country record without creating one.
func (r *Registry) Find(token string) *domain.Country {
	name, ok := r.lookup.Canonical(token)
	if !ok {
		// Tokens outside the mapping may still name a registry entry
		// directly (a previous pass created it by name).
		name = tabular.Clean(token)
	}
	return r.countries[strings.ToLower(name)]
}

// Countries returns every record ordered by region, then case-insensitive
// name.
func (r *Registry) Countries() []*domain.Country {
	out := make([]*domain.Country, 0, len(r.countries))
	for _, c := range r.countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Unmatched returns the sorted set of tokens no pass could resolve.
func (r *Registry) Unmatched() []string {
	out := make([]string, 0, len(r.unmatched))
	for t := range r.unmatched {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// MissingRegion returns countries created without a region mapping, in
// creation order.
func (r *Registry) MissingRegion() []string { return r.missing }
