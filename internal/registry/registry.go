// Package registry holds the canonical list of reporting countries.
//
// Membership is static configuration, not inferred from data: the WHO AFRO
// membership is fixed at 47 countries regardless of what labels appear in
// source files. Labels that resolve to nothing are the caller's problem to
// reject; the registry itself stays pure.
package registry

import (
	"sort"
	"strings"

	"rdhub/pkg/domain"
)

// Country is one entry in the fixed reporting set.
type Country struct {
	ID     domain.CountryID `json:"id"`
	Name   string           `json:"name"` // canonical display name
	ISO3   string           `json:"iso3"`
	Member bool             `json:"member"` // only members participate in aggregation
}

// Registry resolves raw country labels to canonical IDs.
type Registry struct {
	byID        map[domain.CountryID]Country
	byCanonical map[string]domain.CountryID
	byAlias     map[string]domain.CountryID
	members     []Country
}

// New builds the registry from the static AFRO table. The alias table is
// validated at construction: an alias mapping to two countries is a
// programmer error and panics before the process serves anything.
func New() *Registry {
	r := &Registry{
		byID:        make(map[domain.CountryID]Country, len(countries)),
		byCanonical: make(map[string]domain.CountryID, len(countries)),
		byAlias:     make(map[string]domain.CountryID),
	}

	for _, c := range countries {
		if _, dup := r.byID[c.ID]; dup {
			panic("registry: duplicate country id " + string(c.ID))
		}
		r.byID[c.ID] = c
		r.byCanonical[c.Name] = c.ID
		r.addAlias(c.Name, c.ID)
		r.addAlias(c.ISO3, c.ID)
		if c.Member {
			r.members = append(r.members, c)
		}
	}
	for raw, id := range aliases {
		if _, ok := r.byID[id]; !ok {
			panic("registry: alias " + raw + " maps to unknown country " + string(id))
		}
		r.addAlias(raw, id)
	}

	sort.Slice(r.members, func(i, j int) bool { return r.members[i].Name < r.members[j].Name })
	return r
}

func (r *Registry) addAlias(raw string, id domain.CountryID) {
	key := normalize(raw)
	if existing, ok := r.byAlias[key]; ok && existing != id {
		panic("registry: alias " + raw + " is ambiguous")
	}
	r.byAlias[key] = id
}

// Resolve maps a raw label to a canonical country ID.
// Resolution order: exact canonical name, then the alias table (which also
// covers ISO3 codes), case- and whitespace-insensitive.
func (r *Registry) Resolve(raw string) (domain.CountryID, bool) {
	if id, ok := r.byCanonical[raw]; ok {
		return id, true
	}
	id, ok := r.byAlias[normalize(raw)]
	return id, ok
}

// Lookup returns the country for an ID.
func (r *Registry) Lookup(id domain.CountryID) (Country, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// IsMember reports whether the ID belongs to the fixed membership set.
func (r *Registry) IsMember(id domain.CountryID) bool {
	c, ok := r.byID[id]
	return ok && c.Member
}

// Members returns the membership set sorted by canonical name.
func (r *Registry) Members() []Country {
	out := make([]Country, len(r.members))
	copy(out, r.members)
	return out
}

// Size returns the number of member countries.
func (r *Registry) Size() int { return len(r.members) }

func normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), " ")
}
