// Package catalog defines the canonical indicator set per family.
//
// Resolution is family-scoped: the same raw label may mean different things
// in the mortality and TB sources, so every lookup names its family. The
// alias table is declarative and validated at construction — no runtime
// label patching.
package catalog

import (
	"sort"
	"strings"

	"rdhub/pkg/domain"
)

// Definition describes one canonical indicator.
type Definition struct {
	Code       domain.IndicatorCode `json:"code"`
	Label      string               `json:"label"`
	Unit       string               `json:"unit"`
	Family     domain.Family        `json:"family"`
	Polarity   domain.Polarity      `json:"-"`
	Target2030 *float64             `json:"target_2030,omitempty"` // fixed policy target, nil when none exists
	Aliases    []string             `json:"-"`                     // raw labels seen in source files
}

// Catalog resolves raw indicator labels and exposes targets and polarity.
type Catalog struct {
	byCode   map[domain.IndicatorCode]Definition
	byAlias  map[domain.Family]map[string]domain.IndicatorCode
	byFamily map[domain.Family][]Definition
}

// New builds the catalog from the static definition tables. A duplicate alias
// within one family is a programmer error and panics at startup rather than
// surfacing as a runtime resolution failure.
func New() *Catalog {
	c := &Catalog{
		byCode:   make(map[domain.IndicatorCode]Definition),
		byAlias:  make(map[domain.Family]map[string]domain.IndicatorCode),
		byFamily: make(map[domain.Family][]Definition),
	}

	for _, def := range definitions {
		if _, dup := c.byCode[def.Code]; dup {
			panic("catalog: duplicate indicator code " + string(def.Code))
		}
		c.byCode[def.Code] = def
		c.byFamily[def.Family] = append(c.byFamily[def.Family], def)

		scope := c.byAlias[def.Family]
		if scope == nil {
			scope = make(map[string]domain.IndicatorCode)
			c.byAlias[def.Family] = scope
		}
		c.addAlias(scope, string(def.Code), def)
		c.addAlias(scope, def.Label, def)
		for _, a := range def.Aliases {
			c.addAlias(scope, a, def)
		}
	}

	for fam := range c.byFamily {
		defs := c.byFamily[fam]
		sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	}
	return c
}

func (c *Catalog) addAlias(scope map[string]domain.IndicatorCode, raw string, def Definition) {
	key := normalize(raw)
	if existing, ok := scope[key]; ok && existing != def.Code {
		panic("catalog: alias " + raw + " is ambiguous within family " + string(def.Family))
	}
	scope[key] = def.Code
}

// Resolve maps a raw label to a canonical code within a family.
func (c *Catalog) Resolve(family domain.Family, raw string) (domain.IndicatorCode, bool) {
	scope, ok := c.byAlias[family]
	if !ok {
		return "", false
	}
	code, ok := scope[normalize(raw)]
	return code, ok
}

// Definition returns the definition for a code.
func (c *Catalog) Definition(code domain.IndicatorCode) (Definition, bool) {
	def, ok := c.byCode[code]
	return def, ok
}

// Definitions returns all definitions in a family sorted by code.
func (c *Catalog) Definitions(family domain.Family) []Definition {
	defs := c.byFamily[family]
	out := make([]Definition, len(defs))
	copy(out, defs)
	return out
}

// TargetFor returns the policy target for a code and target year, or nil
// when no target is defined. Only the 2030 targets exist today.
func (c *Catalog) TargetFor(code domain.IndicatorCode, year int) *float64 {
	def, ok := c.byCode[code]
	if !ok || def.Target2030 == nil || year != 2030 {
		return nil
	}
	v := *def.Target2030
	return &v
}

// Polarity returns the improvement direction for a code. Unknown codes
// default to lower-is-better, the dominant convention for burden indicators.
func (c *Catalog) Polarity(code domain.IndicatorCode) domain.Polarity {
	if def, ok := c.byCode[code]; ok {
		return def.Polarity
	}
	return domain.LowerIsBetter
}

func normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), " ")
}
