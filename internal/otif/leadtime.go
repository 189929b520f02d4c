package otif

import (
	"fmt"
	"sort"
	"strings"
)

// ppmType is the material-type family whose lead time depends on the item
// category rather than a flat per-type rule.
const ppmType = "PPM"

// PPMBucket groups item categories sharing one expected lead time.
type PPMBucket struct {
	Days       int
	Categories []string
}

// RuleSet holds the lead-time expectations: a flat days-per-material-type
// table plus the ordered PPM category buckets. Bucket order is the
// tie-break when a category would appear in more than one bucket: the
// first match wins. ValidateBuckets rejects such overlaps up front so the
// precedence never silently decides an outcome.
type RuleSet struct {
	Days       map[string]int
	PPMBuckets []PPMBucket
	PPMDefault int
}

// DefaultRuleSet returns the standard lead-time rules: raw material 30
// days, sub-components and trading material 15, and the four PPM packing
// buckets at 7, 12, 90 and 15 days with a 30-day PPM fallback.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Days: map[string]int{
			"RM":  30,
			"SPM": 15,
			"TPM": 15,
		},
		PPMBuckets: []PPMBucket{
			{Days: 7, Categories: []string{"Vial", "Rubber Stopper", "Rubber", "Stopper", "Seal", "Cap", "Collar", "Inner Cap", "Outer Cap"}},
			{Days: 12, Categories: []string{"Ampoule", "Amp"}},
			{Days: 90, Categories: []string{"Pfs Syringe", "Plunger Stopper", "Plunger", "U plug", "U-plug"}},
			{Days: 15, Categories: []string{"Al Tube", "Plastic Bottle", "Plastic Nozzle", "Nozzle"}},
		},
		PPMDefault: 30,
	}
}

// WithOverrides returns a copy of the rule set with per-type day counts
// replaced or added. Keys are trimmed and uppercased, matching resolution.
func (rs RuleSet) WithOverrides(overrides map[string]int) RuleSet {
	days := make(map[string]int, len(rs.Days)+len(overrides))
	for k, v := range rs.Days {
		days[k] = v
	}
	for k, v := range overrides {
		days[strings.ToUpper(trimCell(k))] = v
	}
	rs.Days = days
	return rs
}

// Fingerprint returns a canonical text form of the rule set. Equal rule
// sets produce equal fingerprints regardless of map iteration order, so
// memoized results can be keyed on it.
func (rs RuleSet) Fingerprint() string {
	var b strings.Builder
	types := make([]string, 0, len(rs.Days))
	for matType := range rs.Days {
		types = append(types, matType)
	}
	sort.Strings(types)
	for _, matType := range types {
		fmt.Fprintf(&b, "%s=%d;", matType, rs.Days[matType])
	}
	for _, bucket := range rs.PPMBuckets {
		cats := make([]string, 0, len(bucket.Categories))
		for _, cat := range bucket.Categories {
			cats = append(cats, strings.ToLower(trimCell(cat)))
		}
		sort.Strings(cats)
		fmt.Fprintf(&b, "ppm%d=%s;", bucket.Days, strings.Join(cats, ","))
	}
	fmt.Fprintf(&b, "ppmdefault=%d", rs.PPMDefault)
	return b.String()
}

// ValidateBuckets confirms no category appears in two PPM buckets. The
// bucket table is small enough that the check runs on every pipeline
// invocation.
func (rs RuleSet) ValidateBuckets() error {
	seen := make(map[string]int)
	for _, bucket := range rs.PPMBuckets {
		for _, cat := range bucket.Categories {
			key := strings.ToLower(trimCell(cat))
			if prev, ok := seen[key]; ok && prev != bucket.Days {
				return fmt.Errorf("ppm category %q mapped to both %d and %d day buckets", cat, prev, bucket.Days)
			}
			seen[key] = bucket.Days
		}
	}
	return nil
}

// Resolver is the precomputed lead-time lookup built once per run from a
// rule set, replacing repeated per-row scans of the bucket lists.
type Resolver struct {
	days       map[string]int
	ppmByCat   map[string]int
	ppmDefault int
}

// NewResolver builds a resolver after validating bucket disjointness.
func NewResolver(rs RuleSet) (*Resolver, error) {
	if err := rs.ValidateBuckets(); err != nil {
		return nil, err
	}
	r := &Resolver{
		days:       make(map[string]int, len(rs.Days)),
		ppmByCat:   make(map[string]int),
		ppmDefault: rs.PPMDefault,
	}
	for k, v := range rs.Days {
		r.days[strings.ToUpper(trimCell(k))] = v
	}
	for _, bucket := range rs.PPMBuckets {
		for _, cat := range bucket.Categories {
			key := strings.ToLower(trimCell(cat))
			if _, ok := r.ppmByCat[key]; !ok {
				r.ppmByCat[key] = bucket.Days
			}
		}
	}
	return r, nil
}

// Resolve returns the expected lead time for a material type and item
// category. ok is false when the type has no rule and is not PPM; the
// caller must surface that gap rather than assume a default.
func (r *Resolver) Resolve(matType, itemCategory string) (int, bool) {
	key := strings.ToUpper(trimCell(matType))
	if days, ok := r.days[key]; ok {
		return days, true
	}
	if key != ppmType {
		return 0, false
	}
	cat := strings.ToLower(trimCell(itemCategory))
	if cat != "" {
		if days, ok := r.ppmByCat[cat]; ok {
			return days, true
		}
	}
	return r.ppmDefault, true
}

// UnknownMatTypes returns the sorted distinct material types in the data
// that the resolver cannot serve.
func (r *Resolver) UnknownMatTypes(lines []Line) []string {
	seen := make(map[string]struct{})
	for _, line := range lines {
		key := strings.ToUpper(trimCell(line.MatType))
		if key == ppmType {
			continue
		}
		if _, ok := r.days[key]; ok {
			continue
		}
		seen[key] = struct{}{}
	}
	unknown := make([]string, 0, len(seen))
	for key := range seen {
		unknown = append(unknown, key)
	}
	sort.Strings(unknown)
	return unknown
}

// ApplyLeadTimes stamps every line with its resolved lead time. It must
// only run after unknown material types have been handled; hitting one
// here is a programming error surfaced as an UnresolvedTypesError.
func (r *Resolver) ApplyLeadTimes(lines []Line) error {
	for i := range lines {
		days, ok := r.Resolve(lines[i].MatType, lines[i].ItemCategory)
		if !ok {
			return &UnresolvedTypesError{Types: []string{strings.ToUpper(trimCell(lines[i].MatType))}}
		}
		lines[i].LeadTimeDays = days
	}
	return nil
}
