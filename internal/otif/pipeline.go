package otif

import (
	"fmt"
	"strings"
)

// Options is the immutable configuration for one pipeline run. The zero
// value uses the default rule set, blocks on unknown material types,
// includes every material type and selects the most recent year.
type Options struct {
	// Rules overrides the default lead-time rule set when non-nil.
	Rules *RuleSet
	// LeadTimeOverrides adds or replaces per-material-type day counts on
	// top of the rule set.
	LeadTimeOverrides map[string]int
	// UnknownLeadTime, when positive, is auto-assigned to material types
	// that have no rule and are not PPM, with a notice on the result.
	// When zero, such types block the run with an UnresolvedTypesError.
	UnknownLeadTime int
	// IncludedMatTypes restricts aggregation to the listed material types
	// (case-insensitive). Empty means all.
	IncludedMatTypes []string
	// Year selects the reporting year. Zero selects the most recent year
	// present in the data.
	Year int
	// CategoryLookup backfills missing item categories. Optional.
	CategoryLookup CategoryLookup
	// TopVendors caps the failing-vendor ranking. Zero means all.
	TopVendors int
}

// Result is the full output of one pipeline run. Empty-data conditions
// (no usable rows, no breaches) are represented as empty slices and a zero
// Year, never as errors.
type Result struct {
	Lines       []Line           `json:"-"`
	POs         []POAggregate    `json:"-"`
	Years       []int            `json:"years"`
	Year        int              `json:"year"`
	YearPOs     []POAggregate    `json:"po_level"`
	Monthly     []MonthlySummary `json:"monthly"`
	Vendors     []VendorStats    `json:"vendors"`
	TopFailing  []VendorStats    `json:"top_failing"`
	Breaches    []POAggregate    `json:"breaches"`
	DroppedRows int              `json:"dropped_rows"`
	Notices     []string         `json:"notices,omitempty"`
}

// Run executes the whole pipeline over a raw table: header normalization,
// coercion, category enrichment, lead-time resolution, PO aggregation and
// the monthly/vendor summaries for the selected year. It is deterministic
// for identical input and options, so callers may re-invoke it freely.
func Run(table Table, opts Options) (*Result, error) {
	normalized := Table{Headers: NormalizeHeaders(table.Headers), Rows: table.Rows}

	lines, dropped, err := Coerce(normalized)
	if err != nil {
		return nil, err
	}

	EnrichCategories(lines, opts.CategoryLookup)
	lines = filterMatTypes(lines, opts.IncludedMatTypes)

	rules := DefaultRuleSet()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	rules = rules.WithOverrides(opts.LeadTimeOverrides)

	resolver, err := NewResolver(rules)
	if err != nil {
		return nil, err
	}

	result := &Result{DroppedRows: dropped}

	unknown := resolver.UnknownMatTypes(lines)
	if len(unknown) > 0 {
		if opts.UnknownLeadTime <= 0 {
			return nil, &UnresolvedTypesError{Types: unknown}
		}
		overrides := make(map[string]int, len(unknown))
		for _, matType := range unknown {
			overrides[matType] = opts.UnknownLeadTime
		}
		resolver, err = NewResolver(rules.WithOverrides(overrides))
		if err != nil {
			return nil, err
		}
		result.Notices = append(result.Notices, fmt.Sprintf(
			"material types with no lead-time rule assigned %d days: %s",
			opts.UnknownLeadTime, strings.Join(labelBlankTypes(unknown), ", ")))
	}

	if err := resolver.ApplyLeadTimes(lines); err != nil {
		return nil, err
	}

	result.Lines = lines
	result.POs = AggregatePOs(lines)
	result.Years = Years(result.POs)
	if len(result.POs) == 0 {
		return result, nil
	}

	year := opts.Year
	if year == 0 {
		year = result.Years[len(result.Years)-1]
	}
	result.Year = year
	result.YearPOs = FilterYear(result.POs, year)
	result.Monthly = SummarizeMonthly(result.YearPOs)
	result.Vendors = SummarizeVendors(result.YearPOs)
	result.TopFailing = TopFailingVendors(result.Vendors, opts.TopVendors)
	result.Breaches = Breaches(result.YearPOs)

	return result, nil
}

func filterMatTypes(lines []Line, included []string) []Line {
	if len(included) == 0 {
		return lines
	}
	allowed := make(map[string]struct{}, len(included))
	for _, matType := range included {
		allowed[strings.ToUpper(trimCell(matType))] = struct{}{}
	}
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		if _, ok := allowed[strings.ToUpper(trimCell(line.MatType))]; ok {
			out = append(out, line)
		}
	}
	return out
}
