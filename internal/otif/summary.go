package otif

import "sort"

// UnknownSupplier labels PO aggregates whose supplier field is empty so
// they still appear in vendor statistics instead of being dropped.
const UnknownSupplier = "Unknown Supplier"

// MonthlySummary averages PO verdicts per calendar month of one year.
type MonthlySummary struct {
	MonthNum    int     `json:"month_num"`
	Month       string  `json:"month"`
	AvgOTIF     float64 `json:"avg_otif"`
	AvgOnTime   float64 `json:"avg_on_time"`
	AvgInFull   float64 `json:"avg_in_full"`
	TotalOrders int     `json:"total_orders"`
}

// VendorStats rolls up one supplier's OTIF outcomes for the selected year.
type VendorStats struct {
	Supplier        string  `json:"supplier"`
	TotalOrders     int     `json:"total_orders"`
	OTIFFailures    int     `json:"otif_failures"`
	OTIFSuccess     int     `json:"otif_success"`
	OTIFPct         float64 `json:"vendor_otif_pct"`
	ContributionPct float64 `json:"total_contribution_pct"`
}

// Years returns the sorted distinct bucketing years across PO aggregates.
func Years(pos []POAggregate) []int {
	seen := make(map[int]struct{})
	for _, po := range pos {
		seen[po.Year] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// FilterYear keeps the PO aggregates bucketed into the given year.
func FilterYear(pos []POAggregate, year int) []POAggregate {
	out := make([]POAggregate, 0, len(pos))
	for _, po := range pos {
		if po.Year == year {
			out = append(out, po)
		}
	}
	return out
}

// SummarizeMonthly groups year-scoped PO aggregates by month, averaging
// the OTIF, On-Time and In-Full flags. Result is sorted by month number.
func SummarizeMonthly(pos []POAggregate) []MonthlySummary {
	byMonth := make(map[int]*MonthlySummary)
	for _, po := range pos {
		m, ok := byMonth[po.MonthNum]
		if !ok {
			m = &MonthlySummary{MonthNum: po.MonthNum, Month: po.Month}
			byMonth[po.MonthNum] = m
		}
		m.AvgOTIF += float64(po.OTIF)
		m.AvgOnTime += float64(po.OnTime)
		m.AvgInFull += float64(po.Fulfilled)
		m.TotalOrders++
	}

	months := make([]MonthlySummary, 0, len(byMonth))
	for _, m := range byMonth {
		n := float64(m.TotalOrders)
		m.AvgOTIF /= n
		m.AvgOnTime /= n
		m.AvgInFull /= n
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].MonthNum < months[j].MonthNum })
	return months
}

// SummarizeVendors groups year-scoped PO aggregates by supplier. Empty
// suppliers are labeled rather than dropped. The denominator guard is
// defensive only; callers never pass an empty year slice with totals to
// compute. Result is sorted by supplier name.
func SummarizeVendors(pos []POAggregate) []VendorStats {
	totalOrders := len(pos)
	if totalOrders == 0 {
		totalOrders = 1
	}

	bySupplier := make(map[string]*VendorStats)
	order := make([]string, 0)
	for _, po := range pos {
		supplier := po.Supplier
		if supplier == "" {
			supplier = UnknownSupplier
		}
		v, ok := bySupplier[supplier]
		if !ok {
			v = &VendorStats{Supplier: supplier}
			bySupplier[supplier] = v
			order = append(order, supplier)
		}
		v.TotalOrders++
		if po.OTIF == 1 {
			v.OTIFSuccess++
		} else {
			v.OTIFFailures++
		}
	}

	stats := make([]VendorStats, 0, len(order))
	for _, supplier := range order {
		v := bySupplier[supplier]
		v.OTIFPct = float64(v.OTIFSuccess) / float64(v.TotalOrders) * 100
		v.ContributionPct = float64(v.TotalOrders) / float64(totalOrders) * 100
		stats = append(stats, *v)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Supplier < stats[j].Supplier })
	return stats
}

// TopFailingVendors returns up to n vendors with at least one OTIF
// failure, worst first. Ties break by supplier name for stable output.
func TopFailingVendors(stats []VendorStats, n int) []VendorStats {
	failing := make([]VendorStats, 0, len(stats))
	for _, v := range stats {
		if v.OTIFFailures > 0 {
			failing = append(failing, v)
		}
	}
	sort.Slice(failing, func(i, j int) bool {
		if failing[i].OTIFFailures != failing[j].OTIFFailures {
			return failing[i].OTIFFailures > failing[j].OTIFFailures
		}
		return failing[i].Supplier < failing[j].Supplier
	})
	if n > 0 && len(failing) > n {
		failing = failing[:n]
	}
	return failing
}

// Breaches returns the year-scoped PO aggregates that failed OTIF, sorted
// by bucketing GRN date descending (newest failures first).
func Breaches(pos []POAggregate) []POAggregate {
	out := make([]POAggregate, 0)
	for _, po := range pos {
		if po.OTIF == 0 {
			out = append(out, po)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GNRDate.After(out[j].GNRDate) })
	return out
}
