package otif

import "time"

// fulfilledTolerance is the In-Full threshold: a PO item counts as
// fulfilled when inward quantity reaches 95% of the ordered quantity.
// This is an explicit business rule, not a rounding allowance.
const fulfilledTolerance = 0.95

// ItemAggregate sums the lines sharing (PO number, material code).
type ItemAggregate struct {
	PONumber     string  `json:"po_number"`
	MaterialCode string  `json:"material_code"`
	POQty        float64 `json:"po_qty"`
	InwardQty    float64 `json:"inward_qty"`
	Fulfilled    int     `json:"fulfilled"`
}

// POAggregate is the one-row-per-PO verdict. GNRDate is the latest receipt
// across the PO's lines and drives Year/Month bucketing; the In-Full,
// On-Time and OTIF flags follow the original report's 0/1 encoding.
type POAggregate struct {
	PONumber  string    `json:"po_number"`
	Supplier  string    `json:"supplier"`
	GNRDate   time.Time `json:"gnr_date"`
	Fulfilled int       `json:"po_fulfilled"`
	OnTime    int       `json:"on_time"`
	OTIF      int       `json:"otif"`
	Year      int       `json:"year"`
	MonthNum  int       `json:"month_num"`
	Month     string    `json:"month"`
}

type itemKey struct {
	poNumber     string
	materialCode string
}

// AggregateItems groups lines by (PO number, material code), sums ordered
// and received quantities and computes the per-item Fulfilled flag.
// Output preserves first-appearance order.
func AggregateItems(lines []Line) []ItemAggregate {
	index := make(map[itemKey]int)
	items := make([]ItemAggregate, 0)
	for _, line := range lines {
		key := itemKey{line.PONumber, line.MaterialCode}
		i, ok := index[key]
		if !ok {
			i = len(items)
			index[key] = i
			items = append(items, ItemAggregate{PONumber: line.PONumber, MaterialCode: line.MaterialCode})
		}
		items[i].POQty += line.POQty
		items[i].InwardQty += line.InwardQty
	}
	for i := range items {
		if items[i].InwardQty >= fulfilledTolerance*items[i].POQty {
			items[i].Fulfilled = 1
		}
	}
	return items
}

// AggregatePOs collapses lines into one POAggregate per distinct PO number,
// in first-appearance order:
//
//  1. item-level sums with the 95% Fulfilled flag,
//  2. PO In-Full as the minimum of its item flags (one short item fails
//     the whole PO),
//  3. PO On-Time as the AND over every line of GRN date <= PO date plus
//     that line's lead time (lead time is per line, since one PO can span
//     material types with different expectations),
//  4. OTIF as In-Full AND On-Time,
//  5. bucketing date as the maximum GRN date across the PO's lines, with
//     Year and Month derived from it.
func AggregatePOs(lines []Line) []POAggregate {
	items := AggregateItems(lines)

	fulfilled := make(map[string]int)
	for _, item := range items {
		if current, ok := fulfilled[item.PONumber]; !ok || item.Fulfilled < current {
			fulfilled[item.PONumber] = item.Fulfilled
		}
	}

	onTime := make(map[string]int)
	lastGNR := make(map[string]time.Time)
	order := make([]string, 0)
	first := make(map[string]Line)
	for _, line := range lines {
		if _, ok := first[line.PONumber]; !ok {
			first[line.PONumber] = line
			order = append(order, line.PONumber)
			onTime[line.PONumber] = 1
		}
		due := line.PODate.AddDate(0, 0, line.LeadTimeDays)
		if line.GNRDate.After(due) {
			onTime[line.PONumber] = 0
		}
		if line.GNRDate.After(lastGNR[line.PONumber]) {
			lastGNR[line.PONumber] = line.GNRDate
		}
	}

	pos := make([]POAggregate, 0, len(order))
	for _, poNumber := range order {
		line := first[poNumber]
		gnr := lastGNR[poNumber]
		agg := POAggregate{
			PONumber:  poNumber,
			Supplier:  line.Supplier,
			GNRDate:   gnr,
			Fulfilled: fulfilled[poNumber],
			OnTime:    onTime[poNumber],
			Year:      gnr.Year(),
			MonthNum:  int(gnr.Month()),
			Month:     gnr.Format("Jan"),
		}
		if agg.Fulfilled == 1 && agg.OnTime == 1 {
			agg.OTIF = 1
		}
		pos = append(pos, agg)
	}
	return pos
}
