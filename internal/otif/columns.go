package otif

import (
	"strings"
	"unicode"
)

// synonyms maps a normalized comparison key to its canonical column name.
// Matching is exact-key-after-normalization, never fuzzy: a header that
// cleans down to an unlisted key keeps its cleaned original name so no
// column is silently discarded or coerced.
var synonyms = map[string]string{
	"mattype":      ColMatType,
	"materialtype": ColMatType,

	"materialcode": ColMaterialCode,
	"matcode":      ColMaterialCode,

	"materialname": ColMaterialName,
	"itemname":     ColMaterialName,
	"material":     ColMaterialName,

	"uom": ColUOM,

	"podt":   ColPODate,
	"podat":  ColPODate,
	"podate": ColPODate,

	"pono":     ColPONumber,
	"ponumber": ColPONumber,
	"po":       ColPONumber,

	"supplier":     ColSupplier,
	"suppliername": ColSupplier,

	"poqty":            ColPOQty,
	"purchaseorderqty": ColPOQty,
	"quantityordered":  ColPOQty,

	"gnrdt":   ColGNRDate,
	"grndt":   ColGNRDate,
	"grndate": ColGNRDate,
	"grn":     ColGNRDate,

	"inwardqty":        ColInwardQty,
	"inwardquantity":   ColInwardQty,
	"receivedqty":      ColInwardQty,
	"receivedquantity": ColInwardQty,

	"itemcategory": ColItemCategory,
	"itemcat":      ColItemCategory,
	"category":     ColItemCategory,
}

// NormalizeHeaders maps arbitrary header spellings to the canonical schema.
// It returns a sequence of equal length: recognized headers become their
// canonical name, unrecognized ones pass through with whitespace cleanup
// only. The transform is pure and never fails.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		cleaned := trimCell(h)
		if canonical, ok := synonyms[headerKey(cleaned)]; ok {
			out[i] = canonical
		} else {
			out[i] = cleaned
		}
	}
	return out
}

// headerKey builds the comparison key for synonym lookup: lowercase with
// every non-alphanumeric rune stripped.
func headerKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// trimCell trims surrounding whitespace, converts non-breaking spaces to
// ordinary spaces and collapses internal whitespace runs.
func trimCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
