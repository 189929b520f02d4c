package otif

// CategoryLookup resolves a material code to its item category. The
// reference table is an injected collaborator so the pipeline can run
// against synthetic fixtures as easily as the production mapping.
// Fingerprint must identify the mapping's contents: two lookups with the
// same code-to-category pairs return equal fingerprints, and any content
// change returns a different one. Memoized results are keyed on it.
type CategoryLookup interface {
	Category(materialCode string) (string, bool)
	Fingerprint() string
}

// EnrichCategories backfills empty item categories from the reference
// lookup. Existing non-empty values always win over the reference table;
// codes absent from the lookup keep an empty category rather than a null.
// A nil lookup leaves the lines untouched.
func EnrichCategories(lines []Line, lookup CategoryLookup) {
	if lookup == nil {
		return
	}
	for i := range lines {
		if lines[i].ItemCategory != "" {
			continue
		}
		if cat, ok := lookup.Category(lines[i].MaterialCode); ok {
			lines[i].ItemCategory = cat
		}
	}
}
