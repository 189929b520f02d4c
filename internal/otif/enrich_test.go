package otif

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrichCategoriesBackfillsOnlyEmpty(t *testing.T) {
	lines := []Line{
		{MaterialCode: "M1"},
		{MaterialCode: "M2", ItemCategory: "Seal"},
		{MaterialCode: "M3"},
	}

	EnrichCategories(lines, mapLookup{"M1": "Vial", "M2": "Ampoule"})

	assert.Equal(t, "Vial", lines[0].ItemCategory)
	// Already-present categories are never overwritten.
	assert.Equal(t, "Seal", lines[1].ItemCategory)
	// Codes with no mapping stay empty.
	assert.Empty(t, lines[2].ItemCategory)
}

func TestEnrichCategoriesNilLookup(t *testing.T) {
	lines := []Line{{MaterialCode: "M1"}}
	EnrichCategories(lines, nil)
	assert.Empty(t, lines[0].ItemCategory)
}
