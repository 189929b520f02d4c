// Package refdata provides the material-code to item-category reference
// lookup used to backfill missing categories before lead-time resolution.
// The seed mapping ships in code; deployments extend or replace it with a
// two-column CSV so the core pipeline never embeds site-specific data.
package refdata

import (
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// seedCategories is the built-in material-code to item-category mapping.
var seedCategories = map[string]string{
	"4AO005":  "Seal",
	"1DAT04S": "Vial",
	"1DCT01":  "Vial",
	"2AE06":   "Ampoule",
	"2CC02":   "Ampoule",
	"4BT021G": "Seal",
	"2AB01-C": "Ampoule",
	"4BT008G": "Seal",
	"4BT011G": "Seal",
}

// Lookup implements otif.CategoryLookup over an in-memory mapping.
type Lookup struct {
	categories map[string]string
}

// Category returns the item category for a material code.
func (l *Lookup) Category(materialCode string) (string, bool) {
	cat, ok := l.categories[strings.TrimSpace(materialCode)]
	return cat, ok
}

// Len reports the number of mapped material codes.
func (l *Lookup) Len() int {
	return len(l.categories)
}

// Fingerprint hashes the sorted code-to-category pairs. Cached pipeline
// results are keyed on it, so editing the reference CSV invalidates them.
func (l *Lookup) Fingerprint() string {
	codes := make([]string, 0, len(l.categories))
	for code := range l.categories {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	h := sha1.New()
	for _, code := range codes {
		io.WriteString(h, code)
		io.WriteString(h, "=")
		io.WriteString(h, l.categories[code])
		io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Default returns the built-in reference lookup.
func Default() *Lookup {
	categories := make(map[string]string, len(seedCategories))
	for code, cat := range seedCategories {
		categories[code] = cat
	}
	return &Lookup{categories: categories}
}

// Load builds a lookup from the built-in seed plus an optional CSV file
// whose rows are (material code, item category). File entries win over
// seed entries. An empty path returns the default lookup.
func Load(path string) (*Lookup, error) {
	lookup := Default()
	if path == "" {
		return lookup, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference data %s: %w", path, err)
	}
	defer f.Close()

	if err := lookup.mergeCSV(f); err != nil {
		return nil, fmt.Errorf("read reference data %s: %w", path, err)
	}
	return lookup, nil
}

func (l *Lookup) mergeCSV(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(record) < 2 {
			continue
		}
		code := strings.TrimSpace(record[0])
		cat := strings.TrimSpace(record[1])
		// Tolerate an optional header row.
		if first {
			first = false
			if strings.EqualFold(strings.ReplaceAll(code, " ", ""), "materialcode") {
				continue
			}
		}
		if code == "" || cat == "" {
			continue
		}
		l.categories[code] = cat
	}
	return nil
}
