package cache

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/config"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
)

type staticLookup map[string]string

func (l staticLookup) Category(materialCode string) (string, bool) {
	cat, ok := l[materialCode]
	return cat, ok
}

func (l staticLookup) Fingerprint() string {
	pairs := make([]string, 0, len(l))
	for code, cat := range l {
		pairs = append(pairs, code+"="+cat)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ";")
}

func TestBuildResultKeyDeterministic(t *testing.T) {
	content := []byte("snapshot bytes")
	a := otif.Options{
		Year:              2024,
		TopVendors:        10,
		LeadTimeOverrides: map[string]int{"RM": 20, "SPM": 10},
		IncludedMatTypes:  []string{"RM", "PPM"},
	}
	b := otif.Options{
		Year:              2024,
		TopVendors:        10,
		LeadTimeOverrides: map[string]int{"SPM": 10, "rm": 20},
		IncludedMatTypes:  []string{"ppm", "rm"},
	}

	// Map order, case and slice order do not affect the key.
	assert.Equal(t, BuildResultKey(content, a), BuildResultKey(content, b))
	assert.True(t, strings.HasPrefix(BuildResultKey(content, a), resultKeyPrefix+":"))
}

func TestBuildResultKeySensitivity(t *testing.T) {
	content := []byte("snapshot bytes")
	base := otif.Options{Year: 2024, TopVendors: 10}
	baseKey := BuildResultKey(content, base)

	assert.NotEqual(t, baseKey, BuildResultKey([]byte("other bytes"), base))
	assert.NotEqual(t, baseKey, BuildResultKey(content, otif.Options{Year: 2023, TopVendors: 10}))
	assert.NotEqual(t, baseKey, BuildResultKey(content, otif.Options{Year: 2024, TopVendors: 5}))
	assert.NotEqual(t, baseKey, BuildResultKey(content, otif.Options{Year: 2024, TopVendors: 10, UnknownLeadTime: 30}))
	assert.NotEqual(t, baseKey, BuildResultKey(content, otif.Options{Year: 2024, TopVendors: 10, LeadTimeOverrides: map[string]int{"RM": 45}}))
	assert.NotEqual(t, baseKey, BuildResultKey(content, otif.Options{Year: 2024, TopVendors: 10, IncludedMatTypes: []string{"RM"}}))
}

func TestBuildResultKeyCoversRuleSet(t *testing.T) {
	content := []byte("snapshot bytes")
	baseKey := BuildResultKey(content, otif.Options{})

	// A nil rule set and an explicit default rule set key identically.
	rules := otif.DefaultRuleSet()
	assert.Equal(t, baseKey, BuildResultKey(content, otif.Options{Rules: &rules}))

	// Any change to the effective rules produces a new key.
	custom := otif.DefaultRuleSet()
	custom.Days = map[string]int{"RM": 5, "SPM": 15, "TPM": 15}
	assert.NotEqual(t, baseKey, BuildResultKey(content, otif.Options{Rules: &custom}))

	relaxed := otif.DefaultRuleSet()
	relaxed.PPMDefault = 45
	assert.NotEqual(t, baseKey, BuildResultKey(content, otif.Options{Rules: &relaxed}))
}

func TestBuildResultKeyCoversReferenceData(t *testing.T) {
	content := []byte("snapshot bytes")
	baseKey := BuildResultKey(content, otif.Options{})

	vial := BuildResultKey(content, otif.Options{CategoryLookup: staticLookup{"X1": "Vial"}})
	assert.NotEqual(t, baseKey, vial)

	// Changing a mapped category changes the key, so cached reports built
	// against old reference data are never served.
	syringe := BuildResultKey(content, otif.Options{CategoryLookup: staticLookup{"X1": "Pfs Syringe"}})
	assert.NotEqual(t, vial, syringe)

	// Equal contents key identically across lookup instances.
	assert.Equal(t, vial, BuildResultKey(content, otif.Options{CategoryLookup: staticLookup{"X1": "Vial"}}))
}

func TestNewResultCacheDisabled(t *testing.T) {
	c, err := NewResultCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	report, hit, err := c.GetReport(ctx, "otif:result:abc")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, report)
	assert.NoError(t, c.SetReport(ctx, "otif:result:abc", nil))
	assert.NoError(t, c.InvalidateAll(ctx))
}

func TestBuildRedisOptionsDefaults(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
}

func TestBuildRedisOptionsURL(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{
		Enabled:  true,
		RedisURL: "redis://:secret@redis.internal:6380/2",
	})
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestBuildRedisOptionsBadURL(t *testing.T) {
	_, err := buildRedisOptions(config.CacheConfig{Enabled: true, RedisURL: "://nope"})
	assert.Error(t, err)
}
