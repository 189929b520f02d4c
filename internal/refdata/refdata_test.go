package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	lookup := Default()
	require.NotZero(t, lookup.Len())

	cat, ok := lookup.Category("1DAT04S")
	require.True(t, ok)
	assert.Equal(t, "Vial", cat)

	cat, ok = lookup.Category("2AB01-C")
	require.True(t, ok)
	assert.Equal(t, "Ampoule", cat)

	_, ok = lookup.Category("NOPE")
	assert.False(t, ok)
}

func TestCategoryTrimsCode(t *testing.T) {
	cat, ok := Default().Category("  4AO005 ")
	require.True(t, ok)
	assert.Equal(t, "Seal", cat)
}

func TestLoadEmptyPath(t *testing.T) {
	lookup, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), lookup.Len())
}

func TestLoadMergesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.csv")
	data := "Material Code,Item Category\nNEW01,Stopper\n1DAT04S,Cartridge\n,Orphan\nBAD\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	lookup, err := Load(path)
	require.NoError(t, err)

	cat, ok := lookup.Category("NEW01")
	require.True(t, ok)
	assert.Equal(t, "Stopper", cat)

	// File entries win over seed entries.
	cat, ok = lookup.Category("1DAT04S")
	require.True(t, ok)
	assert.Equal(t, "Cartridge", cat)

	// Seed entries the file did not touch survive.
	cat, ok = lookup.Category("2AE06")
	require.True(t, ok)
	assert.Equal(t, "Ampoule", cat)
}

func TestLoadHeaderlessCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.csv")
	require.NoError(t, os.WriteFile(path, []byte("NEW02,Plunger\n"), 0o644))

	lookup, err := Load(path)
	require.NoError(t, err)

	cat, ok := lookup.Category("NEW02")
	require.True(t, ok)
	assert.Equal(t, "Plunger", cat)
}

func TestFingerprint(t *testing.T) {
	// Stable across instances with equal contents.
	assert.Equal(t, Default().Fingerprint(), Default().Fingerprint())

	path := filepath.Join(t.TempDir(), "categories.csv")
	require.NoError(t, os.WriteFile(path, []byte("1DAT04S,Cartridge\n"), 0o644))

	lookup, err := Load(path)
	require.NoError(t, err)

	// Merged file entries change the fingerprint.
	assert.NotEqual(t, Default().Fingerprint(), lookup.Fingerprint())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
