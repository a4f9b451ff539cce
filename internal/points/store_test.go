package points

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSeedAndTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "certifications_data.db")

	store, err := OpenStore(path)
	require.NoError(t, err)
	defer store.Close()

	tiers, err := store.Tiers()
	require.NoError(t, err)
	require.Len(t, tiers, 3)

	// Priority order is preserved
	assert.Equal(t, "Any Professional or Specialty", tiers[0].Category)
	assert.Equal(t, 10.0, tiers[0].Points)
	assert.Equal(t, "Any Associate or Hashicorp", tiers[1].Category)
	assert.Equal(t, 5.0, tiers[1].Points)
	assert.Equal(t, "Anything Else", tiers[2].Category)
	assert.Equal(t, 2.5, tiers[2].Points)
}

func TestStoreClassifyMatchesCompiledTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "certifications_data.db")

	store, err := OpenStore(path)
	require.NoError(t, err)
	defer store.Close()

	names := []string{
		"AWS Solutions Architect Professional",
		"HashiCorp Terraform Associate",
		"Random Badge",
	}
	for _, name := range names {
		assert.Equal(t, Classify(name), store.Classify(name), "store and compiled table disagree for %q", name)
	}
}

func TestStoreReopenDoesNotReseed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "certifications_data.db")

	store, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Second open finds the seeded rows and leaves them alone.
	store, err = OpenStore(path)
	require.NoError(t, err)
	defer store.Close()

	tiers, err := store.Tiers()
	require.NoError(t, err)
	assert.Len(t, tiers, 3)
}
