package service

import (
	"context"
	"testing"

	"eduarchive_backend/internals/features/regions/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embedded(t *testing.T) *StaticLookup {
	t.Helper()
	tree, err := data.Embedded()
	require.NoError(t, err)
	return NewStaticLookup(tree)
}

func TestStaticLookup_Hierarchy(t *testing.T) {
	s := embedded(t)
	ctx := context.Background()

	prov, err := s.ListProvinces(ctx)
	require.NoError(t, err)
	require.Len(t, prov, 3)
	assert.Equal(t, "DKI JAKARTA", prov[0].Name, "urut nama")

	kab, err := s.ListRegencies(ctx, "32")
	require.NoError(t, err)
	require.Len(t, kab, 2)
	for _, k := range kab {
		assert.Equal(t, "32", k.ParentID)
	}

	kec, err := s.ListDistricts(ctx, "32.73")
	require.NoError(t, err)
	assert.Len(t, kec, 2)

	desa, err := s.ListVillages(ctx, "32.73.01")
	require.NoError(t, err)
	require.Len(t, desa, 2)
	assert.NotEmpty(t, desa[0].PostalCode)

	_, err = s.ListRegencies(ctx, "99")
	assert.ErrorIs(t, err, ErrRegionNotFound)
}

func TestStaticLookup_ListIsCopy(t *testing.T) {
	s := embedded(t)
	a, _ := s.ListProvinces(context.Background())
	a[0].Name = "X"
	b, _ := s.ListProvinces(context.Background())
	assert.NotEqual(t, "X", b[0].Name)
}

func TestStaticLookup_ValidChain(t *testing.T) {
	s := embedded(t)
	assert.True(t, s.ValidChain("32", "32.73", "32.73.01", "32.73.01.1001"))
	assert.False(t, s.ValidChain("31", "32.73", "32.73.01", "32.73.01.1001"), "provinsi salah")
	assert.False(t, s.ValidChain("32", "32.04", "32.73.01", "32.73.01.1001"), "kabupaten salah")
	assert.False(t, s.ValidChain("32", "32.73", "32.73.02", "32.73.01.1001"), "kecamatan salah")
	assert.False(t, s.ValidChain("32", "32.73", "32.73.01", "32.73.01.9999"))
	assert.False(t, s.ValidChain("", "", "", ""))
}
