package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

func ptr(s string) *string { return &s }

func sample() []*entity.Category {
	return []*entity.Category{
		{ID: "a", Name: "Ropa", SortOrder: 2},
		{ID: "b", Name: "Electrónica", SortOrder: 1},
		{ID: "c", Name: "Teléfonos", ParentID: ptr("b")},
		{ID: "d", Name: "Accesorios", ParentID: ptr("c")},
		{ID: "e", Name: "Audio", ParentID: ptr("b")},
		{ID: "f", Name: "Huérfana", ParentID: ptr("zzz")},
	}
}

func TestBuildTree(t *testing.T) {
	roots := BuildTree(sample())
	require.Len(t, roots, 3)
	assert.Equal(t, "Huérfana", roots[0].Name) // sort_order 0
	assert.Equal(t, "Electrónica", roots[1].Name)
	assert.Equal(t, "Ropa", roots[2].Name)

	elec := roots[1]
	require.Len(t, elec.Children, 2)
	assert.Equal(t, "Audio", elec.Children[0].Name)
	assert.Equal(t, "Teléfonos", elec.Children[1].Name)
	require.Len(t, elec.Children[1].Children, 1)
	assert.Equal(t, "d", elec.Children[1].Children[0].ID)
	assert.NotNil(t, roots[2].Children)
}

func TestIsSelfOrDescendant(t *testing.T) {
	list := sample()
	assert.True(t, IsSelfOrDescendant(list, "b", "b"))
	assert.True(t, IsSelfOrDescendant(list, "b", "d"))
	assert.False(t, IsSelfOrDescendant(list, "c", "e"))
	assert.False(t, IsSelfOrDescendant(list, "a", "b"))
}

func TestPlacement(t *testing.T) {
	level, path := Placement(nil, "electronica")
	assert.Equal(t, 0, level)
	assert.Equal(t, "electronica", path)

	level, path = Placement(&entity.Category{Level: 1, Path: "electronica/telefonos"}, "fundas")
	assert.Equal(t, 2, level)
	assert.Equal(t, "electronica/telefonos/fundas", path)
}
