package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMergeCategories(t *testing.T) {
	userID := uuid.New()
	custom := []*Category{
		NewCategory(userID, "Pets"),
		NewCategory(userID, "Lazer"),
	}

	names := MergeCategories(custom)

	assert.Len(t, names, len(BaseCategories)+1)
	assert.Contains(t, names, "Pets")
	assert.IsNonDecreasing(t, names)
}

func TestResolveCategory(t *testing.T) {
	categories := []string{"Alimentação", "Pets", DefaultCategory}

	assert.Equal(t, "Alimentação", ResolveCategory("alimentação", categories))
	assert.Equal(t, "Pets", ResolveCategory(" Pets ", categories))
	assert.Equal(t, DefaultCategory, ResolveCategory("Foguetes", categories))
}

func TestIsBaseCategory(t *testing.T) {
	assert.True(t, IsBaseCategory("transporte"))
	assert.False(t, IsBaseCategory("Pets"))
}
