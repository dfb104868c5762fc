package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFood() FoodItem {
	return FoodItem{
		Name:        "Veg Burger",
		Description: "A burger with a vegetable patty",
		Image:       "https://example.com/burger.png",
		Price:       Price{Org: 99},
		Type:        "veg",
		Categories:  []string{"Snack"},
	}
}

func TestValidateNewFood_NormalizesNameTypeAndCategories(t *testing.T) {
	item := validFood()
	item.Name = "  Veg Burger "
	item.Type = "VEG"
	item.Categories = []string{"snack", "BEVERAGE"}

	require.NoError(t, ValidateNewFood(&item))
	assert.Equal(t, "veg burger", item.Name)
	assert.Equal(t, TypeVeg, item.Type)
	assert.Equal(t, []string{"Snack", "Beverage"}, item.Categories)
}

func TestValidateNewFood_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FoodItem)
		wantErr string
	}{
		{"name_too_short", func(f *FoodItem) { f.Name = "x" }, "name"},
		{"name_too_long", func(f *FoodItem) { f.Name = strings.Repeat("a", 81) }, "name"},
		{"description_too_short", func(f *FoodItem) { f.Description = "abc" }, "description"},
		{"description_too_long", func(f *FoodItem) { f.Description = strings.Repeat("a", 501) }, "description"},
		{"zero_price", func(f *FoodItem) { f.Price.Org = 0 }, "price"},
		{"negative_price", func(f *FoodItem) { f.Price.Org = -5 }, "price"},
		{"bad_type", func(f *FoodItem) { f.Type = "vegan" }, "type"},
		{"no_categories", func(f *FoodItem) { f.Categories = nil }, "category"},
		{"unknown_category", func(f *FoodItem) { f.Categories = []string{"Midnight"} }, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validFood()
			tt.mutate(&item)
			err := ValidateNewFood(&item)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNewFood_BoundaryLengthsPass(t *testing.T) {
	item := validFood()
	item.Name = strings.Repeat("a", 80)
	item.Description = strings.Repeat("b", 500)
	assert.NoError(t, ValidateNewFood(&item))

	item = validFood()
	item.Name = "ab"
	item.Description = "abcde"
	assert.NoError(t, ValidateNewFood(&item))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "Snack", NormalizeCategory("snack"))
	assert.Equal(t, "Snack", NormalizeCategory("  SNACK "))
	assert.Equal(t, "", NormalizeCategory("   "))
}

func TestNormalizeFoodName(t *testing.T) {
	assert.Equal(t, "veg burger", NormalizeFoodName("  Veg Burger  "))
}
