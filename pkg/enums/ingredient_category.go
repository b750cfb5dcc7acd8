package enums

import "fmt"

// IngredientCategory classifies brewing ingredients.
type IngredientCategory string

const (
	IngredientCategoryGrain    IngredientCategory = "GRAIN"
	IngredientCategoryHops     IngredientCategory = "HOPS"
	IngredientCategoryYeast    IngredientCategory = "YEAST"
	IngredientCategoryFruit    IngredientCategory = "FRUIT"
	IngredientCategorySugar    IngredientCategory = "SUGAR"
	IngredientCategoryAdditive IngredientCategory = "ADDITIVE"
	IngredientCategoryOther    IngredientCategory = "OTHER"
)

var validIngredientCategories = []IngredientCategory{
	IngredientCategoryGrain,
	IngredientCategoryHops,
	IngredientCategoryYeast,
	IngredientCategoryFruit,
	IngredientCategorySugar,
	IngredientCategoryAdditive,
	IngredientCategoryOther,
}

// String implements fmt.Stringer.
func (c IngredientCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known IngredientCategory.
func (c IngredientCategory) IsValid() bool {
	for _, candidate := range validIngredientCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseIngredientCategory converts raw input into an IngredientCategory.
func ParseIngredientCategory(value string) (IngredientCategory, error) {
	for _, candidate := range validIngredientCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ingredient category %q", value)
}
