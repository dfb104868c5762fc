package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Food types.
const (
	TypeVeg    = "veg"
	TypeNonVeg = "non-veg"
)

// FoodCategories is the fixed set of catalog categories. Entries are stored
// capitalized, exactly as listed here.
var FoodCategories = []string{
	"Breakfast",
	"Lunch",
	"Dinner",
	"Snack",
	"Dessert",
	"Beverage",
}

// Price carries the original price alongside the listed and discounted ones.
type Price struct {
	Org      float64 `bson:"org" json:"org"`
	List     float64 `bson:"list,omitempty" json:"list,omitempty"`
	Discount float64 `bson:"discount,omitempty" json:"discount,omitempty"`
}

// FoodItem is a catalog entry. Name is stored trimmed and lower-cased; the
// is_deleted flag hides the item from the public menu without removing it.
type FoodItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Price       Price              `bson:"price" json:"price"`
	Type        string             `bson:"type" json:"type"`
	Categories  []string           `bson:"categories" json:"categories"`
	InStock     bool               `bson:"in_stock" json:"in_stock"`
	IsDeleted   bool               `bson:"is_deleted" json:"is_deleted"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// NormalizeFoodName trims and lower-cases a name for storage and for the
// duplicate check.
func NormalizeFoodName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidFoodType reports whether t (already lower-cased) is a known food type.
func ValidFoodType(t string) bool {
	return t == TypeVeg || t == TypeNonVeg
}

// NormalizeCategory capitalizes a category entry the way the catalog stores
// it ("snack" -> "Snack").
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(strings.ToLower(c))
	if c == "" {
		return ""
	}
	return strings.ToUpper(c[:1]) + c[1:]
}

// ValidCategory reports whether c (already normalized) is a known category.
func ValidCategory(c string) bool {
	for _, known := range FoodCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidateFoodName checks the catalog name length bounds.
func ValidateFoodName(name string) error {
	n := len(strings.TrimSpace(name))
	if n < 2 || n > 80 {
		return fmt.Errorf("name must be between 2 and 80 characters")
	}
	return nil
}

// ValidateFoodDescription checks the description length bounds.
func ValidateFoodDescription(desc string) error {
	n := len(strings.TrimSpace(desc))
	if n < 5 || n > 500 {
		return fmt.Errorf("description must be between 5 and 500 characters")
	}
	return nil
}

// ValidateNewFood validates a full item for creation: name and description
// bounds, a positive original price, a known type, and at least one category
// (entries are normalized in place).
func ValidateNewFood(item *FoodItem) error {
	if err := ValidateFoodName(item.Name); err != nil {
		return err
	}
	if err := ValidateFoodDescription(item.Description); err != nil {
		return err
	}
	if item.Price.Org <= 0 {
		return fmt.Errorf("price.org must be a positive number")
	}
	item.Type = strings.ToLower(strings.TrimSpace(item.Type))
	if !ValidFoodType(item.Type) {
		return fmt.Errorf("type must be one of: %s, %s", TypeVeg, TypeNonVeg)
	}
	if len(item.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	for i, c := range item.Categories {
		norm := NormalizeCategory(c)
		if !ValidCategory(norm) {
			return fmt.Errorf("unknown category: %s", c)
		}
		item.Categories[i] = norm
	}
	item.Name = NormalizeFoodName(item.Name)
	return nil
}
