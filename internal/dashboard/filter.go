package dashboard

import (
	"sort"
	"strings"

	"example/sweetshop-client/internal/models"
)

// CategoryAll disables the category predicate
const CategoryAll = "all"

// FilterState is the transient, UI-local filter over the fetched catalog.
// Invariant: 0 <= MinPrice <= MaxPrice <= the catalog's highest price.
type FilterState struct {
	SearchText string
	Category   string
	MinPrice   float64
	MaxPrice   float64
}

// Filter returns the items satisfying all three predicates. The predicates
// are independent and combined by logical AND, so application order never
// changes the result.
func Filter(items []models.Sweet, f FilterState) []models.Sweet {
	var result []models.Sweet
	for _, item := range items {
		if matchesSearch(item, f.SearchText) && matchesCategory(item, f.Category) && matchesPrice(item, f.MinPrice, f.MaxPrice) {
			result = append(result, item)
		}
	}
	return result
}

// matchesSearch is a case-insensitive substring match against name or
// category; empty search text passes everything through.
func matchesSearch(item models.Sweet, text string) bool {
	if text == "" {
		return true
	}
	needle := strings.ToLower(text)
	return strings.Contains(strings.ToLower(item.Name), needle) ||
		strings.Contains(strings.ToLower(item.Category), needle)
}

func matchesCategory(item models.Sweet, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	return item.Category == category
}

// matchesPrice checks inclusive price-range membership
func matchesPrice(item models.Sweet, min, max float64) bool {
	return item.Price >= min && item.Price <= max
}

// Categories returns the sorted distinct categories present in the catalog
func Categories(items []models.Sweet) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// MaxPrice returns the highest price in the catalog, 0 for an empty catalog
func MaxPrice(items []models.Sweet) float64 {
	var max float64
	for _, item := range items {
		if item.Price > max {
			max = item.Price
		}
	}
	return max
}
