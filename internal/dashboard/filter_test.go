package dashboard

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"example/sweetshop-client/internal/logger"
	"example/sweetshop-client/internal/models"
)

func init() {
	// Initialize logger for tests
	logger.InitLoggerDev()
}

var sampleCatalog = []models.Sweet{
	{ID: 1, Name: "Kaju Katli", Category: "Dry Fruit", Price: 249, Quantity: 20},
	{ID: 2, Name: "Rasgulla", Category: "Milk", Price: 120, Quantity: 5},
	{ID: 3, Name: "Dark Chocolate Barfi", Category: "Chocolate", Price: 310, Quantity: 0},
	{ID: 4, Name: "Milk Cake", Category: "Milk", Price: 180, Quantity: 12},
	{ID: 5, Name: "Jalebi", Category: "Fried", Price: 60, Quantity: 40},
}

func TestFilterEmptySearchPassesThrough(t *testing.T) {
	result := Filter(sampleCatalog, FilterState{Category: CategoryAll, MinPrice: 0, MaxPrice: 1000})
	if len(result) != len(sampleCatalog) {
		t.Errorf("Expected all %d items, got %d", len(sampleCatalog), len(result))
	}
}

func TestFilterSearchMatchesNameOrCategory(t *testing.T) {
	// "milk" matches "Milk Cake" by name and both Milk-category items
	result := Filter(sampleCatalog, FilterState{SearchText: "milk", Category: CategoryAll, MinPrice: 0, MaxPrice: 1000})
	if len(result) != 2 {
		t.Fatalf("Expected 2 matches for 'milk', got %d", len(result))
	}

	// Case-insensitive substring against the name
	result = Filter(sampleCatalog, FilterState{SearchText: "KAJU", Category: CategoryAll, MinPrice: 0, MaxPrice: 1000})
	if len(result) != 1 || result[0].ID != 1 {
		t.Errorf("Expected Kaju Katli for 'KAJU', got %+v", result)
	}
}

func TestFilterCategoryExactMatch(t *testing.T) {
	result := Filter(sampleCatalog, FilterState{Category: "Milk", MinPrice: 0, MaxPrice: 1000})
	if len(result) != 2 {
		t.Errorf("Expected 2 Milk items, got %d", len(result))
	}

	// Category match is exact, not substring
	result = Filter(sampleCatalog, FilterState{Category: "Mil", MinPrice: 0, MaxPrice: 1000})
	if len(result) != 0 {
		t.Errorf("Expected no items for partial category, got %d", len(result))
	}
}

func TestFilterPriceRangeInclusive(t *testing.T) {
	result := Filter(sampleCatalog, FilterState{Category: CategoryAll, MinPrice: 120, MaxPrice: 249})
	if len(result) != 3 {
		t.Fatalf("Expected 3 items in [120,249], got %d", len(result))
	}
	for _, item := range result {
		if item.Price < 120 || item.Price > 249 {
			t.Errorf("Item %s price %v outside inclusive range", item.Name, item.Price)
		}
	}
}

func TestFilterPredicatesCombineConjunctively(t *testing.T) {
	f := FilterState{SearchText: "a", Category: "Milk", MinPrice: 150, MaxPrice: 200}
	result := Filter(sampleCatalog, f)
	// Only "Milk Cake": contains "a", category Milk, price 180
	if len(result) != 1 || result[0].ID != 4 {
		t.Errorf("Expected only Milk Cake, got %+v", result)
	}
}

// TestFilterPropertyRandomized checks that for random catalogs and filter
// states the result is exactly the subset satisfying all three predicates.
func TestFilterPropertyRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"Kaju Katli", "Rasgulla", "Barfi", "Ladoo", "Jalebi", "Halwa", "Peda", "Soan Papdi"}
	categories := []string{"Milk", "Dry Fruit", "Chocolate", "Fried", "Gram"}
	searches := []string{"", "a", "ka", "milk", "CHOCO", "zzz", "Rasgulla"}

	for trial := 0; trial < 250; trial++ {
		catalog := make([]models.Sweet, rng.Intn(30))
		for i := range catalog {
			catalog[i] = models.Sweet{
				ID:       int64(i + 1),
				Name:     names[rng.Intn(len(names))] + fmt.Sprintf(" %d", rng.Intn(10)),
				Category: categories[rng.Intn(len(categories))],
				Price:    float64(rng.Intn(500)),
				Quantity: rng.Intn(50),
			}
		}

		min := float64(rng.Intn(300))
		f := FilterState{
			SearchText: searches[rng.Intn(len(searches))],
			Category:   append(categories, CategoryAll)[rng.Intn(len(categories)+1)],
			MinPrice:   min,
			MaxPrice:   min + float64(rng.Intn(300)),
		}

		got := Filter(catalog, f)

		// Independent oracle: membership check per item
		var want []models.Sweet
		for _, item := range catalog {
			needle := strings.ToLower(f.SearchText)
			searchOK := needle == "" ||
				strings.Contains(strings.ToLower(item.Name), needle) ||
				strings.Contains(strings.ToLower(item.Category), needle)
			categoryOK := f.Category == CategoryAll || item.Category == f.Category
			priceOK := item.Price >= f.MinPrice && item.Price <= f.MaxPrice
			if searchOK && categoryOK && priceOK {
				want = append(want, item)
			}
		}

		if len(got) != len(want) {
			t.Fatalf("trial %d: expected %d items, got %d (filter %+v)", trial, len(want), len(got), f)
		}
		for i := range got {
			if got[i].ID != want[i].ID {
				t.Fatalf("trial %d: order/content mismatch at %d: got %v want %v", trial, i, got[i].ID, want[i].ID)
			}
		}
	}
}

func TestCategoriesSortedDistinct(t *testing.T) {
	got := Categories(sampleCatalog)
	want := []string{"Chocolate", "Dry Fruit", "Fried", "Milk"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestMaxPrice(t *testing.T) {
	if max := MaxPrice(sampleCatalog); max != 310 {
		t.Errorf("Expected max price 310, got %v", max)
	}
	if max := MaxPrice(nil); max != 0 {
		t.Errorf("Expected 0 for empty catalog, got %v", max)
	}
}
