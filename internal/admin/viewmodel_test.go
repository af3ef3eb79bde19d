package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"example/sweetshop-client/internal/api"
	"example/sweetshop-client/internal/logger"
	"example/sweetshop-client/internal/models"
	"example/sweetshop-client/internal/store"
	"example/sweetshop-client/internal/sweets"
)

func init() {
	// Initialize logger for tests
	logger.InitLoggerDev()
}

// inventoryBackend fakes the admin-facing sweets endpoints in memory
type inventoryBackend struct {
	catalog []models.Sweet
	nextID  int64
	hits    int
}

func (b *inventoryBackend) find(id int64) *models.Sweet {
	for i := range b.catalog {
		if b.catalog[i].ID == id {
			return &b.catalog[i]
		}
	}
	return nil
}

func (b *inventoryBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.hits++
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/sweets":
			json.NewEncoder(w).Encode(b.catalog)

		case r.Method == http.MethodPost && r.URL.Path == "/api/sweets":
			var req models.CreateSweetRequest
			json.NewDecoder(r.Body).Decode(&req)
			b.nextID++
			created := models.Sweet{ID: b.nextID, Name: req.Name, Category: req.Category, Price: req.Price, Quantity: req.Quantity}
			b.catalog = append(b.catalog, created)
			json.NewEncoder(w).Encode(created)

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/restock"):
			id := pathID(r.URL.Path, "/restock")
			var req models.QuantityRequest
			json.NewDecoder(r.Body).Decode(&req)
			item := b.find(id)
			if item == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			item.Quantity += req.Quantity
			json.NewEncoder(w).Encode(item)

		case r.Method == http.MethodPut:
			id := pathID(r.URL.Path, "")
			var req models.PriceUpdateRequest
			json.NewDecoder(r.Body).Decode(&req)
			item := b.find(id)
			if item == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			item.Price = req.Price
			json.NewEncoder(w).Encode(item)

		case r.Method == http.MethodDelete:
			id := pathID(r.URL.Path, "")
			for i := range b.catalog {
				if b.catalog[i].ID == id {
					b.catalog = append(b.catalog[:i], b.catalog[i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)

		default:
			t.Errorf("Unexpected %s %s", r.Method, r.URL.Path)
		}
	}
}

// pathID extracts the sweet id from /api/sweets/{id}[suffix]
func pathID(path, suffix string) int64 {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "/api/sweets/"), suffix)
	id, _ := strconv.ParseInt(trimmed, 10, 64)
	return id
}

func sampleInventory() *inventoryBackend {
	return &inventoryBackend{
		nextID: 2,
		catalog: []models.Sweet{
			{ID: 1, Name: "Kaju Katli", Category: "Dry Fruit", Price: 249, Quantity: 3},
			{ID: 2, Name: "Rasgulla", Category: "Milk", Price: 120, Quantity: 10},
		},
	}
}

func newTestViewModel(t *testing.T, backend *inventoryBackend) *ViewModel {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	server := httptest.NewServer(backend.handler(t))
	t.Cleanup(func() {
		server.Close()
		st.Close()
	})
	return NewViewModel(sweets.NewService(api.New(server.URL, st)), 100)
}

func loadedViewModel(t *testing.T, backend *inventoryBackend) *ViewModel {
	vm := newTestViewModel(t, backend)
	if err := vm.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return vm
}

func TestLoadSeedsRowState(t *testing.T) {
	vm := loadedViewModel(t, sampleInventory())

	row, ok := vm.Row(1)
	if !ok {
		t.Fatal("Expected row state for sweet 1")
	}
	if row.PendingQuantity != 0 {
		t.Errorf("Expected restock input seeded to 0, got %d", row.PendingQuantity)
	}
	if row.PendingPriceEdit != "249" {
		t.Errorf("Expected price edit seeded to 249, got %q", row.PendingPriceEdit)
	}
}

func TestRestockRoundTrip(t *testing.T) {
	vm := loadedViewModel(t, sampleInventory())

	// Restocking +10 at quantity 3 displays 13 and resets the input
	vm.SetPendingQuantity(1, 10)
	if err := vm.Restock(context.Background(), 1); err != nil {
		t.Fatalf("Restock failed: %v", err)
	}

	for _, item := range vm.Items() {
		if item.ID == 1 && item.Quantity != 13 {
			t.Errorf("Expected quantity 13 after restock, got %d", item.Quantity)
		}
	}
	row, _ := vm.Row(1)
	if row.PendingQuantity != 0 {
		t.Errorf("Expected restock input reset to 0, got %d", row.PendingQuantity)
	}
	if row.ErrorMessage != "" {
		t.Errorf("Expected no row error, got %q", row.ErrorMessage)
	}
}

func TestRestockRejectsNonPositiveQuantityLocally(t *testing.T) {
	backend := sampleInventory()
	vm := loadedViewModel(t, backend)
	hitsAfterLoad := backend.hits

	vm.SetPendingQuantity(1, 0)
	if err := vm.Restock(context.Background(), 1); !errors.Is(err, ErrQuantityRequired) {
		t.Errorf("Expected ErrQuantityRequired, got %v", err)
	}
	if backend.hits != hitsAfterLoad {
		t.Error("Invalid restock must not reach the backend")
	}

	row, _ := vm.Row(1)
	if row.ErrorMessage == "" {
		t.Error("Expected row error for invalid quantity")
	}
}

func TestSavePriceReseedsCanonicalValue(t *testing.T) {
	vm := loadedViewModel(t, sampleInventory())

	vm.SetPendingPriceEdit(1, "299.50")
	if err := vm.SavePrice(context.Background(), 1); err != nil {
		t.Fatalf("SavePrice failed: %v", err)
	}

	for _, item := range vm.Items() {
		if item.ID == 1 && item.Price != 299.50 {
			t.Errorf("Expected price 299.50, got %v", item.Price)
		}
	}
	row, _ := vm.Row(1)
	if row.PendingPriceEdit != "299.5" {
		t.Errorf("Expected edit field re-seeded with canonical value, got %q", row.PendingPriceEdit)
	}
}

func TestSavePriceRejectsInvalidInputLocally(t *testing.T) {
	backend := sampleInventory()
	vm := loadedViewModel(t, backend)
	hitsAfterLoad := backend.hits

	for _, input := range []string{"0", "-5", "abc", ""} {
		vm.SetPendingPriceEdit(1, input)
		if err := vm.SavePrice(context.Background(), 1); !errors.Is(err, ErrPriceRequired) {
			t.Errorf("input %q: expected ErrPriceRequired, got %v", input, err)
		}
	}
	if backend.hits != hitsAfterLoad {
		t.Error("Invalid price edits must not reach the backend")
	}
}

func TestCreateValidatesBeforeNetwork(t *testing.T) {
	backend := sampleInventory()
	vm := loadedViewModel(t, backend)
	hitsAfterLoad := backend.hits

	cases := []struct {
		name string
		req  models.CreateSweetRequest
		want error
	}{
		{"missing name", models.CreateSweetRequest{Category: "Milk", Price: 10, Quantity: 1}, ErrMissingFields},
		{"missing category", models.CreateSweetRequest{Name: "Peda", Price: 10, Quantity: 1}, ErrMissingFields},
		{"zero price", models.CreateSweetRequest{Name: "Peda", Category: "Milk", Price: 0, Quantity: 1}, ErrPriceRequired},
		{"negative price", models.CreateSweetRequest{Name: "Peda", Category: "Milk", Price: -3, Quantity: 1}, ErrPriceRequired},
		{"negative quantity", models.CreateSweetRequest{Name: "Peda", Category: "Milk", Price: 10, Quantity: -1}, ErrQuantityNegative},
	}
	for _, tc := range cases {
		if _, err := vm.Create(context.Background(), tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if backend.hits != hitsAfterLoad {
		t.Error("Invalid create requests must not reach the backend")
	}
}

func TestCreatePrependsRowAndSeedsState(t *testing.T) {
	vm := loadedViewModel(t, sampleInventory())
	before := len(vm.Items())

	created, err := vm.Create(context.Background(), models.CreateSweetRequest{
		Name: "Kaju Katli Special", Category: "Dry Fruit", Price: 249, Quantity: 20,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	items := vm.Items()
	if len(items) != before+1 {
		t.Fatalf("Expected exactly one new row, got %d -> %d", before, len(items))
	}
	if items[0].ID != created.ID {
		t.Errorf("Expected new row prepended, first row id %d", items[0].ID)
	}
	if items[0].Name != "Kaju Katli Special" || items[0].Price != 249 || items[0].Quantity != 20 {
		t.Errorf("Created row does not carry submitted values: %+v", items[0])
	}

	row, ok := vm.Row(created.ID)
	if !ok {
		t.Fatal("Expected seeded row state for created sweet")
	}
	if row.PendingPriceEdit != "249" {
		t.Errorf("Expected price edit seeded, got %q", row.PendingPriceEdit)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	backend := sampleInventory()
	vm := loadedViewModel(t, backend)
	hitsAfterLoad := backend.hits

	if err := vm.Delete(context.Background(), 1, false); !errors.Is(err, ErrConfirmRequired) {
		t.Errorf("Expected ErrConfirmRequired, got %v", err)
	}
	if backend.hits != hitsAfterLoad {
		t.Error("Unconfirmed delete must not reach the backend")
	}
	if len(vm.Items()) != 2 {
		t.Error("Unconfirmed delete must not mutate the list")
	}
}

func TestDeleteRemovesRowAndPurgesState(t *testing.T) {
	vm := loadedViewModel(t, sampleInventory())

	// Leave transient state behind so the purge is observable
	vm.SetPendingQuantity(1, 7)
	vm.SetPendingPriceEdit(1, "999")

	if err := vm.Delete(context.Background(), 1, true); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, item := range vm.Items() {
		if item.ID == 1 {
			t.Error("Expected sweet 1 removed from the list")
		}
	}
	if _, ok := vm.Row(1); ok {
		t.Error("Expected row state purged after delete")
	}
}

func TestRowOperationsAreMutuallyExclusive(t *testing.T) {
	vm := loadedViewModel(t, sampleInventory())

	// Simulate an in-flight operation on row 1
	vm.mu.Lock()
	vm.rows[1].IsRestocking = true
	vm.mu.Unlock()

	vm.SetPendingQuantity(1, 5)
	if err := vm.Restock(context.Background(), 1); !errors.Is(err, ErrRowBusy) {
		t.Errorf("Expected ErrRowBusy for restock, got %v", err)
	}
	vm.SetPendingPriceEdit(1, "100")
	if err := vm.SavePrice(context.Background(), 1); !errors.Is(err, ErrRowBusy) {
		t.Errorf("Expected ErrRowBusy for save-price, got %v", err)
	}
	if err := vm.Delete(context.Background(), 1, true); !errors.Is(err, ErrRowBusy) {
		t.Errorf("Expected ErrRowBusy for delete, got %v", err)
	}

	// A different row proceeds independently
	vm.SetPendingQuantity(2, 5)
	if err := vm.Restock(context.Background(), 2); err != nil {
		t.Errorf("Expected independent row to restock, got %v", err)
	}
}

func TestUnknownRowRejected(t *testing.T) {
	vm := loadedViewModel(t, sampleInventory())

	if err := vm.Restock(context.Background(), 99); !errors.Is(err, ErrUnknownSweet) {
		t.Errorf("Expected ErrUnknownSweet, got %v", err)
	}
	if err := vm.Delete(context.Background(), 99, true); !errors.Is(err, ErrUnknownSweet) {
		t.Errorf("Expected ErrUnknownSweet, got %v", err)
	}
}
