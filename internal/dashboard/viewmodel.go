package dashboard

import (
	"context"
	"errors"
	"sync"

	"example/sweetshop-client/internal/logger"
	"example/sweetshop-client/internal/models"
	"example/sweetshop-client/internal/sweets"
)

// LoadState is the catalog load state machine: Idle -> Loading -> Loaded | LoadError
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateLoadError
)

// ErrPurchaseInFlight is returned when a purchase for the same row is
// already running.
var ErrPurchaseInFlight = errors.New("purchase already in progress")

// ViewModel derives the dashboard's visible catalog from the fetched page
// plus the transient filter state. Purchases apply an optimistic local stock
// decrement without re-fetching; the cache may drift from server truth until
// the next reload, which is accepted staleness.
type ViewModel struct {
	mu         sync.Mutex
	svc        *sweets.Service
	pageSize   int
	state      LoadState
	items      []models.Sweet
	loadError  string
	filter     FilterState
	catalogMax float64
	purchasing map[int64]bool
	rowErrors  map[int64]string
}

// NewViewModel creates an idle dashboard view-model
func NewViewModel(svc *sweets.Service, pageSize int) *ViewModel {
	return &ViewModel{
		svc:        svc,
		pageSize:   pageSize,
		state:      StateIdle,
		purchasing: make(map[int64]bool),
		rowErrors:  make(map[int64]string),
	}
}

// Load replaces the cached catalog wholesale and reseeds the filter bounds
func (vm *ViewModel) Load(ctx context.Context) error {
	vm.mu.Lock()
	vm.state = StateLoading
	vm.mu.Unlock()

	items, err := vm.svc.Fetch(ctx, 0, vm.pageSize)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.state = StateLoadError
		vm.loadError = err.Error()
		return err
	}

	vm.state = StateLoaded
	vm.loadError = ""
	vm.items = items
	vm.catalogMax = MaxPrice(items)
	vm.filter = FilterState{Category: CategoryAll, MinPrice: 0, MaxPrice: vm.catalogMax}
	vm.rowErrors = make(map[int64]string)
	logger.Log.Debugw("Catalog loaded", "count", len(items), "max_price", vm.catalogMax)
	return nil
}

// State returns the current load state
func (vm *ViewModel) State() LoadState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// LoadError returns the page-scoped error message, "" when none
func (vm *ViewModel) LoadError() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loadError
}

// Items returns a copy of the full cached catalog
func (vm *ViewModel) Items() []models.Sweet {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]models.Sweet(nil), vm.items...)
}

// Visible recomputes the filtered list. Safe to call on every state change;
// the filter is pure and idempotent.
func (vm *ViewModel) Visible() []models.Sweet {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return Filter(vm.items, vm.filter)
}

// FilterState returns the current filter
func (vm *ViewModel) FilterState() FilterState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.filter
}

// SetSearchText updates the search predicate
func (vm *ViewModel) SetSearchText(text string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.filter.SearchText = text
}

// SetCategory updates the category predicate; "" means all
func (vm *ViewModel) SetCategory(category string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if category == "" {
		category = CategoryAll
	}
	vm.filter.Category = category
}

// SetPriceRange updates the price predicate, clamping both bounds into
// [0, catalog max] and forcing min <= max.
func (vm *ViewModel) SetPriceRange(min, max float64) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if min < 0 {
		min = 0
	}
	if max > vm.catalogMax {
		max = vm.catalogMax
	}
	if max < 0 {
		max = 0
	}
	if min > max {
		min = max
	}
	vm.filter.MinPrice = min
	vm.filter.MaxPrice = max
}

// Categories returns the distinct categories of the cached catalog
func (vm *ViewModel) Categories() []string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return Categories(vm.items)
}

// CatalogMaxPrice returns the price ceiling computed at load time
func (vm *ViewModel) CatalogMaxPrice() float64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.catalogMax
}

// IsPurchasing reports whether a purchase is in flight for the row
func (vm *ViewModel) IsPurchasing(id int64) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.purchasing[id]
}

// RowError returns the row-scoped error message, "" when none
func (vm *ViewModel) RowError(id int64) string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.rowErrors[id]
}

// Purchase buys one unit of the given sweet. Rows at quantity zero are
// rejected locally without touching the network. On success the cached
// quantity is decremented by one, floored at zero; no rollback is needed on
// failure since nothing was mutated beforehand.
func (vm *ViewModel) Purchase(ctx context.Context, id int64) error {
	vm.mu.Lock()
	if vm.purchasing[id] {
		vm.mu.Unlock()
		return ErrPurchaseInFlight
	}
	idx := vm.indexOf(id)
	if idx < 0 {
		vm.mu.Unlock()
		return sweets.ErrNotFound
	}
	if vm.items[idx].Quantity == 0 {
		vm.mu.Unlock()
		return sweets.ErrOutOfStock
	}
	vm.purchasing[id] = true
	vm.mu.Unlock()

	_, err := vm.svc.Purchase(ctx, id, 1)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	delete(vm.purchasing, id)

	if err != nil {
		vm.rowErrors[id] = err.Error()
		return err
	}

	delete(vm.rowErrors, id)
	if idx := vm.indexOf(id); idx >= 0 && vm.items[idx].Quantity > 0 {
		vm.items[idx].Quantity--
	}
	return nil
}

// indexOf returns the cache index of a sweet, -1 when absent.
// Callers must hold vm.mu.
func (vm *ViewModel) indexOf(id int64) int {
	for i := range vm.items {
		if vm.items[i].ID == id {
			return i
		}
	}
	return -1
}
