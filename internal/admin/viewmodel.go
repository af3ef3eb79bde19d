package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"example/sweetshop-client/internal/logger"
	"example/sweetshop-client/internal/models"
	"example/sweetshop-client/internal/sweets"
)

// Local validation and guard errors. These reject an operation before any
// network call is made.
var (
	ErrRowBusy          = errors.New("another operation is in progress for this sweet")
	ErrUnknownSweet     = errors.New("unknown sweet")
	ErrQuantityRequired = errors.New("restock quantity must be greater than zero")
	ErrPriceRequired    = errors.New("price must be greater than zero")
	ErrMissingFields    = errors.New("name and category are required")
	ErrQuantityNegative = errors.New("quantity must be zero or greater")
	ErrConfirmRequired  = errors.New("deletion requires confirmation")
)

// RowState is the transient editable state for one inventory row, keyed by
// sweet id. At most one of the three async flags may be set at a time.
type RowState struct {
	PendingQuantity  int
	PendingPriceEdit string
	ErrorMessage     string
	IsRestocking     bool
	IsSavingPrice    bool
	IsDeleting       bool
}

func (r *RowState) busy() bool {
	return r.IsRestocking || r.IsSavingPrice || r.IsDeleting
}

// ViewModel holds the admin inventory list plus per-row editable state.
// Restock, price save and delete are mutually exclusive per row; operations
// on different rows run independently.
type ViewModel struct {
	mu        sync.Mutex
	svc       *sweets.Service
	pageSize  int
	items     []models.Sweet
	rows      map[int64]*RowState
	loadError string
}

// NewViewModel creates an empty admin view-model
func NewViewModel(svc *sweets.Service, pageSize int) *ViewModel {
	return &ViewModel{
		svc:      svc,
		pageSize: pageSize,
		rows:     make(map[int64]*RowState),
	}
}

// Load replaces the inventory list and reseeds every row's editable state
func (vm *ViewModel) Load(ctx context.Context) error {
	items, err := vm.svc.Fetch(ctx, 0, vm.pageSize)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.loadError = err.Error()
		return err
	}

	vm.loadError = ""
	vm.items = items
	vm.rows = make(map[int64]*RowState)
	for _, item := range items {
		vm.rows[item.ID] = newRowState(item)
	}
	logger.Log.Debugw("Admin inventory loaded", "count", len(items))
	return nil
}

// newRowState seeds a fresh row: restock input at zero, price edit showing
// the canonical server price.
func newRowState(item models.Sweet) *RowState {
	return &RowState{
		PendingQuantity:  0,
		PendingPriceEdit: formatPrice(item.Price),
	}
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// LoadError returns the page-scoped error message, "" when none
func (vm *ViewModel) LoadError() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loadError
}

// Items returns a copy of the inventory list
func (vm *ViewModel) Items() []models.Sweet {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]models.Sweet(nil), vm.items...)
}

// Row returns a copy of the row's editable state; ok is false for unknown ids
func (vm *ViewModel) Row(id int64) (RowState, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	row, ok := vm.rows[id]
	if !ok {
		return RowState{}, false
	}
	return *row, true
}

// SetPendingQuantity records the restock input for a row
func (vm *ViewModel) SetPendingQuantity(id int64, quantity int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if row, ok := vm.rows[id]; ok {
		row.PendingQuantity = quantity
	}
}

// SetPendingPriceEdit records the price edit input for a row
func (vm *ViewModel) SetPendingPriceEdit(id int64, text string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if row, ok := vm.rows[id]; ok {
		row.PendingPriceEdit = text
	}
}

// Restock submits the row's pending restock quantity. The quantity must be
// positive; on success the row shows the server's new quantity and the input
// resets to zero.
func (vm *ViewModel) Restock(ctx context.Context, id int64) error {
	vm.mu.Lock()
	row, ok := vm.rows[id]
	if !ok {
		vm.mu.Unlock()
		return ErrUnknownSweet
	}
	if row.busy() {
		vm.mu.Unlock()
		return ErrRowBusy
	}
	quantity := row.PendingQuantity
	if quantity <= 0 {
		row.ErrorMessage = ErrQuantityRequired.Error()
		vm.mu.Unlock()
		return ErrQuantityRequired
	}
	row.IsRestocking = true
	vm.mu.Unlock()

	updated, err := vm.svc.Restock(ctx, id, quantity)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	row.IsRestocking = false

	if err != nil {
		row.ErrorMessage = err.Error()
		return err
	}

	if idx := vm.indexOf(id); idx >= 0 {
		vm.items[idx].Quantity = updated.Quantity
	}
	row.PendingQuantity = 0
	row.ErrorMessage = ""
	return nil
}

// SavePrice submits the row's pending price edit. The parsed price must be
// positive; on success the row shows the server's price and the edit field is
// re-seeded with the canonical value.
func (vm *ViewModel) SavePrice(ctx context.Context, id int64) error {
	vm.mu.Lock()
	row, ok := vm.rows[id]
	if !ok {
		vm.mu.Unlock()
		return ErrUnknownSweet
	}
	if row.busy() {
		vm.mu.Unlock()
		return ErrRowBusy
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(row.PendingPriceEdit), 64)
	if err != nil || price <= 0 {
		row.ErrorMessage = ErrPriceRequired.Error()
		vm.mu.Unlock()
		return ErrPriceRequired
	}
	row.IsSavingPrice = true
	vm.mu.Unlock()

	updated, err := vm.svc.UpdatePrice(ctx, id, price)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	row.IsSavingPrice = false

	if err != nil {
		row.ErrorMessage = err.Error()
		return err
	}

	if idx := vm.indexOf(id); idx >= 0 {
		vm.items[idx].Price = updated.Price
	}
	// Show server truth in the edit field, not whatever the client typed
	row.PendingPriceEdit = formatPrice(updated.Price)
	row.ErrorMessage = ""
	return nil
}

// Create validates the new sweet locally, submits it, and prepends the
// created row to the list with freshly seeded editable state.
func (vm *ViewModel) Create(ctx context.Context, req models.CreateSweetRequest) (*models.Sweet, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		return nil, ErrMissingFields
	}
	if req.Price <= 0 {
		return nil, ErrPriceRequired
	}
	if req.Quantity < 0 {
		return nil, ErrQuantityNegative
	}

	created, err := vm.svc.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.items = append([]models.Sweet{*created}, vm.items...)
	vm.rows[created.ID] = newRowState(*created)
	return created, nil
}

// Delete removes a sweet after explicit confirmation. On success the row and
// all its transient state are purged.
func (vm *ViewModel) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}

	vm.mu.Lock()
	row, ok := vm.rows[id]
	if !ok {
		vm.mu.Unlock()
		return ErrUnknownSweet
	}
	if row.busy() {
		vm.mu.Unlock()
		return ErrRowBusy
	}
	row.IsDeleting = true
	vm.mu.Unlock()

	err := vm.svc.Delete(ctx, id)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	row.IsDeleting = false

	if err != nil {
		row.ErrorMessage = err.Error()
		return err
	}

	if idx := vm.indexOf(id); idx >= 0 {
		vm.items = append(vm.items[:idx], vm.items[idx+1:]...)
	}
	delete(vm.rows, id)
	return nil
}

// indexOf returns the list index of a sweet, -1 when absent.
// Callers must hold vm.mu.
func (vm *ViewModel) indexOf(id int64) int {
	for i := range vm.items {
		if vm.items[i].ID == id {
			return i
		}
	}
	return -1
}
