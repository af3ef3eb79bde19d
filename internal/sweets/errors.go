package sweets

import "errors"

// Errors returned by the catalog service. Each operation maps backend status
// codes onto this small taxonomy; callers classify with errors.Is / errors.As
// and own any retry (nothing here retries automatically).
var (
	ErrOutOfStock        = errors.New("out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthenticated   = errors.New("please log in to purchase")
	ErrForbidden         = errors.New("admin access required")
	ErrNotFound          = errors.New("sweet not found")

	ErrFetchFailed    = errors.New("failed to load sweets, please try again")
	ErrSearchFailed   = errors.New("search failed, please try again")
	ErrPurchaseFailed = errors.New("purchase failed, please try again")
	ErrRestockFailed  = errors.New("restock failed, please try again")
	ErrCreateFailed   = errors.New("could not create sweet, please try again")
	ErrUpdateFailed   = errors.New("could not update price, please try again")
	ErrDeleteFailed   = errors.New("could not delete sweet, please try again")
)

// InvalidInputError carries the backend's validation message for a 422
// response, using the first structured message when one is present.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}
