package models

// Sweet represents a catalog item. The backend owns the authoritative record;
// the client holds a cached, possibly stale copy.
type Sweet struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Session represents the identity decoded from a bearer token
type Session struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// TokenResponse is the login response from the backend
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the registration payload sent to the backend
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// CreateSweetRequest is the payload for creating a new sweet
type CreateSweetRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// QuantityRequest is the payload for purchase and restock calls
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// PriceUpdateRequest is the payload for price updates
type PriceUpdateRequest struct {
	Price float64 `json:"price"`
}
