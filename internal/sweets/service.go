package sweets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"example/sweetshop-client/internal/api"
	"example/sweetshop-client/internal/logger"
	"example/sweetshop-client/internal/models"
)

// Catalog operations against the sweets resource

// Service translates backend responses into typed errors. All operations are
// single request/response; retry policy belongs to the caller.
type Service struct {
	client *api.Client
}

// NewService creates a catalog service on top of the HTTP wrapper
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Fetch loads one page of the catalog
func (s *Service) Fetch(ctx context.Context, skip, limit int) ([]models.Sweet, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))

	var items []models.Sweet
	if err := s.client.Get(ctx, "/api/sweets", query, &items); err != nil {
		logger.Log.Warnw("Failed to fetch sweets", "skip", skip, "limit", limit, "error", err)
		return nil, ErrFetchFailed
	}
	return items, nil
}

// Search queries the catalog by name
func (s *Service) Search(ctx context.Context, q string, skip, limit int) ([]models.Sweet, error) {
	query := url.Values{}
	query.Set("q", q)
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))

	var items []models.Sweet
	if err := s.client.Get(ctx, "/api/sweets/search", query, &items); err != nil {
		logger.Log.Warnw("Search failed", "query", q, "error", err)
		return nil, ErrSearchFailed
	}
	return items, nil
}

// Purchase buys quantity units of a sweet, returning the updated record
func (s *Service) Purchase(ctx context.Context, id int64, quantity int) (*models.Sweet, error) {
	logger.Log.Debugw("Purchasing sweet", "sweet_id", id, "quantity", quantity)

	var updated models.Sweet
	err := s.client.PostJSON(ctx, fmt.Sprintf("/api/sweets/%d/purchase", id), models.QuantityRequest{Quantity: quantity}, &updated)
	if err != nil {
		logger.Log.Warnw("Purchase failed", "sweet_id", id, "quantity", quantity, "error", err)
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			switch {
			case apiErr.Status == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Detail), "insufficient"):
				return nil, ErrInsufficientStock
			case apiErr.Status == http.StatusBadRequest:
				return nil, ErrOutOfStock
			case apiErr.Status == http.StatusUnauthorized:
				return nil, ErrUnauthenticated
			}
		}
		return nil, ErrPurchaseFailed
	}

	logger.Log.Infow("Purchase successful", "sweet_id", id, "quantity", quantity, "remaining", updated.Quantity)
	return &updated, nil
}

// Restock adds quantity units to a sweet's stock (admin only)
func (s *Service) Restock(ctx context.Context, id int64, quantity int) (*models.Sweet, error) {
	logger.Log.Debugw("Restocking sweet", "sweet_id", id, "quantity", quantity)

	var updated models.Sweet
	err := s.client.PostJSON(ctx, fmt.Sprintf("/api/sweets/%d/restock", id), models.QuantityRequest{Quantity: quantity}, &updated)
	if err != nil {
		logger.Log.Warnw("Restock failed", "sweet_id", id, "quantity", quantity, "error", err)
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusForbidden:
				return nil, ErrForbidden
			case http.StatusNotFound:
				return nil, ErrNotFound
			}
		}
		return nil, ErrRestockFailed
	}

	logger.Log.Infow("Restock successful", "sweet_id", id, "quantity", quantity, "stock", updated.Quantity)
	return &updated, nil
}

// Create adds a new sweet to the catalog (admin only)
func (s *Service) Create(ctx context.Context, req models.CreateSweetRequest) (*models.Sweet, error) {
	logger.Log.Debugw("Creating sweet", "name", req.Name, "category", req.Category, "price", req.Price, "quantity", req.Quantity)

	var created models.Sweet
	err := s.client.PostJSON(ctx, "/api/sweets", req, &created)
	if err != nil {
		logger.Log.Warnw("Create failed", "name", req.Name, "error", err)
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusForbidden:
				return nil, ErrForbidden
			case http.StatusUnprocessableEntity:
				return nil, &InvalidInputError{Message: "Invalid sweet data"}
			}
		}
		return nil, ErrCreateFailed
	}

	logger.Log.Infow("Sweet created", "sweet_id", created.ID, "name", created.Name)
	return &created, nil
}

// UpdatePrice changes a sweet's price (admin only)
func (s *Service) UpdatePrice(ctx context.Context, id int64, price float64) (*models.Sweet, error) {
	logger.Log.Debugw("Updating price", "sweet_id", id, "price", price)

	var updated models.Sweet
	err := s.client.PutJSON(ctx, fmt.Sprintf("/api/sweets/%d", id), models.PriceUpdateRequest{Price: price}, &updated)
	if err != nil {
		logger.Log.Warnw("Price update failed", "sweet_id", id, "price", price, "error", err)
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusForbidden:
				return nil, ErrForbidden
			case http.StatusNotFound:
				return nil, ErrNotFound
			case http.StatusUnprocessableEntity:
				message := apiErr.FirstMessage()
				if message == "" {
					message = "Invalid price"
				}
				return nil, &InvalidInputError{Message: message}
			}
		}
		return nil, ErrUpdateFailed
	}

	logger.Log.Infow("Price updated", "sweet_id", id, "price", updated.Price)
	return &updated, nil
}

// Delete removes a sweet from the catalog (admin only)
func (s *Service) Delete(ctx context.Context, id int64) error {
	logger.Log.Debugw("Deleting sweet", "sweet_id", id)

	if err := s.client.Delete(ctx, fmt.Sprintf("/api/sweets/%d", id)); err != nil {
		logger.Log.Warnw("Delete failed", "sweet_id", id, "error", err)
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusForbidden:
				return ErrForbidden
			case http.StatusNotFound:
				return ErrNotFound
			}
		}
		return ErrDeleteFailed
	}

	logger.Log.Infow("Sweet deleted", "sweet_id", id)
	return nil
}
