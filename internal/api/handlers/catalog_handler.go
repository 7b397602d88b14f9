package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// CatalogService defines the operations of one reference data collection
type CatalogService[T repositories.CatalogItem] interface {
	Collection() string
	List(ctx context.Context, page pagination.Page) ([]*T, int64, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, caller access.Caller, item *T) (*T, error)
	Update(ctx context.Context, caller access.Caller, id int64, mutate func(*T) error) (*T, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

// CatalogHandler serves designations, specialisations, available times and
// hospital services
type CatalogHandler[T repositories.CatalogItem] struct {
	service CatalogService[T]
}

// NewCatalogHandler creates a handler for one catalog collection
func NewCatalogHandler[T repositories.CatalogItem](service CatalogService[T]) *CatalogHandler[T] {
	return &CatalogHandler[T]{service: service}
}

// List handles GET on the collection
func (h *CatalogHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query())
	items, count, err := h.service.List(r.Context(), page)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithPage(w, r, page, count, items)
}

// Create handles POST on the collection
func (h *CatalogHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	item := new(T)
	if err := decodeJSON(w, r, item); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), access.CallerFromContext(r.Context()), item)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// Get handles GET on an item
func (h *CatalogHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

// Update handles PUT and PATCH on an item. The body is applied over the
// stored item, so omitted fields keep their values.
func (h *CatalogHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondWithAppError(w, r, apperrors.NewValidationError("invalid request payload"))
		return
	}
	if !json.Valid(body) {
		respondWithAppError(w, r, apperrors.NewValidationError("invalid request payload"))
		return
	}

	item, err := h.service.Update(r.Context(), access.CallerFromContext(r.Context()), id, func(item *T) error {
		return json.Unmarshal(body, item)
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

// Delete handles DELETE on an item
func (h *CatalogHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), access.CallerFromContext(r.Context()), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
