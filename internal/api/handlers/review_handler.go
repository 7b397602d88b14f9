package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// ReviewService defines the interface for review operations
type ReviewService interface {
	Create(ctx context.Context, caller access.Caller, input services.CreateReviewInput) (*entities.Review, error)
	List(ctx context.Context, filter repositories.ReviewFilter, page pagination.Page) ([]*entities.Review, int64, error)
	Get(ctx context.Context, id int64) (*entities.Review, error)
	Update(ctx context.Context, caller access.Caller, id int64, patch services.ReviewPatch) (*entities.Review, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

// ReviewHandler handles review requests
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviews handles GET /api/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	doctorID, err := queryID(q, "doctor")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	// "reviwer" is the historical spelling of the parameter
	reviewerKey := "reviewer"
	if q.Get(reviewerKey) == "" && q.Get("reviwer") != "" {
		reviewerKey = "reviwer"
	}
	reviewerID, err := queryID(q, reviewerKey)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	filter := repositories.ReviewFilter{
		DoctorID:   doctorID,
		ReviewerID: reviewerID,
		Rating:     entities.Rating(q.Get("rating")),
	}

	page := pagination.FromQuery(q)
	reviews, count, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithPage(w, r, page, count, reviews)
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var input services.CreateReviewInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	review, err := h.service.Create(r.Context(), access.CallerFromContext(r.Context()), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	review, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// UpdateReview handles PUT and PATCH /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var patch services.ReviewPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	review, err := h.service.Update(r.Context(), access.CallerFromContext(r.Context()), id, patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
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
