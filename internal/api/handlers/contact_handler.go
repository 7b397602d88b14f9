package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/providers"
	"github.com/zatekoja/hospital-management/pkg/pagination"
	"github.com/zatekoja/hospital-management/pkg/utils"
)

const contactDedupWindow = 10 * time.Minute

// ContactService defines the contact desk operations used by the handler
type ContactService interface {
	Submit(ctx context.Context, message *entities.ContactMessage) (*entities.ContactMessage, error)
	List(ctx context.Context, caller access.Caller, page pagination.Page) ([]*entities.ContactMessage, int64, error)
	Get(ctx context.Context, caller access.Caller, id int64) (*entities.ContactMessage, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

// ContactHandler handles contact form submissions and the staff inbox
type ContactHandler struct {
	service ContactService
	cache   providers.CacheProvider
	deduper *localDeduper
}

// NewContactHandler creates a new contact handler. Repeated identical
// submissions are dropped using cache, or an in-process table when cache
// is nil.
func NewContactHandler(service ContactService, cache providers.CacheProvider) *ContactHandler {
	return &ContactHandler{
		service: service,
		cache:   cache,
		deduper: newLocalDeduper(),
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SubmitContact handles POST /api/contact-us
func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var payload contactRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	dupKey := "contact:dup:" + contactFingerprint(payload, utils.ClientIP(r))
	if h.isDuplicate(r.Context(), dupKey) {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "duplicate_ignored",
		})
		return
	}

	message, err := h.service.Submit(r.Context(), &entities.ContactMessage{
		Name:    payload.Name,
		Phone:   payload.Phone,
		Message: payload.Message,
	})
	if err != nil {
		h.forget(r.Context(), dupKey)
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, message)
}

// ListContacts handles GET /api/contact-us
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query())
	messages, count, err := h.service.List(r.Context(), access.CallerFromContext(r.Context()), page)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithPage(w, r, page, count, messages)
}

// GetContact handles GET /api/contact-us/{id}
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	message, err := h.service.Get(r.Context(), access.CallerFromContext(r.Context()), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, message)
}

// DeleteContact handles DELETE /api/contact-us/{id}
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
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

func (h *ContactHandler) isDuplicate(ctx context.Context, key string) bool {
	if h.cache == nil {
		return h.deduper.seen(key, contactDedupWindow)
	}

	exists, err := h.cache.Exists(ctx, key)
	if err == nil && exists {
		return true
	}

	_ = h.cache.Set(ctx, key, []byte("1"), int(contactDedupWindow.Seconds()))
	return false
}

// forget releases key so a corrected resubmission is not treated as a repeat
func (h *ContactHandler) forget(ctx context.Context, key string) {
	if h.cache == nil {
		h.deduper.forget(key)
		return
	}
	_ = h.cache.Delete(ctx, key)
}

func contactFingerprint(payload contactRequest, ip string) string {
	normalized := []string{
		strings.ToLower(strings.Join(strings.Fields(payload.Name), " ")),
		strings.TrimSpace(payload.Phone),
		strings.ToLower(strings.Join(strings.Fields(payload.Message), " ")),
		ip,
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

type localDeduper struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newLocalDeduper() *localDeduper {
	return &localDeduper{
		entries: make(map[string]time.Time),
	}
}

func (d *localDeduper) seen(key string, window time.Duration) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for k, expiresAt := range d.entries {
		if now.After(expiresAt) {
			delete(d.entries, k)
		}
	}

	if expiresAt, ok := d.entries[key]; ok && now.Before(expiresAt) {
		return true
	}

	d.entries[key] = now.Add(window)
	return false
}

func (d *localDeduper) forget(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, key)
}
