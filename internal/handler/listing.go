package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/motorline/motorline-go/internal/middleware"
	"github.com/motorline/motorline-go/internal/model"
	"github.com/motorline/motorline-go/internal/service"
)

// ListingHandler handles HTTP requests for car listings.
type ListingHandler struct {
	service *service.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(svc *service.ListingService) *ListingHandler {
	return &ListingHandler{service: svc}
}

// HandleCreate handles POST /api/v1/listings requests.
func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	resp, err := h.service.Create(r.Context(), user.ID, req)
	if err != nil {
		if isListingValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /api/v1/listings requests. Query parameters:
// make, sold, limit, offset.
func (h *ListingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.ListingFilter{Make: q.Get("make")}
	if v := q.Get("sold"); v != "" {
		sold, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid sold parameter"))
			return
		}
		filter.Sold = &sold
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	listings, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listings)
}

// HandleGet handles GET /api/v1/listings/{listing_id} requests.
func (h *ListingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listing_id")
	if id == "" || len(id) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid listing id"))
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleSearch handles GET /api/v1/listings/search?q= requests.
func (h *ListingHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, service.ErrQueryRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// HandleListMine handles GET /api/v1/my/listings requests.
func (h *ListingHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	listings, err := h.service.ListMine(r.Context(), user.ID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listings)
}

// HandleUpdate handles PUT /api/v1/listings/{listing_id} requests.
func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id := chi.URLParam(r, "listing_id")
	if id == "" || len(id) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid listing id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	resp, err := h.service.Update(r.Context(), user.ID, id, req)
	if err != nil {
		h.writeMutationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleMarkSold handles POST /api/v1/listings/{listing_id}/sold requests.
func (h *ListingHandler) HandleMarkSold(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id := chi.URLParam(r, "listing_id")
	if id == "" || len(id) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid listing id"))
		return
	}

	resp, err := h.service.MarkSold(r.Context(), user.ID, id)
	if err != nil {
		h.writeMutationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/v1/listings/{listing_id} requests.
func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id := chi.URLParam(r, "listing_id")
	if id == "" || len(id) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid listing id"))
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		h.writeMutationError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeMutationError maps listing mutation failures: 404 for a missing
// listing, 403 for someone else's, 400 for bad fields. Authentication
// failures (401) never reach here; the middleware rejects those first.
func (h *ListingHandler) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrListingNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	case isListingValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		writeInternalError(w, r, err)
	}
}

func isListingValidationError(err error) bool {
	return errors.Is(err, service.ErrMakeRequired) ||
		errors.Is(err, service.ErrModelRequired) ||
		errors.Is(err, service.ErrYearInvalid) ||
		errors.Is(err, service.ErrPriceInvalid) ||
		errors.Is(err, service.ErrMileageInvalid)
}
