package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rescuegrid/dispatch-admin/internal/cache"
	"github.com/rescuegrid/dispatch-admin/internal/model"
	"github.com/rescuegrid/dispatch-admin/internal/repository"
	"github.com/rescuegrid/dispatch-admin/internal/util"
	"go.uber.org/zap"
)

// maxReferenceAttempts bounds retries on a reference collision
const maxReferenceAttempts = 3

// BookingStore is the subset of repository.Queries used for bookings
type BookingStore interface {
	ListBookingsPaginated(ctx context.Context, params model.ListBookingsParams) (*repository.ListBookingsPaginatedResult, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (repository.Booking, error)
	CreateBooking(ctx context.Context, arg repository.CreateBookingParams) (repository.Booking, error)
	UpdateBookingStatus(ctx context.Context, arg repository.UpdateBookingStatusParams) (repository.Booking, error)
}

// BookingHandler handles booking list, detail and view requests
type BookingHandler struct {
	store    BookingStore
	cache    cache.ListCache
	uploader ExportUploader
	opts     ListOptions
	log      *zap.Logger
}

// NewBookingHandler creates a new BookingHandler. cache and uploader may be nil.
func NewBookingHandler(store BookingStore, listCache cache.ListCache, uploader ExportUploader, opts ListOptions, log *zap.Logger) *BookingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{
		store:    store,
		cache:    listCache,
		uploader: uploader,
		opts:     opts,
		log:      log,
	}
}

// List returns one filtered page of bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	params := ParseListBookingsParams(r.URL.Query(), h.opts)

	page, err := h.listPage(r.Context(), params)
	if err != nil {
		h.log.Error("failed to list bookings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch bookings", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Bookings retrieved successfully", page)
}

// listPage serves a page from the cache or the store
func (h *BookingHandler) listPage(ctx context.Context, params model.ListBookingsParams) (*model.BookingPage, error) {
	// the key is fixed before the store read so a concurrent write's
	// Invalidate keeps this result out of the fresh generation
	var key string
	if h.cache != nil {
		k, err := h.cache.Key(ctx, listCacheKey(params))
		if err != nil {
			h.log.Warn("list cache key failed", zap.Error(err))
		} else {
			key = k
			var cached model.BookingPage
			hit, err := h.cache.Get(ctx, key, &cached)
			if err != nil {
				h.log.Warn("list cache read failed", zap.Error(err))
			} else if hit {
				return &cached, nil
			}
		}
	}

	result, err := h.store.ListBookingsPaginated(ctx, params)
	if err != nil {
		return nil, err
	}

	page := &model.BookingPage{
		Items: make([]model.BookingResponse, len(result.Bookings)),
		Pagination: model.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  result.TotalCount,
			TotalPages:  CalculateTotalPages(result.TotalCount, params.PerPage),
		},
	}
	for i, b := range result.Bookings {
		page.Items[i] = toBookingResponse(b)
	}

	if key != "" {
		if err := h.cache.Set(ctx, key, page); err != nil {
			h.log.Warn("list cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

// GetByID returns full booking details by ID
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := h.store.GetBookingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Booking not found", nil)
			return
		}
		h.log.Error("failed to fetch booking", zap.Stringer("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch booking", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Booking retrieved successfully", toBookingResponse(booking))
}

// Create registers a new booking
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	var (
		booking repository.Booking
		err     error
	)
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		booking, err = h.store.CreateBooking(r.Context(), repository.CreateBookingParams{
			Reference:     util.GenerateReference(req.ServiceType),
			ServiceType:   req.ServiceType,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			PickupAddress: req.PickupAddress,
			DropAddress:   repository.PtrToNullString(req.DropAddress),
			VendorName:    repository.PtrToNullString(req.VendorName),
			Amount:        repository.PtrToNullString(req.Amount),
		})
		if !isUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		h.log.Error("failed to create booking", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create booking", nil)
		return
	}

	h.invalidate(r.Context())
	respondSuccess(w, http.StatusCreated, "Booking created successfully", toBookingResponse(booking))
}

// UpdateStatus moves a booking to a new status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req model.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	booking, err := h.store.UpdateBookingStatus(r.Context(), repository.UpdateBookingStatusParams{
		ID:     id,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Booking not found", nil)
			return
		}
		h.log.Error("failed to update booking status", zap.Stringer("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update booking", nil)
		return
	}

	h.invalidate(r.Context())
	respondSuccess(w, http.StatusOK, "Booking updated successfully", toBookingResponse(booking))
}

func (h *BookingHandler) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		h.log.Warn("list cache invalidation failed", zap.Error(err))
	}
}

func toBookingResponse(b repository.Booking) model.BookingResponse {
	return model.BookingResponse{
		ID:            b.ID,
		Reference:     b.Reference,
		ServiceType:   b.ServiceType,
		Status:        b.Status,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		PickupAddress: b.PickupAddress,
		DropAddress:   repository.NullStringToPtr(b.DropAddress),
		VendorName:    repository.NullStringToPtr(b.VendorName),
		Amount:        repository.NullStringToPtr(b.Amount),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// isUniqueViolation detects PostgreSQL unique_violation errors
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
