package handler

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/rescuegrid/dispatch-admin/internal/filter"
	"github.com/rescuegrid/dispatch-admin/internal/model"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	"go.uber.org/zap"
)

const qrModuleWidth = 8

// ViewResponse describes a dashboard view resolved from its URL
type ViewResponse struct {
	State          ViewState            `json:"state"`
	CanonicalQuery string               `json:"canonicalQuery"`
	BackendParams  filter.BackendParams `json:"backendParams"`
	model.BookingPage
}

// ViewState is the JSON form of filter.State
type ViewState struct {
	DateFilter filter.DateFilter `json:"dateFilter"`
	FromDate   string            `json:"fromDate,omitempty"`
	ToDate     string            `json:"toDate,omitempty"`
	Status     string            `json:"status"`
	Page       int               `json:"page"`
}

func newViewState(s filter.State) ViewState {
	vs := ViewState{
		DateFilter: s.DateFilter(),
		Status:     s.Status,
		Page:       s.Page,
	}
	if from, to, ok := s.Selection.Range(); ok {
		vs.FromDate = from.Format(filter.DateLayout)
		vs.ToDate = to.Format(filter.DateLayout)
	}
	return vs
}

// resolveView runs the filter synchronizer over the request query
func (h *BookingHandler) resolveView(r *http.Request) (*filter.RequestStore, *filter.Synchronizer) {
	store := filter.NewRequestStore(r)
	return store, filter.Initialize(store, h.opts.DefaultDateFilter)
}

// viewExtras are the non-filter keys a view forwards to the list query
func viewExtras(q url.Values) map[string]string {
	extra := map[string]string{}
	for _, key := range []string{keyServiceType, keySearch, keySortBy, keySortDir} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			extra[key] = v
		}
	}
	return extra
}

// View resolves the dashboard booking view. Non-canonical URLs are
// redirected to their canonical form first.
func (h *BookingHandler) View(w http.ResponseWriter, r *http.Request) {
	store, sync := h.resolveView(r)
	if store.Changed() {
		http.Redirect(w, r, r.URL.Path+"?"+store.Encode(), http.StatusFound)
		return
	}

	q := store.Read()
	pageSize := h.opts.clampPageSize(q.Get(filter.KeyLimit))
	bp := sync.BuildBackendParams(pageSize, viewExtras(q))
	params := ParseListBookingsParams(bp.Values(), h.opts)

	page, err := h.listPage(r.Context(), params)
	if err != nil {
		h.log.Error("failed to resolve view", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch bookings", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "View resolved successfully", ViewResponse{
		State:          newViewState(sync.State()),
		CanonicalQuery: store.Encode(),
		BackendParams:  bp,
		BookingPage:    *page,
	})
}

// ShareURL returns the public dashboard URL for a canonical view query
func (h *BookingHandler) ShareURL(canonicalQuery string) string {
	base := strings.TrimRight(h.opts.PublicBaseURL, "/") + "/bookings"
	if canonicalQuery == "" {
		return base
	}
	return base + "?" + canonicalQuery
}

// ViewQR renders a PNG QR code linking to the canonical dashboard view
func (h *BookingHandler) ViewQR(w http.ResponseWriter, r *http.Request) {
	store, _ := h.resolveView(r)

	qrc, err := qrcode.New(h.ShareURL(store.Encode()))
	if err != nil {
		h.log.Error("failed to encode QR code", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate QR code", nil)
		return
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopCloser{&buf},
		standard.WithQRWidth(qrModuleWidth),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(writer); err != nil {
		h.log.Error("failed to render QR code", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate QR code", nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Debug("failed to write qr code", zap.Error(err))
	}
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }
