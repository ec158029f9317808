package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rescuegrid/dispatch-admin/internal/model"
	"go.uber.org/zap"
)

const csvMimeType = "text/csv"

// ExportUploader stores an exported file and returns a link to it
type ExportUploader interface {
	Upload(ctx context.Context, filename, mimeType string, file io.Reader) (string, error)
}

// ExportResponse is returned after an export upload
type ExportResponse struct {
	Filename string `json:"filename"`
	Link     string `json:"link"`
	Rows     int    `json:"rows"`
}

var exportHeader = []string{
	"reference", "service_type", "status", "customer_name", "customer_phone",
	"pickup_address", "drop_address", "vendor_name", "amount", "created_at",
}

// Export streams every booking matching the view as CSV
func (h *BookingHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := h.writeExport(r, &buf); err != nil {
		h.log.Error("failed to export bookings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to export bookings", nil)
		return
	}

	w.Header().Set("Content-Type", csvMimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportFilename()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Debug("failed to write export", zap.Error(err))
	}
}

// ExportUpload writes the CSV export to Drive
func (h *BookingHandler) ExportUpload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		respondError(w, http.StatusServiceUnavailable, "Export storage is not configured", nil)
		return
	}

	var buf bytes.Buffer
	rows, err := h.writeExport(r, &buf)
	if err != nil {
		h.log.Error("failed to export bookings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to export bookings", nil)
		return
	}

	filename := h.exportFilename()
	link, err := h.uploader.Upload(r.Context(), filename, csvMimeType, &buf)
	if err != nil {
		h.log.Error("failed to upload export", zap.String("filename", filename), zap.Error(err))
		respondError(w, http.StatusBadGateway, "Failed to upload export", nil)
		return
	}

	respondSuccess(w, http.StatusCreated, "Export uploaded successfully", ExportResponse{
		Filename: filename,
		Link:     link,
		Rows:     rows,
	})
}

// writeExport walks every page of the view's result set
func (h *BookingHandler) writeExport(r *http.Request, out io.Writer) (int, error) {
	store, sync := h.resolveView(r)
	pageSize := h.opts.MaxPageSize
	if pageSize <= 0 {
		pageSize = h.opts.clampPageSize("")
	}
	bp := sync.BuildBackendParams(pageSize, viewExtras(store.Read()))

	cw := csv.NewWriter(out)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}

	rows := 0
	for page := 1; ; page++ {
		bp.Page = page
		params := ParseListBookingsParams(bp.Values(), h.opts)
		result, err := h.listPage(r.Context(), params)
		if err != nil {
			return rows, err
		}
		for _, b := range result.Items {
			if err := cw.Write(exportRow(b, h.opts.Location)); err != nil {
				return rows, err
			}
			rows++
		}
		if page >= result.Pagination.TotalPages {
			break
		}
	}

	cw.Flush()
	return rows, cw.Error()
}

func (h *BookingHandler) exportFilename() string {
	return "bookings-" + h.opts.now().Format("20060102-150405") + ".csv"
}

func exportRow(b model.BookingResponse, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	return []string{
		b.Reference,
		b.ServiceType,
		b.Status,
		b.CustomerName,
		b.CustomerPhone,
		b.PickupAddress,
		deref(b.DropAddress),
		deref(b.VendorName),
		deref(b.Amount),
		b.CreatedAt.In(loc).Format(time.RFC3339),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
