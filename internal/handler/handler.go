// Package handler serves rendered invoice documents over plain HTTP.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/atlekbai/timesheet/internal/invoice"
	"github.com/atlekbai/timesheet/internal/pdf"
	"github.com/atlekbai/timesheet/internal/repository"
)

// document is a rendered invoice.
type document struct {
	name string
	body []byte
}

type Handler struct {
	invoices *invoice.Service
	cache    *expirable.LRU[int64, document]
	log      *zap.Logger
}

// New returns a handler caching up to size rendered documents for ttl.
func New(invoices *invoice.Service, size int, ttl time.Duration, log *zap.Logger) *Handler {
	return &Handler{
		invoices: invoices,
		cache:    expirable.NewLRU[int64, document](size, nil, ttl),
		log:      log,
	}
}

// Register adds the document routes to r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/invoices/{id:[0-9]+}/pdf", h.InvoicePDF).Methods(http.MethodGet, http.MethodHead)
}

// Invalidate drops the cached document of invoice id.
func (h *Handler) Invalidate(id int64) {
	if h.cache.Remove(id) {
		h.log.Debug("invoice document evicted", zap.Int64("id", id))
	}
}

// Purge drops every cached document.
func (h *Handler) Purge() {
	n := h.cache.Len()
	h.cache.Purge()
	h.log.Debug("invoice documents purged", zap.Int("count", n))
}

// InvoicePDF handles GET /invoices/{id}/pdf
func (h *Handler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid invoice id", mux.Vars(r)["id"])
		return
	}

	doc, hit := h.cache.Get(id)
	if !hit {
		doc, err = h.render(r, id)
		if err != nil {
			h.writeLoadError(w, id, err)
			return
		}
		h.cache.Add(id, doc)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.name))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.body)))
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(doc.body); err != nil {
		h.log.Warn("write invoice document", zap.Int64("id", id), zap.Error(err))
	}
}

func (h *Handler) render(r *http.Request, id int64) (document, error) {
	data, err := h.invoices.Load(r.Context(), id)
	if err != nil {
		return document{}, err
	}
	body, err := pdf.Bytes(data)
	if err != nil {
		return document{}, err
	}
	h.log.Info("invoice rendered", zap.Int64("id", id), zap.String("file", data.FileName()), zap.Int("bytes", len(body)))
	return document{name: data.FileName(), body: body}, nil
}

func (h *Handler) writeLoadError(w http.ResponseWriter, id int64, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "INVOICE_NOT_FOUND", "Invoice not found", err.Error())
	case errors.Is(err, invoice.ErrIncomplete):
		writeError(w, http.StatusUnprocessableEntity, "INVOICE_INCOMPLETE", "Unable to load invoice data", err.Error())
	default:
		h.log.Error("render invoice", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate PDF", "")
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
