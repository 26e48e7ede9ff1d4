package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/csvimport"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
	"github.com/YelzhanWeb/ordertaker/internal/domain"
	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

const maxImportBytes = 5 << 20

type CatalogHandler struct {
	service interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service interfaces.CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

type ImportResponse struct {
	Imported int                     `json:"imported"`
	Products []domain.Product        `json:"products"`
	Rejected []csvimport.RejectedRow `json:"rejected"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context())
	if err != nil {
		h.logger.Error("catalog_read_failed", "Failed to read catalog", RequestID(r.Context()), nil, err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Product(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) Template(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="product_template.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, csvimport.Template())
}

// Import replaces the catalog with the CSV sent as the request body.
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	requestID := RequestID(r.Context())
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)

	res, err := h.service.Import(r.Context(), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: fmt.Sprintf("catalog must not exceed %d bytes", maxImportBytes),
			})
			return
		}

		h.logger.Error("catalog_import_failed", "Catalog import failed", requestID, nil, err)
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, status, ErrorResponse{Error: err.Error(), Rejected: res.Rejected})
		return
	}

	rejected := res.Rejected
	if rejected == nil {
		rejected = []csvimport.RejectedRow{}
	}
	respondJSON(w, http.StatusOK, ImportResponse{
		Imported: len(res.Products),
		Products: res.Products,
		Rejected: rejected,
	})
}

func (h *CatalogHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.logger.Error("catalog_clear_failed", "Failed to clear catalog", RequestID(r.Context()), nil, err)
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
