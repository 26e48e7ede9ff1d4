package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

// NewRouter exposes the catalog and order services as a JSON API.
func NewRouter(catalog interfaces.CatalogService, orders interfaces.OrderService, logger logger.Logger) http.Handler {
	ch := NewCatalogHandler(catalog, logger)
	oh := NewOrderHandler(orders, logger)

	r := mux.NewRouter()

	r.HandleFunc("/products", ch.List).Methods(http.MethodGet)
	r.HandleFunc("/products/search", ch.Search).Methods(http.MethodGet)
	r.HandleFunc("/products/template", ch.Template).Methods(http.MethodGet)
	r.HandleFunc("/products/import", ch.Import).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", ch.Get).Methods(http.MethodGet)
	r.HandleFunc("/products", ch.Clear).Methods(http.MethodDelete)

	r.HandleFunc("/orders", oh.CreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", oh.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders", oh.ClearOrders).Methods(http.MethodDelete)
	r.HandleFunc("/orders/{id}", oh.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/message", oh.GetMessage).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/status", oh.UpdateStatus).Methods(http.MethodPatch)
	r.HandleFunc("/orders/{id}/payment", oh.UpdatePayment).Methods(http.MethodPatch)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})

	var h http.Handler = r
	h = LoggingMiddleware(logger)(h)
	h = RecoveryMiddleware(logger)(h)
	h = RequestIDMiddleware(h)
	return h
}
