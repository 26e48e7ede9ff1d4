package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
	"github.com/YelzhanWeb/ordertaker/internal/domain"
	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type CreateOrderRequest struct {
	Items            []OrderItemRequest `json:"items"`
	DeliveryMethod   string             `json:"delivery_method"`
	PickupTime       string             `json:"pickup_time,omitempty"`
	DeliveryAddress  string             `json:"delivery_address,omitempty"`
	DeliveryLandmark string             `json:"delivery_landmark,omitempty"`
	SpecialNotes     string             `json:"special_notes,omitempty"`
	PaymentStatus    string             `json:"payment_status,omitempty"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type OrderListResponse struct {
	Filter domain.Filter  `json:"filter"`
	Count  int            `json:"count"`
	Orders []domain.Order `json:"orders"`
}

type MessageResponse struct {
	OrderID string `json:"order_id"`
	Text    string `json:"text"`
	Link    string `json:"link"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := RequestID(r.Context())

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if validationErrors := validateCreateOrderRequest(req); len(validationErrors) > 0 {
		h.logger.Error("validation_failed", "Order validation failed", requestID, map[string]interface{}{
			"errors": validationErrors,
		}, fmt.Errorf("validation failed"))

		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Errors: validationErrors})
		return
	}

	cmd := interfaces.CreateOrderCommand{
		Items:            convertItemsToCommand(req.Items),
		DeliveryMethod:   req.DeliveryMethod,
		PickupTime:       strings.TrimSpace(req.PickupTime),
		DeliveryAddress:  strings.TrimSpace(req.DeliveryAddress),
		DeliveryLandmark: strings.TrimSpace(req.DeliveryLandmark),
		SpecialNotes:     strings.TrimSpace(req.SpecialNotes),
		PaymentStatus:    req.PaymentStatus,
	}

	order, err := h.service.PlaceOrder(r.Context(), cmd)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", requestID, nil, err)
		// an unknown product in the body is a bad request, not a missing resource
		if errors.Is(err, domain.ErrProductNotFound) {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func validateCreateOrderRequest(req CreateOrderRequest) []ValidationError {
	var errs []ValidationError

	if len(req.Items) < 1 {
		errs = append(errs, ValidationError{
			Field:   "items",
			Message: domain.ErrEmptyOrder.Error(),
		})
	}

	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)

		if strings.TrimSpace(item.ProductID) == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".product_id",
				Message: "product id is required",
			})
		}
		if item.Quantity < 1 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".quantity",
				Message: domain.ErrInvalidQuantity.Error(),
			})
		}
	}

	if !domain.DeliveryMethod(req.DeliveryMethod).Valid() {
		errs = append(errs, ValidationError{
			Field:   "delivery_method",
			Message: domain.ErrInvalidDeliveryMethod.Error(),
		})
	}

	if req.PaymentStatus != "" && !domain.PaymentStatus(req.PaymentStatus).Valid() {
		errs = append(errs, ValidationError{
			Field:   "payment_status",
			Message: domain.ErrInvalidPaymentStatus.Error(),
		})
	}

	return errs
}

func convertItemsToCommand(items []OrderItemRequest) []interfaces.CreateOrderItemCommand {
	result := make([]interfaces.CreateOrderItemCommand, len(items))
	for i, item := range items {
		result[i] = interfaces.CreateOrderItemCommand{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
		}
	}
	return result
}

// ListOrders serves GET /orders?filter=<key>. An unknown key lists every order.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("filter")
	filter, ok := domain.ParseFilter(key)
	if !ok && key != "" {
		h.logger.Debug("unknown_filter", fmt.Sprintf("Unknown filter %q, listing all orders", key), RequestID(r.Context()), nil)
	}

	orders, err := h.service.Orders(r.Context(), filter)
	if err != nil {
		h.logger.Error("orders_read_failed", "Failed to read orders", RequestID(r.Context()), nil, err)
		respondServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	respondJSON(w, http.StatusOK, OrderListResponse{Filter: filter, Count: len(orders), Orders: orders})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Order(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.Message(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{OrderID: msg.OrderID, Text: msg.Text, Link: msg.Link})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), mux.Vars(r)["id"], domain.Status(req.Status))
	if err != nil {
		h.logger.Error("status_update_failed", "Failed to update order status", RequestID(r.Context()), nil, err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	order, err := h.service.UpdatePaymentStatus(r.Context(), mux.Vars(r)["id"], domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		h.logger.Error("payment_update_failed", "Failed to update payment status", RequestID(r.Context()), nil, err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ClearOrders(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearOrders(r.Context()); err != nil {
		h.logger.Error("orders_clear_failed", "Failed to clear orders", RequestID(r.Context()), nil, err)
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
