package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/storefront/internal/models"
	"github.com/Lixing-Zhang/storefront/internal/repository"
	"github.com/Lixing-Zhang/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderHandler handles order-related HTTP requests.
// CreateOrder expects bodies already accepted by middleware.ValidateOrderBody.
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), req)
	if err != nil {
		status, message := orderErrorResponse(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("failed to create order", "error", err)
		} else {
			h.log.Info("order rejected", "error", err)
		}
		WriteError(w, status, message, h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, order, h.log)
	h.log.Info("order created successfully", "order_id", order.ID, "items_count", len(order.Items), "total", order.TotalAmount)
}

// GetOrder handles GET /api/orders/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
			return
		}
		h.log.Error("failed to get order", "order_id", orderID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

func orderErrorResponse(err error) (int, string) {
	var itemErr *service.ItemError
	index := -1
	if errors.As(err, &itemErr) {
		index = itemErr.Index
	}

	switch {
	case errors.Is(err, service.ErrEmptyOrder):
		return http.StatusBadRequest, "items must not be empty"
	case errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, "customerEmail must be a valid email address"
	case errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest, fmt.Sprintf("items[%d].quantity must be a positive integer", index)
	case errors.Is(err, service.ErrQuantityTooLarge):
		return http.StatusBadRequest, fmt.Sprintf("items[%d].quantity must not exceed %d", index, service.MaxItemQuantity)
	case errors.Is(err, service.ErrUnknownProduct):
		return http.StatusBadRequest, fmt.Sprintf("items[%d].productId refers to an unknown product", index)
	case errors.Is(err, service.ErrMixedCurrency):
		return http.StatusBadRequest, fmt.Sprintf("items[%d] is priced in a different currency", index)
	case errors.Is(err, service.ErrOutOfStock):
		return http.StatusConflict, fmt.Sprintf("items[%d] is out of stock", index)
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
