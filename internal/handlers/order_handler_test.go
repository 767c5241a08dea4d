package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/storefront/internal/models"
	"github.com/Lixing-Zhang/storefront/internal/repository"
	"github.com/Lixing-Zhang/storefront/internal/service"
	"github.com/Lixing-Zhang/storefront/pkg/logger"
)

func newTestRouter(opts RouterOptions) http.Handler {
	log := logger.NewWithWriter(io.Discard, "error")
	productRepo := repository.NewInMemoryProductRepository()
	products := service.NewProductService(productRepo)
	orders := service.NewOrderService(productRepo, repository.NewInMemoryOrderRepository())
	return NewRouter(products, orders, log, opts)
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	router := newTestRouter(RouterOptions{})

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(*testing.T, *models.Order)
	}{
		{
			name: "successful order",
			requestBody: models.OrderRequest{
				Items: []models.OrderItem{
					{ProductID: "prod1", Quantity: 2},
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, order *models.Order) {
				if order.ID == "" {
					t.Error("order ID is empty")
				}
				if len(order.Items) != 1 {
					t.Errorf("expected 1 item, got %d", len(order.Items))
				}
				if order.TotalAmount != 39.98 {
					t.Errorf("expected total 39.98, got %f", order.TotalAmount)
				}
			},
		},
		{
			name: "multiple items with email",
			requestBody: models.OrderRequest{
				Items: []models.OrderItem{
					{ProductID: "prod1", Quantity: 1},
					{ProductID: "prod2", Quantity: 2},
				},
				CustomerEmail: "you@example.com",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, order *models.Order) {
				if len(order.Items) != 2 {
					t.Errorf("expected 2 items, got %d", len(order.Items))
				}
				if order.CustomerEmail != "you@example.com" {
					t.Errorf("expected customer email to be kept, got %q", order.CustomerEmail)
				}
			},
		},
		{
			name:           "empty order",
			requestBody:    map[string]interface{}{"items": []interface{}{}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "items must not be empty",
		},
		{
			name:           "invalid quantity",
			requestBody:    map[string]interface{}{"items": []interface{}{map[string]interface{}{"productId": "prod1", "quantity": 0}}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "items[0].quantity must be a positive integer",
		},
		{
			name:           "not an object",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Request body must be a JSON object",
		},
		{
			name: "unknown product",
			requestBody: models.OrderRequest{
				Items: []models.OrderItem{
					{ProductID: "prod1", Quantity: 1},
					{ProductID: "prod99999", Quantity: 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "items[1].productId refers to an unknown product",
		},
		{
			name: "out of stock",
			requestBody: models.OrderRequest{
				Items: []models.OrderItem{
					{ProductID: "prod3", Quantity: 1},
				},
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "items[0] is out of stock",
		},
		{
			name: "invalid email",
			requestBody: models.OrderRequest{
				Items:         []models.OrderItem{{ProductID: "prod1", Quantity: 1}},
				CustomerEmail: "nope",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "customerEmail must be a valid email address",
		},
		{
			name:           "integral float quantity",
			requestBody:    `{"items":[{"productId":"prod1","quantity":2.0}]}`,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, order *models.Order) {
				if order.Items[0].Quantity != 2 {
					t.Errorf("expected quantity 2, got %d", order.Items[0].Quantity)
				}
				if order.TotalAmount != 39.98 {
					t.Errorf("expected total 39.98, got %f", order.TotalAmount)
				}
			},
		},
		{
			name:           "exponent quantity",
			requestBody:    `{"items":[{"productId":"prod4","quantity":1e1}]}`,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, order *models.Order) {
				if order.TotalAmount != 127.5 {
					t.Errorf("expected total 127.5, got %f", order.TotalAmount)
				}
			},
		},
		{
			name:           "quantity above per-item maximum",
			requestBody:    `{"items":[{"productId":"prod1","quantity":1},{"productId":"prod1","quantity":10001}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "items[1].quantity must not exceed 10000",
		},
		{
			name:           "quantity beyond int range",
			requestBody:    map[string]interface{}{"items": []interface{}{map[string]interface{}{"productId": "prod1", "quantity": 1e30}}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "items[0].quantity must not exceed 10000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			var err error

			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatalf("failed to marshal request: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.expectedStatus, w.Body.String())
			}

			if tt.expectedError != "" {
				var response ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode error response: %v", err)
				}
				if response.Error != tt.expectedError {
					t.Errorf("error = %q, want %q", response.Error, tt.expectedError)
				}
				return
			}

			if tt.checkResponse != nil {
				var order models.Order
				if err := json.NewDecoder(w.Body).Decode(&order); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				tt.checkResponse(t, &order)
			}
		})
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	router := newTestRouter(RouterOptions{})

	body := []byte(`{"items":[{"productId":"prod5","quantity":1}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", w.Code)
	}

	var created models.Order
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", w.Code)
	}

	var fetched models.Order
	if err := json.NewDecoder(w.Body).Decode(&fetched); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if fetched.ID != created.ID || fetched.TotalAmount != 24.99 {
		t.Errorf("fetched order = %+v, want id %s total 24.99", fetched, created.ID)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders/does-not-exist", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("missing order status = %d, want 404", w.Code)
	}
}
