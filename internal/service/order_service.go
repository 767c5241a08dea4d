package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/storefront/internal/models"
	"github.com/Lixing-Zhang/storefront/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrQuantityTooLarge = errors.New("quantity exceeds the per-item maximum")
	ErrUnknownProduct   = errors.New("unknown product")
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrMixedCurrency    = errors.New("items must share a single currency")
	ErrInvalidEmail     = errors.New("customer email is not valid")
)

// MaxItemQuantity caps a single order line
const MaxItemQuantity = 10000

// ItemError ties an order failure to the offending line item
type ItemError struct {
	Index     int
	ProductID string
	Err       error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("items[%d] (%s): %v", e.Index, e.ProductID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ProductLookup resolves products for order pricing
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// OrderService handles order business logic
type OrderService struct {
	products ProductLookup
	orders   repository.OrderRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(products ProductLookup, orders repository.OrderRepository) *OrderService {
	return &OrderService{
		products: products,
		orders:   orders,
		validate: validator.New(),
		now:      time.Now,
	}
}

// CreateOrder prices and stores a new order.
// Product ids are matched exactly as submitted.
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, ErrInvalidEmail
	}

	total := decimal.Zero
	currency := ""

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &ItemError{Index: i, ProductID: item.ProductID, Err: ErrInvalidQuantity}
		}

		if item.Quantity > MaxItemQuantity {
			return nil, &ItemError{Index: i, ProductID: item.ProductID, Err: ErrQuantityTooLarge}
		}

		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, &ItemError{Index: i, ProductID: item.ProductID, Err: ErrUnknownProduct}
			}
			return nil, fmt.Errorf("failed to resolve product %s: %w", item.ProductID, err)
		}

		if !product.InStock {
			return nil, &ItemError{Index: i, ProductID: item.ProductID, Err: ErrOutOfStock}
		}

		if currency == "" {
			currency = product.Currency
		} else if product.Currency != currency {
			return nil, &ItemError{Index: i, ProductID: item.ProductID, Err: ErrMixedCurrency}
		}

		line := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}

	order := &models.Order{
		ID:            generateOrderID(),
		Items:         append([]models.OrderItem(nil), req.Items...),
		CustomerEmail: req.CustomerEmail,
		TotalAmount:   total.Round(2).InexactFloat64(),
		Currency:      currency,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	return order, nil
}

// GetOrder returns a previously placed order
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// generateOrderID generates a unique order ID using UUID
func generateOrderID() string {
	return uuid.New().String()
}
