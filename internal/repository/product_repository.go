package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/Lixing-Zhang/storefront/internal/catalog"
	"github.com/Lixing-Zhang/storefront/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
}

// InMemoryProductRepository implements ProductRepository with in-memory storage.
// Listing order follows the order of the catalog it was built from.
type InMemoryProductRepository struct {
	mu         sync.RWMutex
	order      []string
	products   map[string]models.Product
	categories []models.Category
}

// NewInMemoryProductRepository creates a repository seeded with the builtin catalog
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return NewProductRepositoryFromCatalog(catalog.Default())
}

// NewProductRepositoryFromCatalog creates a repository holding the given catalog
func NewProductRepositoryFromCatalog(c catalog.Catalog) *InMemoryProductRepository {
	r := &InMemoryProductRepository{}
	r.Replace(c)
	return r
}

// Replace swaps the whole catalog atomically
func (r *InMemoryProductRepository) Replace(c catalog.Catalog) {
	order := make([]string, 0, len(c.Products))
	products := make(map[string]models.Product, len(c.Products))
	for _, p := range c.Products {
		if _, dup := products[p.ID]; !dup {
			order = append(order, p.ID)
		}
		products[p.ID] = p
	}
	categories := append([]models.Category(nil), c.Categories...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = order
	r.products = products
	r.categories = categories
}

// GetAll returns all products
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// GetCategories returns all categories
func (r *InMemoryProductRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.Category(nil), r.categories...), nil
}
