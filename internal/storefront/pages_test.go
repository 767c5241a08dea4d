package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Lixing-Zhang/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type fakeAPI struct {
	mu          sync.Mutex
	products    []models.Product
	categories  []models.Category
	productsErr error
	orderErr    error
	orders      []models.OrderRequest
}

func (f *fakeAPI) GetProducts(ctx context.Context) ([]models.Product, error) {
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}

func (f *fakeAPI) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, &APIError{Status: 404, Message: "Product not found"}
}

func (f *fakeAPI) GetCategories(ctx context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeAPI) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, req)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &models.Order{ID: "order-1", Items: req.Items, TotalAmount: 39.98, Currency: "USD"}, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		products: []models.Product{
			{ID: "prod1", Name: "Yirgacheffe", Price: 19.99, Currency: "USD", CategoryID: "coffee", InStock: true},
			{ID: "prod2", Name: "Huila", Price: 16.5, Currency: "USD", CategoryID: "coffee", InStock: true},
			{ID: "prod4", Name: "Darjeeling", Price: 12.75, Currency: "USD", CategoryID: "tea", InStock: true},
		},
		categories: []models.Category{{ID: "coffee", Name: "Coffee"}, {ID: "tea", Name: "Tea"}},
	}
}

func TestProductListPage(t *testing.T) {
	page := NewProductListPage(newFakeAPI(), language.English)
	assert.True(t, page.View().Loading)

	require.NoError(t, page.Load(context.Background()))

	view := page.View()
	assert.False(t, view.Loading)
	assert.Len(t, view.Categories, 2)
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, []string{"prod4", "prod2", "prod1"}, ids(view.Products))

	page.SetCategory("coffee")
	page.SetSort(SortPriceDesc)
	view = page.View()
	assert.Equal(t, []string{"prod1", "prod2"}, ids(view.Products))
	assert.Equal(t, 3, view.Total, "total counts unfiltered products")

	page.SetCategory(AllCategories)
	assert.Len(t, page.View().Products, 3)
}

func TestProductListPage_LoadError(t *testing.T) {
	api := newFakeAPI()
	api.productsErr = errors.New("connection refused")
	page := NewProductListPage(api, language.English)

	err := page.Load(context.Background())
	require.Error(t, err)

	view := page.View()
	assert.False(t, view.Loading)
	assert.EqualError(t, view.Err, "connection refused")
	assert.Empty(t, view.Products)
}

func TestProductDetailPage(t *testing.T) {
	page := NewProductDetailPage(newFakeAPI())

	require.NoError(t, page.Load(context.Background(), "prod2"))
	view := page.View()
	require.NotNil(t, view.Product)
	assert.Equal(t, "Huila", view.Product.Name)
	assert.Empty(t, view.Message())

	require.Error(t, page.Load(context.Background(), "missing"))
	view = page.View()
	assert.Nil(t, view.Product)
	assert.Equal(t, "Product not found (404).", view.Message())

	require.ErrorIs(t, page.Load(context.Background(), ""), ErrMissingProductID)
	assert.Equal(t, "Error: Missing product id", page.View().Message())

	err := page.Load(context.Background(), " ")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingProductID, "whitespace ids go to the API")
	assert.Equal(t, "Product not found (404).", page.View().Message())
}

func TestCartPage_PlaceOrder(t *testing.T) {
	api := newFakeAPI()
	page := NewCartPage(api, CartItem{ProductID: "prod1", Quantity: 1}, CartItem{ProductID: "prod2", Quantity: 2})
	require.NoError(t, page.Load(context.Background()))

	view := page.View()
	assert.True(t, view.CanPlace)
	assert.InDelta(t, 19.99+33, view.Total, 1e-9)
	assert.Equal(t, "USD", view.Currency)

	order, err := page.PlaceOrder(context.Background(), "  you@example.com  ")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)

	require.Len(t, api.orders, 1)
	assert.Equal(t, "you@example.com", api.orders[0].CustomerEmail)
	assert.Equal(t, []models.OrderItem{{ProductID: "prod1", Quantity: 1}, {ProductID: "prod2", Quantity: 2}}, api.orders[0].Items)

	view = page.View()
	assert.Empty(t, view.Rows, "cart is cleared after a successful order")
	assert.Equal(t, order, view.PlacedOrder)
	assert.Equal(t, "USD", view.PlacedCurrency)
	assert.False(t, view.CanPlace)

	_, err = page.PlaceOrder(context.Background(), "")
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Len(t, api.orders, 1)
}

func TestCartPage_BlankEmailOmitted(t *testing.T) {
	api := newFakeAPI()
	page := NewCartPage(api, CartItem{ProductID: "prod1", Quantity: 1})
	require.NoError(t, page.Load(context.Background()))

	_, err := page.PlaceOrder(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, api.orders[0].CustomerEmail)
}

func TestCartPage_UnknownProductBlocksOrder(t *testing.T) {
	api := newFakeAPI()
	page := NewCartPage(api, CartItem{ProductID: "prod1", Quantity: 1}, CartItem{ProductID: "ghost", Quantity: 1})
	require.NoError(t, page.Load(context.Background()))

	view := page.View()
	assert.True(t, view.HasUnknown)
	assert.False(t, view.CanPlace)
	assert.Len(t, view.Rows, 2)
	assert.InDelta(t, 19.99, view.Total, 1e-9)

	_, err := page.PlaceOrder(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnknownProducts)
	assert.ErrorIs(t, page.View().PlaceErr, ErrUnknownProducts)
	assert.Empty(t, api.orders)

	page.RemoveItem("ghost")
	view = page.View()
	assert.Nil(t, view.PlaceErr, "cart changes clear the order error")
	assert.True(t, view.CanPlace)
}

func TestCartPage_OrderFailureKeepsCart(t *testing.T) {
	api := newFakeAPI()
	api.orderErr = &APIError{Status: 400, Message: "items[0].quantity must be a positive integer"}
	page := NewCartPage(api, CartItem{ProductID: "prod1", Quantity: 1})
	require.NoError(t, page.Load(context.Background()))

	_, err := page.PlaceOrder(context.Background(), "")
	require.Error(t, err)

	view := page.View()
	assert.Len(t, view.Rows, 1)
	assert.Equal(t, "items[0].quantity must be a positive integer", ErrorMessage(view.PlaceErr, "Failed to place order"))
	assert.Nil(t, view.PlacedOrder)
	assert.False(t, view.Placing)

	page.UpdateQuantity("prod1", 150)
	view = page.View()
	assert.Nil(t, view.PlaceErr)
	assert.Equal(t, 99, view.Rows[0].Item.Quantity)
}

func TestCartPage_TeardownDropsProducts(t *testing.T) {
	page := NewCartPage(newFakeAPI(), CartItem{ProductID: "prod1", Quantity: 1})
	page.Teardown()

	err := page.Load(context.Background())
	assert.ErrorIs(t, err, ErrTornDown)
	assert.True(t, page.View().HasUnknown)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil, "fallback"))
	assert.Equal(t, "fallback", ErrorMessage(errors.New(""), "fallback"))
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom"), "fallback"))
}
