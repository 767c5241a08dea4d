package storefront

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/storefront/internal/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

var (
	ErrMissingProductID = errors.New("Missing product id")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrUnknownProducts  = errors.New("One or more items refer to an unknown product. Remove them to place the order.")
	ErrOrderInFlight    = errors.New("an order is already being placed")
)

// ErrorMessage renders a load or submit error for display, using fallback
// when err carries no message.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

type catalogData struct {
	products   []models.Product
	categories []models.Category
}

// ProductListPage loads products and categories and derives the visible list
type ProductListPage struct {
	api  API
	lang language.Tag
	data *Resource[catalogData]

	mu         sync.Mutex
	categoryID string
	sort       SortOrder
}

// ProductListView is what the product list renders
type ProductListView struct {
	Loading    bool
	Err        error
	Categories []models.Category
	Products   []models.Product
	// Total is the number of products before filtering
	Total      int
	CategoryID string
	Sort       SortOrder
}

// NewProductListPage creates the list page; names sort with lang's collation
func NewProductListPage(api API, lang language.Tag) *ProductListPage {
	return &ProductListPage{
		api:        api,
		lang:       lang,
		data:       NewResource[catalogData](),
		categoryID: AllCategories,
		sort:       SortNameAsc,
	}
}

// Load fetches products and categories concurrently. Either failure fails
// the whole load.
func (p *ProductListPage) Load(ctx context.Context) error {
	_, err := p.data.Load(ctx, func(ctx context.Context) (catalogData, error) {
		var data catalogData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			products, err := p.api.GetProducts(gctx)
			data.products = products
			return err
		})
		g.Go(func() error {
			categories, err := p.api.GetCategories(gctx)
			data.categories = categories
			return err
		})
		if err := g.Wait(); err != nil {
			return catalogData{}, err
		}
		return data, nil
	})
	return err
}

// SetCategory filters by category id; AllCategories shows everything
func (p *ProductListPage) SetCategory(categoryID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.categoryID = categoryID
}

// SetSort changes the ordering
func (p *ProductListPage) SetSort(order SortOrder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sort = order
}

// View derives the current view
func (p *ProductListPage) View() ProductListView {
	state := p.data.State()

	p.mu.Lock()
	categoryID, order := p.categoryID, p.sort
	p.mu.Unlock()

	return ProductListView{
		Loading:    state.Loading,
		Err:        state.Err,
		Categories: state.Data.categories,
		Products:   VisibleProducts(state.Data.products, categoryID, order, p.lang),
		Total:      len(state.Data.products),
		CategoryID: categoryID,
		Sort:       order,
	}
}

// Teardown discards any in-flight load
func (p *ProductListPage) Teardown() {
	p.data.Teardown()
}

// ProductDetailPage loads a single product
type ProductDetailPage struct {
	api     API
	product *Resource[*models.Product]
}

// ProductDetailView is what the detail page renders
type ProductDetailView struct {
	Loading bool
	Err     error
	Product *models.Product
}

// NewProductDetailPage creates the detail page
func NewProductDetailPage(api API) *ProductDetailPage {
	return &ProductDetailPage{
		api:     api,
		product: NewResource[*models.Product](),
	}
}

// Load fetches the product with the given id, superseding any earlier load.
// Only an empty id counts as missing; anything else is sent as given.
func (p *ProductDetailPage) Load(ctx context.Context, id string) error {
	if id == "" {
		p.product.Fail(ErrMissingProductID)
		return ErrMissingProductID
	}

	_, err := p.product.Load(ctx, func(ctx context.Context) (*models.Product, error) {
		return p.api.GetProduct(ctx, id)
	})
	return err
}

// View returns the current view
func (p *ProductDetailPage) View() ProductDetailView {
	state := p.product.State()
	return ProductDetailView{Loading: state.Loading, Err: state.Err, Product: state.Data}
}

// Message renders the error state; a 404 gets a friendlier message
func (v ProductDetailView) Message() string {
	if v.Err == nil {
		return ""
	}
	if errors.Is(v.Err, ErrNotFound) {
		return "Product not found (404)."
	}
	return "Error: " + ErrorMessage(v.Err, "Failed to load product")
}

// Teardown discards any in-flight load
func (p *ProductDetailPage) Teardown() {
	p.product.Teardown()
}

// CartPage joins the client-held cart with fetched products and submits
// orders
type CartPage struct {
	api      API
	products *Resource[map[string]models.Product]

	mu         sync.Mutex
	cart       *Cart
	placing    bool
	placeErr   error
	placed     *models.Order
	placedCurr string
}

// CartView is what the cart page renders
type CartView struct {
	Loading     bool
	Err         error
	Rows        []Row
	Total       float64
	Currency    string
	HasUnknown  bool
	Placing     bool
	PlaceErr    error
	PlacedOrder *models.Order
	// PlacedCurrency is the display currency at the time the order was placed
	PlacedCurrency string
	CanPlace       bool
}

// NewCartPage creates the cart page over a cart seeded with items
func NewCartPage(api API, items ...CartItem) *CartPage {
	return &CartPage{
		api:      api,
		products: NewResource[map[string]models.Product](),
		cart:     NewCart(items...),
	}
}

// Load fetches the product list and indexes it by id
func (p *CartPage) Load(ctx context.Context) error {
	_, err := p.products.Load(ctx, func(ctx context.Context) (map[string]models.Product, error) {
		products, err := p.api.GetProducts(ctx)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]models.Product, len(products))
		for _, prod := range products {
			byID[prod.ID] = prod
		}
		return byID, nil
	})
	return err
}

// Add puts a product in the cart
func (p *CartPage) Add(productID string, quantity int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cart.Add(productID, quantity)
	p.resetOutcome()
}

// UpdateQuantity sets a line's quantity, clamped to [1, 99]
func (p *CartPage) UpdateQuantity(productID string, raw float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cart.UpdateQuantity(productID, raw)
	p.resetOutcome()
}

// RemoveItem drops a line
func (p *CartPage) RemoveItem(productID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cart.RemoveItem(productID)
	p.resetOutcome()
}

// Items returns the current cart lines
func (p *CartPage) Items() []CartItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart.Items()
}

func (p *CartPage) resetOutcome() {
	p.placed = nil
	p.placeErr = nil
}

// View derives rows and totals from the cart and the latest product map
func (p *CartPage) View() CartView {
	state := p.products.State()

	p.mu.Lock()
	defer p.mu.Unlock()

	rows := p.cart.Rows(state.Data)
	hasUnknown := HasUnknownProducts(rows)
	return CartView{
		Loading:        state.Loading,
		Err:            state.Err,
		Rows:           rows,
		Total:          Total(rows),
		Currency:       DisplayCurrency(rows),
		HasUnknown:     hasUnknown,
		Placing:        p.placing,
		PlaceErr:       p.placeErr,
		PlacedOrder:    p.placed,
		PlacedCurrency: p.placedCurr,
		CanPlace:       !p.placing && p.cart.Len() > 0 && !hasUnknown,
	}
}

// PlaceOrder submits the cart. Blank emails are omitted. On success the cart
// is cleared and the order kept for display; on failure the error is kept
// and the cart is left as it was.
func (p *CartPage) PlaceOrder(ctx context.Context, customerEmail string) (*models.Order, error) {
	products := p.products.State().Data

	p.mu.Lock()
	if p.cart.Len() == 0 {
		p.mu.Unlock()
		return nil, ErrCartEmpty
	}
	if p.placing {
		p.mu.Unlock()
		return nil, ErrOrderInFlight
	}
	rows := p.cart.Rows(products)
	if HasUnknownProducts(rows) {
		p.placeErr = ErrUnknownProducts
		p.mu.Unlock()
		return nil, ErrUnknownProducts
	}
	req := p.cart.OrderRequest(strings.TrimSpace(customerEmail))
	currency := DisplayCurrency(rows)
	p.placing = true
	p.placeErr = nil
	p.placed = nil
	p.mu.Unlock()

	order, err := p.api.CreateOrder(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.placing = false
	if err != nil {
		p.placeErr = err
		return nil, err
	}
	p.placed = order
	p.placedCurr = currency
	p.cart.Clear()
	return order, nil
}

// Teardown discards any in-flight product load
func (p *CartPage) Teardown() {
	p.products.Teardown()
}
