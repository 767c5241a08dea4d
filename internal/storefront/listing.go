package storefront

import (
	"fmt"
	"sort"

	"github.com/Lixing-Zhang/storefront/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllCategories disables category filtering
const AllCategories = "all"

// SortOrder is a product list ordering
type SortOrder string

const (
	SortNameAsc   SortOrder = "name-asc"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// ParseSortOrder validates a sort order name
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case SortNameAsc, SortPriceAsc, SortPriceDesc:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (want name-asc, price-asc or price-desc)", s)
	}
}

// VisibleProducts filters by category and sorts, returning a new slice.
// The input is never reordered. Names are compared with the collation
// rules of lang.
func VisibleProducts(products []models.Product, categoryID string, order SortOrder, lang language.Tag) []models.Product {
	visible := make([]models.Product, 0, len(products))
	for _, p := range products {
		if categoryID == "" || categoryID == AllCategories || p.CategoryID == categoryID {
			visible = append(visible, p)
		}
	}

	switch order {
	case SortPriceAsc:
		sort.SliceStable(visible, func(i, j int) bool { return visible[i].Price < visible[j].Price })
	case SortPriceDesc:
		sort.SliceStable(visible, func(i, j int) bool { return visible[i].Price > visible[j].Price })
	default:
		c := collate.New(lang)
		sort.SliceStable(visible, func(i, j int) bool {
			return c.CompareString(visible[i].Name, visible[j].Name) < 0
		})
	}

	return visible
}
