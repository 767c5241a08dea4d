package catalog

import "github.com/Lixing-Zhang/storefront/internal/models"

// Catalog is a set of categories and the products filed under them
type Catalog struct {
	Categories []models.Category `json:"categories"`
	Products   []models.Product  `json:"products"`
}

// Default returns the builtin demo catalog
func Default() Catalog {
	return Catalog{
		Categories: []models.Category{
			{ID: "cat-coffee", Name: "Coffee"},
			{ID: "cat-tea", Name: "Tea"},
			{ID: "cat-gear", Name: "Brewing Gear"},
		},
		Products: []models.Product{
			{
				ID:          "prod1",
				Name:        "Ethiopia Yirgacheffe",
				Description: "Washed single origin with jasmine and lemon notes. 340g whole bean.",
				Price:       19.99,
				Currency:    "USD",
				InStock:     true,
				CategoryID:  "cat-coffee",
				ImageURL:    "https://images.example.com/products/prod1.jpg",
				Tags:        []string{"single-origin", "light-roast"},
			},
			{
				ID:          "prod2",
				Name:        "Colombia Huila",
				Description: "Balanced medium roast with caramel sweetness. 340g whole bean.",
				Price:       16.5,
				Currency:    "USD",
				InStock:     true,
				CategoryID:  "cat-coffee",
				Tags:        []string{"single-origin", "medium-roast"},
			},
			{
				ID:          "prod3",
				Name:        "House Espresso Blend",
				Description: "Chocolate-forward blend built for milk drinks. 1kg whole bean.",
				Price:       34,
				Currency:    "USD",
				InStock:     false,
				CategoryID:  "cat-coffee",
				Tags:        []string{"blend", "espresso"},
			},
			{
				ID:          "prod4",
				Name:        "Darjeeling First Flush",
				Description: "Bright spring harvest black tea. 100g loose leaf.",
				Price:       12.75,
				Currency:    "USD",
				InStock:     true,
				CategoryID:  "cat-tea",
				ImageURL:    "https://images.example.com/products/prod4.jpg",
			},
			{
				ID:          "prod5",
				Name:        "Gyokuro",
				Description: "Shade-grown Japanese green tea. 50g loose leaf.",
				Price:       24.99,
				Currency:    "USD",
				InStock:     true,
				CategoryID:  "cat-tea",
				Tags:        []string{"green"},
			},
			{
				ID:          "prod6",
				Name:        "Pour-Over Dripper",
				Description: "Ceramic cone dripper, size 02.",
				Price:       29.99,
				Currency:    "USD",
				InStock:     true,
				CategoryID:  "cat-gear",
			},
			{
				ID:          "prod7",
				Name:        "Burr Grinder",
				Description: "Hand grinder with stainless steel conical burrs.",
				Price:       89,
				Currency:    "USD",
				InStock:     true,
				CategoryID:  "cat-gear",
				ImageURL:    "https://images.example.com/products/prod7.jpg",
				Tags:        []string{"grinder"},
			},
			{
				ID:          "prod8",
				Name:        "Gooseneck Kettle",
				Description: "1L stovetop kettle with built-in thermometer.",
				Price:       45.5,
				Currency:    "USD",
				InStock:     true,
				CategoryID:  "cat-gear",
			},
		},
	}
}
