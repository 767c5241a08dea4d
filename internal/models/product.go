package models

// Product represents an item in the storefront catalog
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	InStock     bool     `json:"inStock"`
	CategoryID  string   `json:"categoryId"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Category groups products for browsing
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
