package model

// CatalogProduct is a backend product hydrated for rendering.
type CatalogProduct struct {
	ID      string          `json:"id"`
	Product ProductSnapshot `json:"product"`
	Image   ResolvedImage   `json:"image"`
}

// CartLineView is a cart line with its resolved image.
type CartLineView struct {
	CartLine
	Image    ResolvedImage `json:"image"`
	Subtotal float64       `json:"subtotal"`
}
