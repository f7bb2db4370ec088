package domain

// Product is a single menu item in the bakery catalog.
//
// ID assignment is owned by the catalog store: max existing id + 1, or 1 for
// an empty catalog. PriceFormatted is the display string ("R$ 89,90") kept
// alongside the numeric price, exactly as stored.
type Product struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	PriceFormatted string  `json:"priceFormatted"`
	Image          string  `json:"image"` // URL or embedded data URL
	Category       string  `json:"category"`
	Badge          string  `json:"badge,omitempty"`
	Description    string  `json:"description"`
}

// Category pairs a derived identifier with its display label. The "todos"
// category is reserved and can never be deleted.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CategoryAll is the reserved catch-all category id.
const CategoryAll = "todos"
