package domain

// CartItem is a product line with its quantity. The cart holds at most one
// line per product id; quantity is always >= 1 once persisted.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart is the set of selected lines for one shopping session.
type Cart struct {
	Items []CartItem `json:"items"`
}

// TotalItems sums line quantities. Derived on read, never stored.
func (c Cart) TotalItems() int {
	var total int
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity over all lines.
func (c Cart) TotalPrice() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Find returns the index of the line holding productID, or -1.
func (c Cart) Find(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}
