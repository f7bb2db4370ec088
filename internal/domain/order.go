package domain

import "time"

// PaymentMethod selection offered at checkout.
type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
)

// CheckoutForm carries the customer contact and address fields collected at
// checkout time. It is ephemeral: scoped to one checkout and never persisted.
type CheckoutForm struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"required,min=8,max=32"`
	Cep        string `json:"cep" validate:"omitempty,max=16"`
	Address    string `json:"address" validate:"required,min=1,max=300"`
	Number     string `json:"number" validate:"omitempty,max=32"`
	Complement string `json:"complement" validate:"omitempty,max=200"`
	City       string `json:"city" validate:"required,min=1,max=120"`

	// NeighborhoodID selects a known delivery area; when it is the "outro"
	// sentinel, CustomNeighborhood carries the free-text name.
	NeighborhoodID     string        `json:"neighborhoodId" validate:"required"`
	CustomNeighborhood string        `json:"customNeighborhood" validate:"omitempty,max=120"`
	Payment            PaymentMethod `json:"payment" validate:"required,oneof=pix credit debit"`
}

// Order is the receipt returned once checkout completes. The inputs it echoes
// are discarded with the session; only the response carries them back.
type Order struct {
	Number       string        `json:"number"`
	Items        []CartItem    `json:"items"`
	Subtotal     float64       `json:"subtotal"`
	ShippingFee  float64       `json:"shippingFee"`
	Total        float64       `json:"total"`
	Neighborhood string        `json:"neighborhood"`
	City         string        `json:"city"`
	Payment      PaymentMethod `json:"payment"`
	PlacedAt     time.Time     `json:"placedAt"`
}
