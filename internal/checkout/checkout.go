package checkout

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/internal/store"
	"github.com/talkincode/casadobolo/pkg/common"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrFeeUnresolved      = errors.New("no delivery neighborhood selected")
	ErrCustomNameRequired = errors.New("custom neighborhood name required")
)

// Service implements the checkout flow: shipping fee resolution, the
// cart-page estimate, district matching for the CEP flow and order
// submission. Processing latency is a parameter, not a literal sleep, so
// tests run with zero delay.
type Service struct {
	catalog  *store.CatalogStore
	carts    *store.CartStore
	settings *store.Settings
	node     *snowflake.Node
	delay    time.Duration
}

func NewService(catalog *store.CatalogStore, carts *store.CartStore, settings *store.Settings, delay time.Duration) (*Service, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, errors.Wrap(err, "init order number node")
	}
	return &Service{
		catalog:  catalog,
		carts:    carts,
		settings: settings,
		node:     node,
		delay:    delay,
	}, nil
}

// ResolveFee maps a selected neighborhood reference to a shipping fee.
// The "outro" sentinel always resolves to the flat fallback rate, whatever
// free-text name the customer typed. An empty or unknown reference is
// unresolved and blocks submission.
func (s *Service) ResolveFee(neighborhoodID string) (float64, bool) {
	if neighborhoodID == domain.NeighborhoodOther {
		return s.settings.GetFloat64(store.SettingFallbackFee), true
	}
	if n, ok := s.catalog.GetNeighborhood(neighborhoodID); ok {
		return n.Fee, true
	}
	return 0, false
}

// CartEstimate is the simplified shipping preview shown on the cart page,
// before a neighborhood is chosen: free above the threshold, flat fee below.
// It deliberately does not reconcile with the neighborhood-based fee.
func (s *Service) CartEstimate(subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	if subtotal >= s.settings.GetFloat64(store.SettingFreeThreshold) {
		return 0
	}
	return s.settings.GetFloat64(store.SettingCartFlatFee)
}

// MatchDistrict finds a neighborhood whose name equals the looked-up
// district, ignoring case and accents. No match means the caller should fall
// back to the "outro" sentinel with the district pre-filled as free text.
func (s *Service) MatchDistrict(district string) (domain.Neighborhood, bool) {
	want := common.NormalizeName(district)
	for _, n := range s.catalog.Neighborhoods() {
		if common.NormalizeName(n.Name) == want {
			return n, true
		}
	}
	return domain.Neighborhood{}, false
}

// Quote is the order summary for the checkout page. Fee is nil while no
// neighborhood is resolved, in which case Total falls back to the subtotal.
type Quote struct {
	Subtotal float64  `json:"subtotal"`
	Fee      *float64 `json:"fee"`
	Total    float64  `json:"total"`
}

func (s *Service) Quote(cartID, neighborhoodID string) Quote {
	cart := s.carts.Cart(cartID)
	q := Quote{Subtotal: cart.TotalPrice()}
	q.Total = q.Subtotal
	if neighborhoodID == "" {
		return q
	}
	if fee, ok := s.ResolveFee(neighborhoodID); ok {
		q.Fee = &fee
		q.Total = q.Subtotal + fee
	}
	return q
}

// Submit places the order: it requires a non-empty cart and a resolved fee,
// waits out the configured processing latency, then clears the cart and
// returns the receipt. Order inputs are not persisted anywhere.
func (s *Service) Submit(ctx context.Context, cartID string, form domain.CheckoutForm) (*domain.Order, error) {
	cart := s.carts.Cart(cartID)
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	fee, ok := s.ResolveFee(form.NeighborhoodID)
	if !ok {
		return nil, ErrFeeUnresolved
	}

	neighborhood := form.CustomNeighborhood
	city := form.City
	if form.NeighborhoodID == domain.NeighborhoodOther {
		if neighborhood == "" {
			return nil, ErrCustomNameRequired
		}
	} else {
		n, _ := s.catalog.GetNeighborhood(form.NeighborhoodID)
		neighborhood = n.Name
		city = n.City
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	order := &domain.Order{
		Number:       "CB-" + s.node.Generate().String(),
		Items:        cart.Items,
		Subtotal:     cart.TotalPrice(),
		ShippingFee:  fee,
		Total:        cart.TotalPrice() + fee,
		Neighborhood: neighborhood,
		City:         city,
		Payment:      form.Payment,
		PlacedAt:     time.Now(),
	}

	s.carts.Clear(cartID)
	zap.L().Info("order placed",
		zap.String("number", order.Number),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
		zap.String("neighborhood", order.Neighborhood))
	return order, nil
}
