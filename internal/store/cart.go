package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/talkincode/casadobolo/internal/domain"
)

// TopicCartItemAdded is published with (cartID, productName) whenever a line
// is added or incremented.
const TopicCartItemAdded = "cart:item_added"

type cartNotice struct {
	Message   string
	ExpiresAt time.Time
}

// CartStore owns the per-session carts. Each cart persists verbatim under
// its session id: no repair or validation of stale product references
// happens on load. Totals are derived on read. The transient "added" notice
// lives only in memory and auto-clears after the configured TTL.
type CartStore struct {
	mu        sync.RWMutex
	storage   *Storage
	carts     map[string]*domain.Cart
	notices   map[string]cartNotice
	bus       EventBus.Bus
	noticeTTL time.Duration
	nowFn     func() time.Time
}

func NewCartStore(storage *Storage, bus EventBus.Bus, noticeTTL time.Duration) *CartStore {
	if noticeTTL <= 0 {
		noticeTTL = 3 * time.Second
	}
	return &CartStore{
		storage:   storage,
		carts:     make(map[string]*domain.Cart),
		notices:   make(map[string]cartNotice),
		bus:       bus,
		noticeTTL: noticeTTL,
		nowFn:     time.Now,
	}
}

// loadLocked hydrates a cart from storage on first touch. Held under mu.
func (s *CartStore) loadLocked(cartID string) *domain.Cart {
	if c, ok := s.carts[cartID]; ok {
		return c
	}
	cart := &domain.Cart{}
	s.storage.Load(BucketCarts, cartID, cart)
	s.carts[cartID] = cart
	return cart
}

func (s *CartStore) persistLocked(cartID string, cart *domain.Cart) {
	if err := s.storage.Save(BucketCarts, cartID, cart); err != nil {
		zap.S().Errorf("cart: persist %s failed: %v", cartID, err)
	}
}

// Cart returns a copy of the session's cart.
func (s *CartStore) Cart(cartID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.loadLocked(cartID)
	return domain.Cart{Items: append([]domain.CartItem(nil), c.Items...)}
}

// AddItem increments the existing line for the product or inserts a new one
// with quantity 1, then raises the transient "added" notice.
func (s *CartStore) AddItem(cartID string, p domain.Product) {
	s.mu.Lock()
	c := s.loadLocked(cartID)
	if i := c.Find(p.ID); i >= 0 {
		c.Items[i].Quantity++
	} else {
		c.Items = append(c.Items, domain.CartItem{Product: p, Quantity: 1})
	}
	s.persistLocked(cartID, c)
	s.notices[cartID] = cartNotice{
		Message:   fmt.Sprintf("%s adicionado ao carrinho", p.Name),
		ExpiresAt: s.nowFn().Add(s.noticeTTL),
	}
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(TopicCartItemAdded, cartID, p.Name)
	}
}

// RemoveItem deletes the line entirely, whatever its quantity.
func (s *CartStore) RemoveItem(cartID string, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.loadLocked(cartID)
	if i := c.Find(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		s.persistLocked(cartID, c)
	}
}

// UpdateQuantity sets the line's quantity; qty <= 0 removes the line so a
// zero or negative quantity is never persisted.
func (s *CartStore) UpdateQuantity(cartID string, productID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.loadLocked(cartID)
	i := c.Find(productID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = qty
	}
	s.persistLocked(cartID, c)
}

// Clear empties the cart, used after a successful checkout.
func (s *CartStore) Clear(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.loadLocked(cartID)
	c.Items = nil
	s.persistLocked(cartID, c)
}

// Notice returns the pending "added" message if it has not expired yet.
func (s *CartStore) Notice(cartID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notices[cartID]
	if !ok {
		return "", false
	}
	if s.nowFn().After(n.ExpiresAt) {
		delete(s.notices, cartID)
		return "", false
	}
	return n.Message, true
}

// DismissNotice clears the pending notice explicitly.
func (s *CartStore) DismissNotice(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notices, cartID)
}

// Sweep prunes cart lines referencing products that no longer exist in the
// catalog. It walks every persisted cart, not only the hydrated ones, and
// reports how many lines were dropped.
func (s *CartStore) Sweep(liveProducts map[int64]struct{}) int {
	var ids []string
	_ = s.storage.ForEach(BucketCarts, func(key string, raw []byte) error {
		ids = append(ids, key)
		return nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	var dropped int
	for _, cartID := range ids {
		c := s.loadLocked(cartID)
		kept := c.Items[:0]
		for _, it := range c.Items {
			if _, ok := liveProducts[it.ID]; ok {
				kept = append(kept, it)
			} else {
				dropped++
			}
		}
		if len(kept) != len(c.Items) {
			c.Items = kept
			s.persistLocked(cartID, c)
		}
	}
	return dropped
}
