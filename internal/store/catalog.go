package store

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/pkg/common"
)

// CatalogStore is the single source of truth for products, categories,
// cities and neighborhoods. It loads each collection from storage on
// construction, falling back to the bundled defaults, and writes the
// affected collection back after every mutation.
//
// All cross-entity consistency (city rename/delete cascading into
// neighborhoods) lives here; callers never patch collections directly.
type CatalogStore struct {
	mu      sync.RWMutex
	storage *Storage

	products      []domain.Product
	neighborhoods []domain.Neighborhood
	cities        []string
	categories    []domain.Category

	ready bool
	nowFn func() time.Time
}

func NewCatalogStore(storage *Storage) *CatalogStore {
	s := &CatalogStore{storage: storage, nowFn: time.Now}
	s.load()
	return s
}

// load hydrates every collection. Absent or unreadable keys fall back to the
// bundled defaults; cities default to the deduplicated city set of the
// default neighborhood list, in first-seen order.
func (s *CatalogStore) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.storage.Load(BucketCatalog, KeyProducts, &s.products) {
		s.products = append([]domain.Product(nil), domain.DefaultProducts...)
	}
	if !s.storage.Load(BucketCatalog, KeyNeighborhoods, &s.neighborhoods) {
		s.neighborhoods = append([]domain.Neighborhood(nil), domain.DefaultNeighborhoods...)
	}
	if !s.storage.Load(BucketCatalog, KeyCities, &s.cities) {
		s.cities = domain.DefaultCities()
	}
	if !s.storage.Load(BucketCatalog, KeyCategories, &s.categories) {
		s.categories = append([]domain.Category(nil), domain.DefaultCategories...)
	}
	s.ready = true
}

// Ready reports whether initial hydration completed.
func (s *CatalogStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *CatalogStore) persist(key string, v interface{}) {
	if err := s.storage.Save(BucketCatalog, key, v); err != nil {
		zap.S().Errorf("catalog: persist %s failed: %v", key, err)
	}
}

// Snapshots return copies so callers never alias internal state.

func (s *CatalogStore) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

func (s *CatalogStore) Neighborhoods() []domain.Neighborhood {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Neighborhood(nil), s.neighborhoods...)
}

func (s *CatalogStore) Cities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.cities...)
}

func (s *CatalogStore) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...)
}

// GetProduct returns the product with the given id, if present.
func (s *CatalogStore) GetProduct(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// GetNeighborhood returns the neighborhood with the given id, if present.
func (s *CatalogStore) GetNeighborhood(id string) (domain.Neighborhood, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.neighborhoods {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Neighborhood{}, false
}

// ProductIDSet returns the set of live product ids, used by the cart sweep.
func (s *CatalogStore) ProductIDSet() map[int64]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[int64]struct{}, len(s.products))
	for _, p := range s.products {
		ids[p.ID] = struct{}{}
	}
	return ids
}

// AddProduct assigns id = max existing id + 1 (1 when empty) and appends.
// Duplicate names are allowed; no validation happens here.
func (s *CatalogStore) AddProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, existing := range s.products {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	p.ID = maxID + 1
	s.products = append(s.products, p)
	s.persist(KeyProducts, s.products)
	return p
}

// UpdateProduct replaces the entry whose id matches; silent no-op otherwise.
func (s *CatalogStore) UpdateProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			s.persist(KeyProducts, s.products)
			return
		}
	}
}

// DeleteProduct removes the matching entry; no-op if absent.
func (s *CatalogStore) DeleteProduct(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.persist(KeyProducts, s.products)
			return
		}
	}
}

// AddNeighborhood generates the id from the lower-cased, space-to-underscore
// city prefix (first 3 characters) plus the slugged name plus a millisecond
// timestamp suffix, then appends.
func (s *CatalogStore) AddNeighborhood(n domain.Neighborhood) domain.Neighborhood {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := []rune(common.Slugify(n.City))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	n.ID = fmt.Sprintf("%s_%s_%d", string(prefix), common.Slugify(n.Name), s.nowFn().UnixMilli())
	s.neighborhoods = append(s.neighborhoods, n)
	s.persist(KeyNeighborhoods, s.neighborhoods)
	return n
}

// UpdateNeighborhood replaces by id; no-op if absent.
func (s *CatalogStore) UpdateNeighborhood(n domain.Neighborhood) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.neighborhoods {
		if s.neighborhoods[i].ID == n.ID {
			s.neighborhoods[i] = n
			s.persist(KeyNeighborhoods, s.neighborhoods)
			return
		}
	}
}

// DeleteNeighborhood removes by id; no-op if absent.
func (s *CatalogStore) DeleteNeighborhood(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.neighborhoods {
		if s.neighborhoods[i].ID == id {
			s.neighborhoods = append(s.neighborhoods[:i], s.neighborhoods[i+1:]...)
			s.persist(KeyNeighborhoods, s.neighborhoods)
			return
		}
	}
}

// AddCity appends a city unless an exact (case-sensitive) match exists.
func (s *CatalogStore) AddCity(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cities {
		if c == name {
			return
		}
	}
	s.cities = append(s.cities, name)
	s.persist(KeyCities, s.cities)
}

// UpdateCity renames the city entry and rewrites the city field of every
// neighborhood currently pointing at oldName.
func (s *CatalogStore) UpdateCity(oldName, newName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cities {
		if s.cities[i] == oldName {
			s.cities[i] = newName
		}
	}
	for i := range s.neighborhoods {
		if s.neighborhoods[i].City == oldName {
			s.neighborhoods[i].City = newName
		}
	}
	s.persist(KeyCities, s.cities)
	s.persist(KeyNeighborhoods, s.neighborhoods)
}

// DeleteCity removes the city and cascade-deletes every neighborhood whose
// city equals it.
func (s *CatalogStore) DeleteCity(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cities := s.cities[:0]
	for _, c := range s.cities {
		if c != name {
			cities = append(cities, c)
		}
	}
	s.cities = cities
	kept := s.neighborhoods[:0]
	for _, n := range s.neighborhoods {
		if n.City != name {
			kept = append(kept, n)
		}
	}
	s.neighborhoods = kept
	s.persist(KeyCities, s.cities)
	s.persist(KeyNeighborhoods, s.neighborhoods)
}

// AddCategory derives the id by normalizing the label (casefold, accent
// strip, whitespace to underscore) and appends. Id collisions are not
// checked: two labels normalizing identically both stay.
func (s *CatalogStore) AddCategory(label string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := domain.Category{ID: common.CategorySlug(label), Label: label}
	s.categories = append(s.categories, cat)
	s.persist(KeyCategories, s.categories)
	return cat
}

// DeleteCategory removes the entry unless id is the reserved "todos",
// which is a guaranteed no-op.
func (s *CatalogStore) DeleteCategory(id string) {
	if id == domain.CategoryAll {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			s.persist(KeyCategories, s.categories)
			return
		}
	}
}
