package store

import (
	"sync"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Shipping tunables, seeded to the storefront's shipped constants.
const (
	SettingFallbackFee   = "shipping.fallback_fee"   // "outro" flat rate
	SettingFreeThreshold = "shipping.free_threshold" // cart estimate: free above
	SettingCartFlatFee   = "shipping.cart_flat_fee"  // cart estimate: flat below
)

var defaultSettings = map[string]interface{}{
	SettingFallbackFee:   15.0,
	SettingFreeThreshold: 150.0,
	SettingCartFlatFee:   15.9,
}

// Settings is a typed view over the settings bucket. Values persist as JSON
// scalars and are converted on read.
type Settings struct {
	mu      sync.RWMutex
	storage *Storage
	values  map[string]interface{}
}

// NewSettings loads persisted settings and fills gaps from the defaults.
func NewSettings(storage *Storage) *Settings {
	s := &Settings{storage: storage, values: make(map[string]interface{})}
	for k, v := range defaultSettings {
		var stored interface{}
		if storage.Load(BucketSettings, k, &stored) {
			s.values[k] = stored
		} else {
			s.values[k] = v
		}
	}
	return s
}

func (s *Settings) get(key string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return defaultSettings[key]
}

// GetFloat64 converts the stored scalar on read; the shipping tunables are
// all monetary values.
func (s *Settings) GetFloat64(key string) float64 { return cast.ToFloat64(s.get(key)) }

// Set stores a value and writes it through.
func (s *Settings) Set(key string, value interface{}) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	if err := s.storage.Save(BucketSettings, key, value); err != nil {
		zap.S().Errorf("settings: persist %s failed: %v", key, err)
	}
}

// All returns a copy of the current settings map.
func (s *Settings) All() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
