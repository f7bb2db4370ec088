package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/talkincode/casadobolo/config"
	"github.com/talkincode/casadobolo/internal/cep"
	"github.com/talkincode/casadobolo/internal/checkout"
	"github.com/talkincode/casadobolo/internal/store"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StorageProvider provides raw storage access
type StorageProvider interface {
	Storage() *store.Storage
}

// CatalogProvider provides the catalog/config store
type CatalogProvider interface {
	Catalog() *store.CatalogStore
}

// CartProvider provides the cart store
type CartProvider interface {
	Carts() *store.CartStore
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	Settings() *store.Settings
}

// CheckoutProvider provides the checkout service
type CheckoutProvider interface {
	Checkout() *checkout.Service
}

// CepProvider provides the postal-code lookup client
type CepProvider interface {
	Cep() *cep.Client
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	StorageProvider
	CatalogProvider
	CartProvider
	SettingsProvider
	CheckoutProvider
	CepProvider

	Bus() EventBus.Bus
	Scheduler() *cron.Cron

	// RunCartSweepNow prunes cart lines referencing deleted products.
	RunCartSweepNow() int
	// RunBackupNow writes a storage snapshot and returns its path.
	RunBackupNow() (string, error)
}
