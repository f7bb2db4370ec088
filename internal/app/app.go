package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/talkincode/casadobolo/config"
	"github.com/talkincode/casadobolo/internal/cep"
	"github.com/talkincode/casadobolo/internal/checkout"
	"github.com/talkincode/casadobolo/internal/store"
)

type Application struct {
	appConfig *config.AppConfig
	storage   *store.Storage
	catalog   *store.CatalogStore
	carts     *store.CartStore
	settings  *store.Settings
	checkout  *checkout.Service
	cepClient *cep.Client
	bus       EventBus.Bus
	sched     *cron.Cron
}

// Ensure Application implements all provider interfaces
var (
	_ ConfigProvider   = (*Application)(nil)
	_ StorageProvider  = (*Application)(nil)
	_ CatalogProvider  = (*Application)(nil)
	_ CartProvider     = (*Application)(nil)
	_ SettingsProvider = (*Application)(nil)
	_ CheckoutProvider = (*Application)(nil)
	_ CepProvider      = (*Application)(nil)
	_ AppContext       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig       { return a.appConfig }
func (a *Application) Storage() *store.Storage         { return a.storage }
func (a *Application) Catalog() *store.CatalogStore    { return a.catalog }
func (a *Application) Carts() *store.CartStore         { return a.carts }
func (a *Application) Settings() *store.Settings       { return a.settings }
func (a *Application) Checkout() *checkout.Service     { return a.checkout }
func (a *Application) Cep() *cep.Client                { return a.cepClient }
func (a *Application) Bus() EventBus.Bus               { return a.bus }
func (a *Application) Scheduler() *cron.Cron           { return a.sched }

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		return err
	}

	a.storage, err = store.Open(cfg.GetStoragePath())
	if err != nil {
		return err
	}
	zap.S().Infof("storage opened at %s", cfg.GetStoragePath())

	a.bus = EventBus.New()
	a.settings = store.NewSettings(a.storage)
	a.catalog = store.NewCatalogStore(a.storage)
	a.carts = store.NewCartStore(a.storage, a.bus, cfg.NoticeTTL())
	a.cepClient = cep.NewClient()

	a.checkout, err = checkout.NewService(a.catalog, a.carts, a.settings, cfg.ProcessingDelay())
	if err != nil {
		return err
	}

	if err := a.bus.Subscribe(store.TopicCartItemAdded, a.onCartItemAdded); err != nil {
		zap.S().Errorf("subscribe cart events: %v", err)
	}

	a.initJob()
	return nil
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func (a *Application) onCartItemAdded(cartID, productName string) {
	zap.L().Debug("cart item added",
		zap.String("cart_id", cartID),
		zap.String("product", productName))
}

// Release releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.storage != nil {
		_ = a.storage.Close()
	}
	_ = zap.L().Sync()
}
