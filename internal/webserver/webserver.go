package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"github.com/talkincode/casadobolo/config"
	"github.com/talkincode/casadobolo/internal/cep"
	"github.com/talkincode/casadobolo/internal/checkout"
	"github.com/talkincode/casadobolo/internal/store"
)

const (
	sessionName   = "casadobolo_session"
	sessionCartID = "cart_id"

	// AppContextKey locates the application context inside echo's context.
	AppContextKey = "appctx"
)

// AppContext is the slice of the application the HTTP handlers depend on.
type AppContext interface {
	Config() *config.AppConfig
	Catalog() *store.CatalogStore
	Carts() *store.CartStore
	Settings() *store.Settings
	Checkout() *checkout.Service
	Cep() *cep.Client
}

type WebServer struct {
	root   *echo.Echo
	appCtx AppContext
}

var server *WebServer

type serverValidator struct {
	validate *validator.Validate
}

func (v *serverValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init builds the echo instance, wires middleware and route groups.
// Call Init before any route registration.
func Init(appCtx AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &serverValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(appCtx.Config().Web.Secret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))

	server = &WebServer{root: e, appCtx: appCtx}
	return server
}

// GetAppContext pulls the application context injected by Init's middleware.
func GetAppContext(c echo.Context) AppContext {
	return c.Get(AppContextKey).(AppContext)
}

// GetCartID returns the session's cart id, minting one on first use.
func GetCartID(c echo.Context) string {
	sess, _ := session.Get(sessionName, c)
	if sess != nil {
		if v, ok := sess.Values[sessionCartID].(string); ok && v != "" {
			return v
		}
	}
	id := random.String(24)
	if sess != nil {
		sess.Options = &sessions.Options{
			Path:     "/",
			MaxAge:   86400 * 30,
			HttpOnly: true,
		}
		sess.Values[sessionCartID] = id
		_ = sess.Save(c.Request(), c.Response())
	}
	return id
}

func adminGroup() *echo.Group {
	secret := server.appCtx.Config().Web.Secret
	g := server.root.Group("/api/admin")
	g.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/api/admin/login"
		},
	}))
	return g
}

var admin *echo.Group

func ensureAdmin() *echo.Group {
	if admin == nil {
		admin = adminGroup()
	}
	return admin
}

// Public storefront routes.

func PubGET(path string, h echo.HandlerFunc)    { server.root.GET("/api"+path, h) }
func PubPOST(path string, h echo.HandlerFunc)   { server.root.POST("/api"+path, h) }
func PubPUT(path string, h echo.HandlerFunc)    { server.root.PUT("/api"+path, h) }
func PubDELETE(path string, h echo.HandlerFunc) { server.root.DELETE("/api"+path, h) }

// Admin routes, JWT-guarded except the login path itself.

func ApiGET(path string, h echo.HandlerFunc)    { ensureAdmin().GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { ensureAdmin().POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { ensureAdmin().PUT(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { ensureAdmin().DELETE(path, h) }

// Start blocks serving HTTP until the server stops.
func Start() error {
	cfg := server.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	err := server.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Instance exposes the underlying echo engine (tests).
func Instance() *echo.Echo {
	return server.root
}

// Shutdown stops the server gracefully.
func Shutdown(timeout time.Duration) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = server.root.Shutdown(ctx)
}
