package shopapi_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/casadobolo/config"
	"github.com/talkincode/casadobolo/internal/adminapi"
	"github.com/talkincode/casadobolo/internal/cep"
	"github.com/talkincode/casadobolo/internal/checkout"
	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/internal/shopapi"
	"github.com/talkincode/casadobolo/internal/store"
	"github.com/talkincode/casadobolo/internal/webserver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// testApp wires real stores over a throwaway datafile, standing in for the
// full application behind the HTTP layer.
type testApp struct {
	cfg       *config.AppConfig
	catalog   *store.CatalogStore
	carts     *store.CartStore
	settings  *store.Settings
	checkoutS *checkout.Service
	cepClient *cep.Client
}

func (a *testApp) Config() *config.AppConfig    { return a.cfg }
func (a *testApp) Catalog() *store.CatalogStore { return a.catalog }
func (a *testApp) Carts() *store.CartStore      { return a.carts }
func (a *testApp) Settings() *store.Settings    { return a.settings }
func (a *testApp) Checkout() *checkout.Service  { return a.checkoutS }
func (a *testApp) Cep() *cep.Client             { return a.cepClient }

// Route registration touches package-level state, so the server is built once
// and shared by every test in the package.
var (
	setupOnce sync.Once
	setupErr  error
	apiServer *echo.Echo
)

func setupAPI(t *testing.T) *echo.Echo {
	t.Helper()
	setupOnce.Do(func() {
		dir, err := os.MkdirTemp("", "casadobolo-api-*")
		if err != nil {
			setupErr = err
			return
		}
		storage, err := store.Open(filepath.Join(dir, "test.db"))
		if err != nil {
			setupErr = err
			return
		}

		cfg := *config.DefaultAppConfig
		app := &testApp{
			cfg:      &cfg,
			catalog:  store.NewCatalogStore(storage),
			carts:    store.NewCartStore(storage, EventBus.New(), 3*time.Second),
			settings: store.NewSettings(storage),
		}
		app.checkoutS, err = checkout.NewService(app.catalog, app.carts, app.settings, 0)
		if err != nil {
			setupErr = err
			return
		}
		app.cepClient = cep.NewClientWithBase("http://127.0.0.1:1")

		webserver.Init(app)
		adminapi.RegisterRoutes()
		shopapi.RegisterRoutes()
		apiServer = webserver.Instance()
	})
	require.NoError(t, setupErr)
	return apiServer
}

type apiClient struct {
	e       *echo.Echo
	cookies []*http.Cookie
	token   string
}

func (cl *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cl.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+cl.token)
	}
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	cl.e.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		cl.cookies = cs
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestStorefrontCatalog(t *testing.T) {
	cl := &apiClient{e: setupAPI(t)}

	rec := cl.do(http.MethodGet, "/api/catalog/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []domain.Product
	decode(t, rec, &products)
	assert.NotEmpty(t, products)

	rec = cl.do(http.MethodGet, "/api/catalog/products?category=doces", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &products)
	for _, p := range products {
		assert.Equal(t, "doces", p.Category)
	}

	rec = cl.do(http.MethodGet, "/api/catalog/featured", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &products)
	assert.LessOrEqual(t, len(products), 4)
	for _, p := range products {
		assert.NotEmpty(t, p.Badge)
	}

	rec = cl.do(http.MethodGet, "/api/catalog/neighborhoods", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []map[string]interface{}
	decode(t, rec, &groups)
	require.NotEmpty(t, groups)
	assert.Equal(t, "Vitória da Conquista", groups[0]["city"])
}

func TestCartSessionFlow(t *testing.T) {
	cl := &apiClient{e: setupAPI(t)}

	type cartView struct {
		Items      []domain.CartItem `json:"items"`
		TotalItems int               `json:"totalItems"`
		TotalPrice float64           `json:"totalPrice"`
		Shipping   float64           `json:"shipping"`
		Total      float64           `json:"total"`
		Notice     string            `json:"notice"`
	}

	rec := cl.do(http.MethodPost, "/api/cart/items", `{"productId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	decode(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.TotalItems)
	assert.Contains(t, view.Notice, "adicionado ao carrinho")

	// repeat add increments the same line, session carried via cookie
	rec = cl.do(http.MethodPost, "/api/cart/items", `{"productId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.TotalItems)

	rec = cl.do(http.MethodGet, "/api/cart", "")
	decode(t, rec, &view)
	assert.Equal(t, 2, view.TotalItems)
	assert.InDelta(t, view.TotalPrice+view.Shipping, view.Total, 0.0001)

	// setting quantity to zero drops the line
	rec = cl.do(http.MethodPut, "/api/cart/items/1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	assert.Empty(t, view.Items)

	// unknown product is rejected before touching the cart
	rec = cl.do(http.MethodPost, "/api/cart/items", `{"productId":99999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// a fresh client gets its own empty cart
	other := &apiClient{e: setupAPI(t)}
	rec = other.do(http.MethodGet, "/api/cart", "")
	decode(t, rec, &view)
	assert.Empty(t, view.Items)
}

func TestAdminAuth(t *testing.T) {
	cl := &apiClient{e: setupAPI(t)}

	rec := cl.do(http.MethodGet, "/api/admin/products", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = cl.do(http.MethodPost, "/api/admin/login", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = cl.do(http.MethodPost, "/api/admin/login",
		fmt.Sprintf(`{"password":%q}`, config.DefaultAppConfig.Web.AdminPassword))
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Code int `json:"code"`
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decode(t, rec, &login)
	assert.Equal(t, 0, login.Code)
	require.NotEmpty(t, login.Data.Token)

	cl.token = login.Data.Token
	rec = cl.do(http.MethodGet, "/api/admin/products", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func adminClient(t *testing.T) *apiClient {
	t.Helper()
	cl := &apiClient{e: setupAPI(t)}
	rec := cl.do(http.MethodPost, "/api/admin/login",
		fmt.Sprintf(`{"password":%q}`, config.DefaultAppConfig.Web.AdminPassword))
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decode(t, rec, &login)
	cl.token = login.Data.Token
	return cl
}

func TestAdminProductLifecycle(t *testing.T) {
	cl := adminClient(t)

	rec := cl.do(http.MethodPost, "/api/admin/products",
		`{"name":"Bolo de Milho Verde","price":38.5,"category":"classicos"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Data domain.Product `json:"data"`
	}
	decode(t, rec, &created)
	assert.Greater(t, created.Data.ID, int64(0))
	assert.Equal(t, "R$ 38,50", created.Data.PriceFormatted, "price formatted when omitted")

	rec = cl.do(http.MethodPut, fmt.Sprintf("/api/admin/products/%d", created.Data.ID),
		`{"name":"Bolo de Milho Verde","price":41.0,"category":"classicos"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = cl.do(http.MethodGet, fmt.Sprintf("/api/admin/products/%d", created.Data.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data domain.Product `json:"data"`
	}
	decode(t, rec, &got)
	assert.Equal(t, 41.0, got.Data.Price)

	rec = cl.do(http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", created.Data.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = cl.do(http.MethodGet, fmt.Sprintf("/api/admin/products/%d", created.Data.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminProductValidation(t *testing.T) {
	cl := adminClient(t)

	rec := cl.do(http.MethodPost, "/api/admin/products", `{"price":10.0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminProductExport(t *testing.T) {
	cl := adminClient(t)

	rec := cl.do(http.MethodGet, "/api/admin/products/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "products.csv")
	assert.Contains(t, rec.Body.String(), "price_formatted")
}

func TestAdminReservedEntriesProtected(t *testing.T) {
	cl := adminClient(t)

	rec := cl.do(http.MethodDelete, "/api/admin/shipping/neighborhoods/outro", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = cl.do(http.MethodDelete, "/api/admin/categories/todos", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminSettingsRejectUnknownKeysAtomically(t *testing.T) {
	cl := adminClient(t)

	// one bad key rejects the whole payload, valid keys included
	rec := cl.do(http.MethodPut, "/api/admin/settings",
		`{"shipping.cart_flat_fee":9.9,"bogus.key":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	rec = cl.do(http.MethodGet, "/api/admin/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.EqualValues(t, 15.9, resp.Data["shipping.cart_flat_fee"])

	rec = cl.do(http.MethodPut, "/api/admin/settings", `{"shipping.cart_flat_fee":9.9}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.EqualValues(t, 9.9, resp.Data["shipping.cart_flat_fee"])

	// restore the default for the rest of the suite
	rec = cl.do(http.MethodPut, "/api/admin/settings", `{"shipping.cart_flat_fee":15.9}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutQuoteEndpoint(t *testing.T) {
	cl := &apiClient{e: setupAPI(t)}

	rec := cl.do(http.MethodPost, "/api/cart/items", `{"productId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = cl.do(http.MethodGet, "/api/checkout/quote?neighborhood=vca_felicia", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var quote checkout.Quote
	decode(t, rec, &quote)
	require.NotNil(t, quote.Fee)
	assert.Equal(t, 8.0, *quote.Fee)
	assert.InDelta(t, quote.Subtotal+8.0, quote.Total, 0.0001)

	rec = cl.do(http.MethodGet, "/api/checkout/quote", "")
	decode(t, rec, &quote)
	assert.Nil(t, quote.Fee)
}

func TestSubmitCheckoutEndpoint(t *testing.T) {
	cl := &apiClient{e: setupAPI(t)}

	// empty cart is rejected
	form := `{"name":"Maria Silva","phone":"77999990000","address":"Rua das Flores","city":"Vitória da Conquista","neighborhoodId":"vca_centro","payment":"pix"}`
	rec := cl.do(http.MethodPost, "/api/checkout", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = cl.do(http.MethodPost, "/api/cart/items", `{"productId":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = cl.do(http.MethodPost, "/api/checkout", form)
	require.Equal(t, http.StatusOK, rec.Code)
	var order domain.Order
	decode(t, rec, &order)
	assert.True(t, strings.HasPrefix(order.Number, "CB-"))
	assert.Equal(t, "Centro", order.Neighborhood)

	// the cart is gone once the order is placed
	var view struct {
		Items []domain.CartItem `json:"items"`
	}
	rec = cl.do(http.MethodGet, "/api/cart", "")
	decode(t, rec, &view)
	assert.Empty(t, view.Items)
}
