package checkout

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/internal/store"
)

type testEnv struct {
	catalog  *store.CatalogStore
	carts    *store.CartStore
	settings *store.Settings
	svc      *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	storage, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	env := &testEnv{
		catalog:  store.NewCatalogStore(storage),
		carts:    store.NewCartStore(storage, EventBus.New(), 3*time.Second),
		settings: store.NewSettings(storage),
	}
	env.svc, err = NewService(env.catalog, env.carts, env.settings, 0)
	require.NoError(t, err)
	return env
}

func validForm(neighborhoodID string) domain.CheckoutForm {
	return domain.CheckoutForm{
		Name:           "Maria Silva",
		Phone:          "77999990000",
		Address:        "Rua das Flores",
		City:           "Vitória da Conquista",
		NeighborhoodID: neighborhoodID,
		Payment:        domain.PaymentPix,
	}
}

func TestResolveFee(t *testing.T) {
	env := newTestEnv(t)

	fee, ok := env.svc.ResolveFee("vca_centro")
	require.True(t, ok)
	assert.Equal(t, 0.0, fee)

	fee, ok = env.svc.ResolveFee("vca_felicia")
	require.True(t, ok)
	assert.Equal(t, 8.0, fee)

	fee, ok = env.svc.ResolveFee("barra_centro")
	require.True(t, ok)
	assert.Equal(t, 25.0, fee)

	// the sentinel always maps to the flat fallback, whatever the typed name
	fee, ok = env.svc.ResolveFee(domain.NeighborhoodOther)
	require.True(t, ok)
	assert.Equal(t, 15.0, fee)

	_, ok = env.svc.ResolveFee("")
	assert.False(t, ok)
	_, ok = env.svc.ResolveFee("nope")
	assert.False(t, ok)
}

func TestCartEstimate(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, 0.0, env.svc.CartEstimate(0))
	assert.Equal(t, 0.0, env.svc.CartEstimate(-5))
	assert.Equal(t, 15.9, env.svc.CartEstimate(149.99))
	assert.Equal(t, 0.0, env.svc.CartEstimate(150))
	assert.Equal(t, 0.0, env.svc.CartEstimate(500))
}

func TestCartEstimateHonorsSettings(t *testing.T) {
	env := newTestEnv(t)
	env.settings.Set(store.SettingFreeThreshold, 100.0)
	env.settings.Set(store.SettingCartFlatFee, 9.9)

	assert.Equal(t, 9.9, env.svc.CartEstimate(99))
	assert.Equal(t, 0.0, env.svc.CartEstimate(100))
}

func TestMatchDistrict(t *testing.T) {
	env := newTestEnv(t)

	for _, variant := range []string{"Felícia", "felicia", "FELICIA", "FELÍCIA"} {
		n, ok := env.svc.MatchDistrict(variant)
		require.True(t, ok, variant)
		assert.Equal(t, "Felícia", n.Name)
		assert.Equal(t, 8.0, n.Fee)
	}

	_, ok := env.svc.MatchDistrict("Bairro Inexistente")
	assert.False(t, ok)
}

func TestQuote(t *testing.T) {
	env := newTestEnv(t)
	p, _ := env.catalog.GetProduct(1) // 49.90
	env.carts.AddItem("c1", p)

	q := env.svc.Quote("c1", "")
	assert.InDelta(t, 49.9, q.Subtotal, 0.0001)
	assert.Nil(t, q.Fee)
	assert.InDelta(t, 49.9, q.Total, 0.0001)

	q = env.svc.Quote("c1", "vca_felicia")
	require.NotNil(t, q.Fee)
	assert.Equal(t, 8.0, *q.Fee)
	assert.InDelta(t, 57.9, q.Total, 0.0001)

	// unknown reference leaves the fee unresolved
	q = env.svc.Quote("c1", "nope")
	assert.Nil(t, q.Fee)
	assert.InDelta(t, 49.9, q.Total, 0.0001)
}

func TestSubmitEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Submit(context.Background(), "c1", validForm("vca_centro"))
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitUnresolvedFee(t *testing.T) {
	env := newTestEnv(t)
	p, _ := env.catalog.GetProduct(1)
	env.carts.AddItem("c1", p)

	_, err := env.svc.Submit(context.Background(), "c1", validForm("nope"))
	assert.ErrorIs(t, err, ErrFeeUnresolved)
}

func TestSubmitCustomNameRequired(t *testing.T) {
	env := newTestEnv(t)
	p, _ := env.catalog.GetProduct(1)
	env.carts.AddItem("c1", p)

	form := validForm(domain.NeighborhoodOther)
	_, err := env.svc.Submit(context.Background(), "c1", form)
	assert.ErrorIs(t, err, ErrCustomNameRequired)

	form.CustomNeighborhood = "Lagoa das Flores"
	order, err := env.svc.Submit(context.Background(), "c1", form)
	require.NoError(t, err)
	assert.Equal(t, "Lagoa das Flores", order.Neighborhood)
	assert.Equal(t, 15.0, order.ShippingFee)
}

func TestSubmitKnownNeighborhood(t *testing.T) {
	env := newTestEnv(t)
	p1, _ := env.catalog.GetProduct(1) // 49.90
	p2, _ := env.catalog.GetProduct(2) // 42.00
	env.carts.AddItem("c1", p1)
	env.carts.AddItem("c1", p1)
	env.carts.AddItem("c1", p2)

	order, err := env.svc.Submit(context.Background(), "c1", validForm("vca_felicia"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.Number, "CB-"))
	assert.Len(t, order.Items, 2)
	assert.InDelta(t, 141.8, order.Subtotal, 0.0001)
	assert.Equal(t, 8.0, order.ShippingFee)
	assert.InDelta(t, 149.8, order.Total, 0.0001)
	assert.Equal(t, "Felícia", order.Neighborhood)
	assert.Equal(t, "Vitória da Conquista", order.City)
	assert.Equal(t, domain.PaymentPix, order.Payment)

	assert.Empty(t, env.carts.Cart("c1").Items, "cart is cleared after checkout")
}

func TestSubmitOrderNumbersAreUnique(t *testing.T) {
	env := newTestEnv(t)
	p, _ := env.catalog.GetProduct(1)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		env.carts.AddItem("c1", p)
		order, err := env.svc.Submit(context.Background(), "c1", validForm("vca_centro"))
		require.NoError(t, err)
		assert.False(t, seen[order.Number])
		seen[order.Number] = true
	}
}

func TestSubmitHonorsContextCancellation(t *testing.T) {
	env := newTestEnv(t)
	var err error
	env.svc, err = NewService(env.catalog, env.carts, env.settings, 5*time.Second)
	require.NoError(t, err)

	p, _ := env.catalog.GetProduct(1)
	env.carts.AddItem("c1", p)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = env.svc.Submit(ctx, "c1", validForm("vca_centro"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotEmpty(t, env.carts.Cart("c1").Items, "cart survives an aborted checkout")
}
