package shopapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/casadobolo/internal/cep"
	"github.com/talkincode/casadobolo/internal/checkout"
	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/internal/webserver"
)

func registerCheckoutRoutes() {
	webserver.PubGET("/checkout/quote", quoteCheckout)
	webserver.PubPOST("/checkout", submitCheckout)
	webserver.PubGET("/cep/:code", lookupCep)
}

// quoteCheckout returns the order summary; while no neighborhood is
// resolved the fee stays null and the total falls back to the subtotal.
func quoteCheckout(c echo.Context) error {
	appCtx := webserver.GetAppContext(c)
	neighborhoodID := strings.TrimSpace(c.QueryParam("neighborhood"))
	quote := appCtx.Checkout().Quote(webserver.GetCartID(c), neighborhoodID)
	return c.JSON(http.StatusOK, quote)
}

func submitCheckout(c echo.Context) error {
	var form domain.CheckoutForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if err := c.Validate(&form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	appCtx := webserver.GetAppContext(c)
	order, err := appCtx.Checkout().Submit(c.Request().Context(), webserver.GetCartID(c), form)
	switch err {
	case nil:
		return c.JSON(http.StatusOK, order)
	case checkout.ErrEmptyCart:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cart is empty"})
	case checkout.ErrFeeUnresolved:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "select a delivery neighborhood"})
	case checkout.ErrCustomNameRequired:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "type your neighborhood name"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "checkout failed"})
	}
}

type cepView struct {
	Address *cep.Address `json:"address,omitempty"`
	// NeighborhoodID is the matched delivery area, or "outro" with the
	// district pre-filled when no known neighborhood matches.
	NeighborhoodID     string `json:"neighborhoodId,omitempty"`
	CustomNeighborhood string `json:"customNeighborhood,omitempty"`
}

// lookupCep resolves a postal code and tries to select a delivery
// neighborhood from the returned district, matching accent- and
// case-insensitively. Lookup failures leave the form unfilled and never
// block checkout, so they come back as an empty 200.
func lookupCep(c echo.Context) error {
	appCtx := webserver.GetAppContext(c)
	address, err := appCtx.Cep().Lookup(c.Param("code"))
	if err != nil {
		zap.S().Debugf("cep lookup failed: %v", err)
		return c.JSON(http.StatusOK, cepView{})
	}

	view := cepView{Address: address}
	if address.District != "" {
		if match, found := appCtx.Checkout().MatchDistrict(address.District); found {
			view.NeighborhoodID = match.ID
		} else {
			view.NeighborhoodID = domain.NeighborhoodOther
			view.CustomNeighborhood = address.District
		}
	}
	return c.JSON(http.StatusOK, view)
}
