package shopapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/internal/webserver"
)

type addItemPayload struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

type quantityPayload struct {
	Quantity int `json:"quantity"`
}

func registerCartRoutes() {
	webserver.PubGET("/cart", getCart)
	webserver.PubPOST("/cart/items", addCartItem)
	webserver.PubPUT("/cart/items/:id", updateCartItem)
	webserver.PubDELETE("/cart/items/:id", removeCartItem)
	webserver.PubDELETE("/cart", clearCart)
	webserver.PubDELETE("/cart/notice", dismissCartNotice)
}

type cartView struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
	// Shipping preview for the cart page: free above the threshold, flat
	// fee below. Independent from the checkout neighborhood fee.
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
	Notice   string  `json:"notice,omitempty"`
}

func renderCart(c echo.Context) cartView {
	appCtx := webserver.GetAppContext(c)
	cartID := webserver.GetCartID(c)
	cart := appCtx.Carts().Cart(cartID)

	view := cartView{
		Items:      cart.Items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
	view.Shipping = appCtx.Checkout().CartEstimate(view.TotalPrice)
	view.Total = view.TotalPrice + view.Shipping
	if msg, pending := appCtx.Carts().Notice(cartID); pending {
		view.Notice = msg
	}
	return view
}

func getCart(c echo.Context) error {
	return c.JSON(http.StatusOK, renderCart(c))
}

// addCartItem upserts a line for the product: one line per product id,
// quantity incremented on repeat adds. Stale references are impossible here
// because the product must exist at add time.
func addCartItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if err := c.Validate(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "productId is required"})
	}

	appCtx := webserver.GetAppContext(c)
	product, found := appCtx.Catalog().GetProduct(payload.ProductID)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}

	appCtx.Carts().AddItem(webserver.GetCartID(c), product)
	return c.JSON(http.StatusOK, renderCart(c))
}

// updateCartItem sets the line quantity; zero or negative removes the line.
func updateCartItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}
	var payload quantityPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	appCtx := webserver.GetAppContext(c)
	appCtx.Carts().UpdateQuantity(webserver.GetCartID(c), id, payload.Quantity)
	return c.JSON(http.StatusOK, renderCart(c))
}

func removeCartItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}
	appCtx := webserver.GetAppContext(c)
	appCtx.Carts().RemoveItem(webserver.GetCartID(c), id)
	return c.JSON(http.StatusOK, renderCart(c))
}

func clearCart(c echo.Context) error {
	appCtx := webserver.GetAppContext(c)
	appCtx.Carts().Clear(webserver.GetCartID(c))
	return c.JSON(http.StatusOK, renderCart(c))
}

func dismissCartNotice(c echo.Context) error {
	appCtx := webserver.GetAppContext(c)
	appCtx.Carts().DismissNotice(webserver.GetCartID(c))
	return c.JSON(http.StatusOK, renderCart(c))
}
