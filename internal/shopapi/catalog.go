package shopapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/internal/webserver"
)

// RegisterRoutes registers the public storefront endpoints. Call after
// webserver.Init.
func RegisterRoutes() {
	registerCatalogRoutes()
	registerCartRoutes()
	registerCheckoutRoutes()
}

func registerCatalogRoutes() {
	webserver.PubGET("/catalog/products", listCatalogProducts)
	webserver.PubGET("/catalog/featured", listFeaturedProducts)
	webserver.PubGET("/catalog/categories", listCatalogCategories)
	webserver.PubGET("/catalog/neighborhoods", listDeliveryAreas)
}

// listCatalogProducts filters by category id; "todos" (or none) means all.
func listCatalogProducts(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	products := webserver.GetAppContext(c).Catalog().Products()
	if category == "" || category == domain.CategoryAll {
		return c.JSON(http.StatusOK, products)
	}
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return c.JSON(http.StatusOK, filtered)
}

// listFeaturedProducts returns the first four badge-carrying products, the
// storefront home selection.
func listFeaturedProducts(c echo.Context) error {
	products := webserver.GetAppContext(c).Catalog().Products()
	featured := make([]domain.Product, 0, 4)
	for _, p := range products {
		if p.Badge != "" {
			featured = append(featured, p)
			if len(featured) == 4 {
				break
			}
		}
	}
	return c.JSON(http.StatusOK, featured)
}

func listCatalogCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, webserver.GetAppContext(c).Catalog().Categories())
}

type deliveryArea struct {
	domain.Neighborhood
	ZoneLabel string `json:"zoneLabel"`
}

// listDeliveryAreas serves the checkout neighborhood select, grouped by city
// in first-seen order, with display labels for each zone.
func listDeliveryAreas(c echo.Context) error {
	neighborhoods := webserver.GetAppContext(c).Catalog().Neighborhoods()
	order, groups := domain.GroupByCity(neighborhoods)

	out := make([]map[string]interface{}, 0, len(order))
	for _, city := range order {
		areas := make([]deliveryArea, 0, len(groups[city]))
		for _, n := range groups[city] {
			areas = append(areas, deliveryArea{Neighborhood: n, ZoneLabel: domain.ZoneLabels[n.Zone]})
		}
		out = append(out, map[string]interface{}{"city": city, "neighborhoods": areas})
	}
	return c.JSON(http.StatusOK, out)
}
