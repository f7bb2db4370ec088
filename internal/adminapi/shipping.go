package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/internal/webserver"
)

type neighborhoodPayload struct {
	Name string  `json:"name" validate:"required,min=1,max=120"`
	City string  `json:"city" validate:"required,min=1,max=120"`
	Fee  float64 `json:"fee" validate:"gte=0"`
	Zone string  `json:"zone" validate:"required,oneof=gratis proxima media distante remota custom"`
}

type cityPayload struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type cityRenamePayload struct {
	OldName string `json:"oldName" validate:"required,min=1,max=120"`
	NewName string `json:"newName" validate:"required,min=1,max=120"`
}

func registerShippingRoutes() {
	webserver.ApiGET("/shipping/neighborhoods", listNeighborhoods)
	webserver.ApiPOST("/shipping/neighborhoods", createNeighborhood)
	webserver.ApiPUT("/shipping/neighborhoods/:id", updateNeighborhood)
	webserver.ApiDELETE("/shipping/neighborhoods/:id", deleteNeighborhood)

	webserver.ApiGET("/shipping/cities", listCities)
	webserver.ApiPOST("/shipping/cities", createCity)
	webserver.ApiPUT("/shipping/cities", renameCity)
	webserver.ApiDELETE("/shipping/cities/:name", deleteCity)
}

func listNeighborhoods(c echo.Context) error {
	neighborhoods := GetApp(c).Catalog().Neighborhoods()
	if c.QueryParam("grouped") == "true" {
		order, groups := domain.GroupByCity(neighborhoods)
		return ok(c, map[string]interface{}{"cities": order, "groups": groups})
	}
	return ok(c, neighborhoods)
}

func createNeighborhood(c echo.Context) error {
	var payload neighborhoodPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse neighborhood", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	created := GetApp(c).Catalog().AddNeighborhood(domain.Neighborhood{
		Name: strings.TrimSpace(payload.Name),
		City: strings.TrimSpace(payload.City),
		Fee:  payload.Fee,
		Zone: domain.Zone(payload.Zone),
	})
	return ok(c, created)
}

func updateNeighborhood(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	catalog := GetApp(c).Catalog()
	if _, found := catalog.GetNeighborhood(id); !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Neighborhood not found", nil)
	}

	var payload neighborhoodPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse neighborhood", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	n := domain.Neighborhood{
		ID:   id,
		Name: strings.TrimSpace(payload.Name),
		City: strings.TrimSpace(payload.City),
		Fee:  payload.Fee,
		Zone: domain.Zone(payload.Zone),
	}
	catalog.UpdateNeighborhood(n)
	return ok(c, n)
}

// deleteNeighborhood removes a delivery area. The "outro" sentinel is the
// permanent fallback option and stays.
func deleteNeighborhood(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == domain.NeighborhoodOther {
		return fail(c, http.StatusBadRequest, "RESERVED", "The fallback neighborhood cannot be removed", nil)
	}
	GetApp(c).Catalog().DeleteNeighborhood(id)
	return ok(c, map[string]string{"id": id})
}

func listCities(c echo.Context) error {
	return ok(c, GetApp(c).Catalog().Cities())
}

func createCity(c echo.Context) error {
	var payload cityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse city", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	name := strings.TrimSpace(payload.Name)
	GetApp(c).Catalog().AddCity(name)
	return ok(c, map[string]string{"name": name})
}

// renameCity renames a city; every neighborhood pointing at the old name
// follows along inside the catalog store.
func renameCity(c echo.Context) error {
	var payload cityRenamePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse city rename", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	GetApp(c).Catalog().UpdateCity(strings.TrimSpace(payload.OldName), strings.TrimSpace(payload.NewName))
	return ok(c, map[string]string{"name": strings.TrimSpace(payload.NewName)})
}

// deleteCity cascade-deletes the city's neighborhoods with it.
func deleteCity(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "City name is required", nil)
	}
	GetApp(c).Catalog().DeleteCity(name)
	return ok(c, map[string]string{"name": name})
}
