package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/internal/webserver"
)

type categoryPayload struct {
	Label string `json:"label" validate:"required,min=1,max=120"`
}

func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	return ok(c, GetApp(c).Catalog().Categories())
}

// createCategory derives the id from the label inside the store. Ids are not
// checked for collisions: two labels normalizing identically both stay.
func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	created := GetApp(c).Catalog().AddCategory(strings.TrimSpace(payload.Label))
	return ok(c, created)
}

func deleteCategory(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == domain.CategoryAll {
		return fail(c, http.StatusBadRequest, "RESERVED", "The \"todos\" category cannot be removed", nil)
	}
	GetApp(c).Catalog().DeleteCategory(id)
	return ok(c, map[string]string{"id": id})
}
