package adminapi

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/talkincode/casadobolo/internal/domain"
	"github.com/talkincode/casadobolo/internal/webserver"
	"github.com/talkincode/casadobolo/pkg/common"
)

// maxImageSize caps product photo uploads at 2 MB.
const maxImageSize = 2 * 1024 * 1024

type productPayload struct {
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	Price          float64 `json:"price" validate:"gte=0"`
	PriceFormatted string  `json:"priceFormatted" validate:"omitempty,max=32"`
	Image          string  `json:"image"`
	Category       string  `json:"category" validate:"required,min=1,max=64"`
	Badge          string  `json:"badge" validate:"omitempty,max=64"`
	Description    string  `json:"description" validate:"omitempty,max=2000"`
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/export", exportProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiPOST("/products/:id/image", uploadProductImage)
}

func (p productPayload) toDomain() domain.Product {
	formatted := strings.TrimSpace(p.PriceFormatted)
	if formatted == "" {
		formatted = common.FormatBRL(p.Price)
	}
	return domain.Product{
		Name:           strings.TrimSpace(p.Name),
		Price:          p.Price,
		PriceFormatted: formatted,
		Image:          strings.TrimSpace(p.Image),
		Category:       strings.TrimSpace(p.Category),
		Badge:          strings.TrimSpace(p.Badge),
		Description:    strings.TrimSpace(p.Description),
	}
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.TrimSpace(c.QueryParam("q"))
	category := strings.TrimSpace(c.QueryParam("category"))

	products := GetApp(c).Catalog().Products()
	if q != "" || (category != "" && category != domain.CategoryAll) {
		filtered := products[:0]
		for _, p := range products {
			if q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
				continue
			}
			if category != "" && category != domain.CategoryAll && p.Category != category {
				continue
			}
			filtered = append(filtered, p)
		}
		products = filtered
	}

	lo, hi := pageBounds(len(products), page, pageSize)
	return paged(c, products[lo:hi], len(products), page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, found := GetApp(c).Catalog().GetProduct(id)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	created := GetApp(c).Catalog().AddProduct(payload.toDomain())
	return ok(c, created)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	catalog := GetApp(c).Catalog()
	if _, found := catalog.GetProduct(id); !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p := payload.toDomain()
	p.ID = id
	catalog.UpdateProduct(p)
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	GetApp(c).Catalog().DeleteProduct(id)
	return ok(c, map[string]interface{}{"id": id})
}

// uploadProductImage accepts a multipart photo, rejects anything above the
// 2 MB ceiling and embeds the accepted file on the product record as a
// base64 data URL. There is no separate asset storage.
func uploadProductImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	catalog := GetApp(c).Catalog()
	p, found := catalog.GetProduct(id)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Image file is required", nil)
	}
	if fh.Size > maxImageSize {
		return fail(c, http.StatusBadRequest, "IMAGE_TOO_LARGE",
			"Imagem muito grande! Tente uma imagem menor que 2MB.", nil)
	}

	src, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to read image", nil)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageSize+1))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to read image", nil)
	}
	if len(data) > maxImageSize {
		return fail(c, http.StatusBadRequest, "IMAGE_TOO_LARGE",
			"Imagem muito grande! Tente uma imagem menor que 2MB.", nil)
	}

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	p.Image = fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
	catalog.UpdateProduct(p)
	return ok(c, p)
}

type productCsvRow struct {
	ID             int64   `csv:"id"`
	Name           string  `csv:"name"`
	Price          float64 `csv:"price"`
	PriceFormatted string  `csv:"price_formatted"`
	Category       string  `csv:"category"`
	Badge          string  `csv:"badge"`
	Description    string  `csv:"description"`
}

// exportProducts serves the whole catalog as a CSV download for the admin
// panel. Images are left out on purpose: embedded data URLs do not belong
// in a spreadsheet.
func exportProducts(c echo.Context) error {
	products := GetApp(c).Catalog().Products()
	rows := make([]productCsvRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productCsvRow{
			ID:             p.ID,
			Name:           p.Name,
			Price:          p.Price,
			PriceFormatted: p.PriceFormatted,
			Category:       p.Category,
			Badge:          p.Badge,
			Description:    p.Description,
		})
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export products", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}
