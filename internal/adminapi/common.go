package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/casadobolo/internal/webserver"
)

// RegisterRoutes registers every admin endpoint. Call after webserver.Init.
func RegisterRoutes() {
	registerAuthRoutes()
	registerProductRoutes()
	registerShippingRoutes()
	registerCategoryRoutes()
	registerSettingsRoutes()
}

// GetApp pulls the application context injected by the webserver middleware.
func GetApp(c echo.Context) webserver.AppContext {
	return webserver.GetAppContext(c)
}

type response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

type pagedResponse struct {
	Code     int         `json:"code"`
	Msg      string      `json:"msg"`
	Data     interface{} `json:"data"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, response{Code: 0, Msg: "ok", Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":   code,
		"msg":    message,
		"detail": detail,
	})
}

func paged(c echo.Context, data interface{}, total, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedResponse{
		Code: 0, Msg: "ok",
		Data: data, Total: total, Page: page, PageSize: pageSize,
	})
}

func handleValidationError(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", err.Error())
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 50
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
}

// pageBounds cuts an in-memory collection down to one page.
func pageBounds(length, page, pageSize int) (lo, hi int) {
	lo = (page - 1) * pageSize
	if lo > length {
		lo = length
	}
	hi = lo + pageSize
	if hi > length {
		hi = length
	}
	return lo, hi
}
