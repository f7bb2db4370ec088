package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/casadobolo/internal/store"
	"github.com/talkincode/casadobolo/internal/webserver"
)

// Settings keys the admin panel may change. Anything else is rejected.
var editableSettings = map[string]bool{
	store.SettingFallbackFee:   true,
	store.SettingFreeThreshold: true,
	store.SettingCartFlatFee:   true,
}

func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings", updateSettings)
}

func listSettings(c echo.Context) error {
	return ok(c, GetApp(c).Settings().All())
}

func updateSettings(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", nil)
	}

	// reject the whole payload before applying anything
	for key := range payload {
		if !editableSettings[key] {
			return fail(c, http.StatusBadRequest, "UNKNOWN_SETTING", "Unknown setting: "+key, nil)
		}
	}

	settings := GetApp(c).Settings()
	for key, value := range payload {
		settings.Set(key, value)
	}
	return ok(c, settings.All())
}
