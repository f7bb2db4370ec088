package adminapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/casadobolo/internal/webserver"
	"github.com/talkincode/casadobolo/pkg/common"
)

type loginPayload struct {
	Password string `json:"password" validate:"required"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/login", adminLogin)
}

// adminLogin gates the admin panel behind the single shared password. A
// match yields a JWT covering /api/admin; a mismatch is reported with a
// deliberately generic message. There is no lockout or rate limiting.
func adminLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	cfg := GetApp(c).Config()
	if !common.SecureEqual(payload.Password, cfg.Web.AdminPassword) {
		zap.L().Warn("admin login rejected", zap.String("remote", c.RealIP()))
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Senha inválida", nil)
	}

	claims := jwt.MapClaims{
		"sub": "admin",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(12 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue session token", nil)
	}

	zap.L().Info("admin login accepted", zap.String("remote", c.RealIP()))
	return ok(c, map[string]string{"token": signed})
}
