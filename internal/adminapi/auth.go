package adminapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/internal/webserver"
	"github.com/mesworks/prodorder/pkg/common"
	"go.uber.org/zap"
)

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", login)
}

func login(c echo.Context) error {
	var form loginPayload
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid login payload", nil)
	}
	if err := c.Validate(&form); err != nil {
		return handleValidationError(c, err)
	}

	var opr domain.SysOpr
	if err := GetDB(c).Where("username = ?", form.Username).First(&opr).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid username or password", nil)
	}
	if opr.Status == common.DISABLED {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "operator is disabled", nil)
	}
	if common.Sha256HashWithSalt(form.Password, common.GetSecretSalt()) != opr.Password {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid username or password", nil)
	}

	cfg := GetAppContext(c).Config().Web
	claims := jwt.MapClaims{
		"uid": opr.ID,
		"usr": opr.Username,
		"lvl": opr.Level,
		"exp": time.Now().Add(time.Duration(cfg.JwtExpire) * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to sign token", nil)
	}

	if sess, serr := session.Get("prodorder_session", c); serr == nil {
		sess.Values["username"] = opr.Username
		_ = sess.Save(c.Request(), c.Response())
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   opr.Username,
		OprIp:     c.RealIP(),
		OptAction: "login",
		OptDesc:   "operator login",
		OptTime:   time.Now(),
	})
	zap.L().Info("operator logged in", zap.String("username", opr.Username))

	return ok(c, echo.Map{
		"token":    signed,
		"username": opr.Username,
		"level":    opr.Level,
	})
}
