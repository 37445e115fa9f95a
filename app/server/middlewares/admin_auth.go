package middlewares

import (
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/constants"
	"portfolio-backend/app/server/jwt"
	"portfolio-backend/app/server/types"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	errMissingToken = apperrors.New(apperrors.Unauthenticated, "No token provided")
)

// AdminAuth 提取 Bearer token 并交给 JWT 验证，通过后把 *jwt.Admin 放到 context 里
func AdminAuth(j *jwt.JWT, l *zap.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  constants.ContextKeyAdmin,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return j.Verify(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// 没有拿到 token 时 err 来自提取器，否则来自 Verify
			rejection := errMissingToken
			if apperrors.Is(err, apperrors.InvalidToken) {
				rejection = jwt.ErrInvalidToken
			}

			l.Debug("rejected request",
				zap.String("URI", c.Request().RequestURI),
				zap.String("reason", rejection.Kind.Code()),
				zap.Error(err),
			)

			return c.JSON(rejection.Kind.Status(), types.NewErrorMessage(rejection.Kind.Code(), rejection.Message))
		},
	})
}

// GetAdmin 返回认证中间件放入的身份信息
func GetAdmin(c echo.Context) (*jwt.Admin, bool) {
	admin, ok := c.Get(constants.ContextKeyAdmin).(*jwt.Admin)
	return admin, ok && admin != nil
}
