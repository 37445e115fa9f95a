package handlers

import (
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/types"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (a *App) er(c echo.Context, err error) error {
	kind := apperrors.KindOf(err)
	if kind == apperrors.StorageFault {
		a.l.Error("request failed", zap.String("URI", c.Request().RequestURI), zap.Error(err))
	}

	return c.JSON(kind.Status(), types.NewErrorMessage(kind.Code(), apperrors.MessageOf(err)))
}
