package handlers

import (
	"errors"
	"net/http"
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/middlewares"
	"portfolio-backend/app/server/models"
	"portfolio-backend/app/server/utils"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type dashboardResponse struct {
	Success       bool       `json:"success"`
	Admin         *adminInfo `json:"admin"`
	DashboardData struct {
		Message   string    `json:"message"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"dashboardData"`
}

func (a *App) AdminDashboard(c echo.Context) error {
	// 认证中间件已经验证过身份
	jwtAdmin, ok := middlewares.GetAdmin(c)
	if !ok {
		return a.er(c, apperrors.New(apperrors.Unauthenticated, "No token provided"))
	}

	rctx := c.Request().Context()

	// token 里的身份可能已经不存在了
	var admin models.Admin
	if err := a.db.WithContext(rctx).First(&admin, "id = ?", jwtAdmin.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, apperrors.New(apperrors.NotFound, "Admin not found"))
		}
		return a.er(c, apperrors.Wrap(err, apperrors.StorageFault, "Server error"))
	}

	res := dashboardResponse{
		Success: true,
		Admin: &adminInfo{
			ID:           admin.ID,
			Email:        admin.Email,
			MobileNumber: admin.MobileNumber,
			CreatedAt:    utils.P(admin.CreatedAt),
		},
	}
	res.DashboardData.Message = "Welcome to Admin Dashboard"
	res.DashboardData.CreatedAt = admin.CreatedAt

	return c.JSON(http.StatusOK, &res)
}
