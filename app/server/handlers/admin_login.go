package handlers

import (
	"errors"
	"net/http"
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/models"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errInvalidCredentials = apperrors.New(apperrors.Unauthenticated, "Invalid credentials")

type loginRequest struct {
	EmailOrMobile string `json:"emailOrMobile"`
	Password      string `json:"password"`
}

type adminInfo struct {
	ID           uint       `json:"id"`
	Email        string     `json:"email"`
	MobileNumber string     `json:"mobileNumber"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

type loginResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	Admin   *adminInfo `json:"admin"`
}

func (a *App) AdminLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind json body", zap.Error(err))
		return a.er(c, apperrors.New(apperrors.Validation, "Invalid request body"))
	}

	// 没有写账号或密码
	req.EmailOrMobile = strings.TrimSpace(req.EmailOrMobile)
	if req.EmailOrMobile == "" || req.Password == "" {
		return a.er(c, apperrors.New(apperrors.Validation, "Email/Mobile and password are required"))
	}

	// 邮箱或手机号都可以登录
	var admin models.Admin
	if err := a.db.WithContext(rctx).
		Where("email = ?", strings.ToLower(req.EmailOrMobile)).
		Or("mobile_number = ?", req.EmailOrMobile).
		First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, errInvalidCredentials)
		}
		return a.er(c, apperrors.Wrap(err, apperrors.StorageFault, "Server error"))
	}

	// 提取密码 hash 并进行校验
	if match, _, err := argon2id.CheckHash(req.Password, admin.Password); err != nil {
		return a.er(c, apperrors.Wrap(err, apperrors.StorageFault, "Server error"))
	} else if !match {
		// 密码不一致
		return a.er(c, errInvalidCredentials)
	}

	// 签出 JWT
	token, _, err := a.jwt.Issue(admin.ID, admin.Email)
	if err != nil {
		return a.er(c, apperrors.Wrap(err, apperrors.StorageFault, "Server error"))
	}

	// 返回
	return c.JSON(http.StatusOK, &loginResponse{
		Success: true,
		Token:   token,
		Admin: &adminInfo{
			ID:           admin.ID,
			Email:        admin.Email,
			MobileNumber: admin.MobileNumber,
		},
	})
}
