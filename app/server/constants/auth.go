package constants

import "time"

const (
	AuthTokenDuration = 24 * time.Hour
	ContextKeyAdmin   = "admin" // 认证通过后身份信息在 echo.Context 中的 key
)
