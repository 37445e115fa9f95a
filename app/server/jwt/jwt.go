package jwt

import (
	"errors"
	"fmt"
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/constants"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 包含了所有验证失败的情况（空、格式错误、过期、签名错误），不向调用方区分
var ErrInvalidToken = apperrors.New(apperrors.InvalidToken, "Invalid token")

type JWT struct {
	key []byte
	now func() time.Time
}

// Admin 是令牌中携带的管理员身份
type Admin struct {
	ID      uint
	Email   string
	Expires int64 // Unix second
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func New(key string) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}

	return &JWT{key: []byte(key), now: time.Now}, nil
}

// WithClock 替换时间来源，测试用
func (j *JWT) WithClock(now func() time.Time) *JWT {
	return &JWT{key: j.key, now: now}
}

func (j *JWT) Issue(id uint, email string) (string, *Admin, error) {
	issuedAt := j.now().Truncate(time.Second)
	expires := issuedAt.Add(constants.AuthTokenDuration)

	// 创建声明
	c := &claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	// 创建令牌并签名
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, &Admin{
		ID:      id,
		Email:   email,
		Expires: expires.Unix(),
	}, nil
}

func (j *JWT) Verify(tokenString string) (*Admin, error) {
	// 检查是否有效
	if len(tokenString) == 0 {
		return nil, ErrInvalidToken
	}

	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(err, apperrors.InvalidToken, ErrInvalidToken.Message)
	}

	// 匹配内容
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, apperrors.Wrap(err, apperrors.InvalidToken, ErrInvalidToken.Message)
	}

	return &Admin{
		ID:      uint(id),
		Email:   c.Email,
		Expires: c.ExpiresAt.Unix(),
	}, nil
}
