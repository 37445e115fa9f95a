package models

import "gorm.io/gorm"

type Admin struct {
	gorm.Model

	// 基础信息
	Email        string `gorm:"column:email;uniqueIndex"` // 邮箱，统一小写存储
	MobileNumber string `gorm:"column:mobile_number;index"`

	// 登录相关
	Password string `gorm:"column:password"` // 密码，使用 argon2id 储存
}
