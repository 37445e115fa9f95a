package inits

import (
	"fmt"
	"portfolio-backend/app/server/config"
	"portfolio-backend/app/server/models"
	"strings"

	"github.com/alexedwards/argon2id"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func DB(cfg *config.Config) (db *gorm.DB, err error) {
	// 打开连接
	if db, err = gorm.Open(postgres.Open(cfg.System.DBConnectionString), &gorm.Config{}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化启动数据
	if err = SeedAdmin(db, cfg.Admin.Email, cfg.Admin.Mobile, cfg.Admin.Password); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	// 返回
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Resume{},
		&models.Project{},
	)
}

// SeedAdmin 在没有任何管理员时创建唯一的管理员，已存在时什么都不做
func SeedAdmin(db *gorm.DB, email string, mobile string, password string) (err error) {
	// 查询现有记录数量
	var counter int64

	if err = db.Model(&models.Admin{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get admin count: %w", err)
	} else if counter > 0 {
		return nil
	}

	if email == "" || password == "" {
		return fmt.Errorf("admin email and password are required for bootstrap")
	}

	// 创建密码
	var passwordHash string
	if passwordHash, err = argon2id.CreateHash(password, argon2id.DefaultParams); err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}

	// 插入记录
	if err = db.Create(&models.Admin{
		Email:        strings.ToLower(email),
		MobileNumber: mobile,
		Password:     passwordHash,
	}).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}
