package handlers

import (
	"portfolio-backend/app/server/jwt"
	"portfolio-backend/app/server/projects"
	"portfolio-backend/app/server/resume"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type App struct {
	l        *zap.Logger          // 日志
	db       *gorm.DB             // 数据库
	rdb      *redis.Client        // Redis ，为 nil 时不使用缓存
	jwt      *jwt.JWT             // JWT ，用于无状态验证
	resumes  *resume.Manager      // 简历槽位
	projects *projects.Repository // 项目列表

	sf singleflight.Group // 合并同时发生的缓存未命中
}

func NewApp(l *zap.Logger, db *gorm.DB, rdb *redis.Client, j *jwt.JWT, resumes *resume.Manager, projects *projects.Repository) *App {
	return &App{
		l:        l,
		db:       db,
		rdb:      rdb,
		jwt:      j,
		resumes:  resumes,
		projects: projects,
	}
}
