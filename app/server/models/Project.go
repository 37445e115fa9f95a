package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Title        string         `gorm:"column:title"`
	DateRange    string         `gorm:"column:date_range"` // 展示用的时间段，例如 "2023 - 2024"
	Description  string         `gorm:"column:description"`
	Tags         pq.StringArray `gorm:"column:tags;type:text[]"`
	GithubURL    string         `gorm:"column:github_url"`
	LiveURL      string         `gorm:"column:live_url"`
	Featured     bool           `gorm:"column:featured"`
	DisplayOrder int            `gorm:"column:display_order;index"` // 越小越靠前
}
