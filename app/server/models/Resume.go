package models

import (
	"time"

	"gorm.io/gorm"
)

// ResumeSlot 是唯一的槽位值，配合 slot 列上的唯一索引保证表里最多一条记录
const ResumeSlot = 1

type Resume struct {
	gorm.Model

	Slot uint8 `gorm:"column:slot;not null;default:1;uniqueIndex"`

	// 文件信息
	FileName     string `gorm:"column:file_name"`     // 生成的文件名
	OriginalName string `gorm:"column:original_name"` // 上传时的原始文件名
	MimeType     string `gorm:"column:mime_type"`
	Size         int64  `gorm:"column:size"`
	Path         string `gorm:"column:path"` // 在存储中的位置

	// 检查结果（尽力而为）
	PageCount int    `gorm:"column:page_count"`
	Excerpt   string `gorm:"column:excerpt"`

	UploadedBy uint      `gorm:"column:uploaded_by;index"` // 上传的管理员
	UploadedAt time.Time `gorm:"column:uploaded_at"`
}
