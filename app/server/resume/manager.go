// Package resume manages the single résumé slot: the artifact file in
// storage and the one database record that points at it.
//
// Every transition of the slot holds the manager's mutex, and the record
// changes of a transition commit in one transaction. The slot column of the
// record carries a unique index, so the database rejects a second row even if
// a second process bypasses the mutex.
package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/docinfo"
	"portfolio-backend/app/server/models"
	"portfolio-backend/app/server/storage"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = apperrors.New(apperrors.NotFound, "No resume found")
	ErrArtifactMissing = apperrors.New(apperrors.ArtifactMissing, "Resume file not found")
)

type Manager struct {
	l       *zap.Logger
	db      *gorm.DB
	storage storage.Storage

	mu sync.RWMutex // 保护槽位

	now     func() time.Time
	inspect func(mediaType string, data []byte) (docinfo.Info, error)
}

func NewManager(l *zap.Logger, db *gorm.DB, s storage.Storage) *Manager {
	return &Manager{
		l:       l,
		db:      db,
		storage: s,
		now:     time.Now,
		inspect: docinfo.Inspect,
	}
}

// Upload 把文件放进槽位，替换已有的简历
func (m *Manager) Upload(ctx context.Context, owner uint, up Upload) (*models.Resume, error) {
	// 校验，失败时什么都没有写入
	v, err := validate(up)
	if err != nil {
		return nil, err
	}

	// 检查文件内容，失败不影响上传
	info, err := m.inspect(v.mediaType, v.data)
	if err != nil {
		m.l.Warn("failed to inspect resume", zap.String("originalName", v.originalName), zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	name := generateName(now, v.ext)

	var (
		created   *models.Resume
		savedPath string
	)
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先移除旧记录，保证同一时间只有一条
		previous, err := m.take(tx)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if previous != nil {
			if err := tx.Unscoped().Delete(previous).Error; err != nil {
				return apperrors.Wrap(err, apperrors.StorageFault, "Failed to upload resume")
			}
		}

		// 写入新文件
		path, err := m.storage.Save(ctx, name, bytes.NewReader(v.data), int64(len(v.data)), v.mediaType)
		if err != nil {
			return apperrors.Wrap(err, apperrors.StorageFault, "Failed to upload resume")
		}
		savedPath = path

		// 创建新记录
		record := &models.Resume{
			Slot:         models.ResumeSlot,
			FileName:     name,
			OriginalName: v.originalName,
			MimeType:     v.mediaType,
			Size:         int64(len(v.data)),
			Path:         path,
			PageCount:    info.PageCount,
			Excerpt:      info.Excerpt,
			UploadedBy:   owner,
			UploadedAt:   now,
		}
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Wrap(err, apperrors.StorageFault, "Failed to upload resume")
		}
		created = record

		// 最后删除旧文件：删不掉就回滚，旧记录和旧文件都保持原样
		if previous != nil {
			if err := m.removeArtifact(ctx, previous); err != nil {
				return apperrors.Wrap(err, apperrors.StorageFault, "Failed to upload resume")
			}
		}

		return nil
	})
	if err != nil {
		// 文件已写入但记录没有落地，清理掉孤儿文件
		if savedPath != "" {
			if delErr := m.storage.Delete(ctx, savedPath); delErr != nil && !storage.IsNotExist(delErr) {
				m.l.Error("failed to remove orphaned resume file", zap.String("path", savedPath), zap.Error(delErr))
			}
		}
		m.l.Error("failed to upload resume", zap.Error(err))
		return nil, err
	}

	return created, nil
}

// Get 返回当前简历的元数据
func (m *Manager) Get(ctx context.Context) (*models.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.take(m.db.WithContext(ctx))
}

// Open 返回当前简历的元数据和文件内容，调用方负责关闭
func (m *Manager) Open(ctx context.Context) (*models.Resume, io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, err := m.take(m.db.WithContext(ctx))
	if err != nil {
		return nil, nil, err
	}

	r, err := m.storage.Open(ctx, record.Path)
	if err != nil {
		if storage.IsNotExist(err) {
			// 有记录没文件，说明存储和数据库出现了偏差
			m.l.Error("resume record points at a missing file",
				zap.Uint("id", record.ID),
				zap.String("path", record.Path),
				zap.Error(err),
			)
			return record, nil, ErrArtifactMissing
		}
		return record, nil, apperrors.Wrap(err, apperrors.StorageFault, "Failed to read resume")
	}

	return record, r, nil
}

// Delete 清空槽位
func (m *Manager) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := m.take(tx)
		if err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(record).Error; err != nil {
			return apperrors.Wrap(err, apperrors.StorageFault, "Failed to delete resume")
		}

		if err := m.removeArtifact(ctx, record); err != nil {
			return apperrors.Wrap(err, apperrors.StorageFault, "Failed to delete resume")
		}

		return nil
	})
}

func (m *Manager) take(tx *gorm.DB) (*models.Resume, error) {
	var record models.Resume
	if err := tx.Where("slot = ?", models.ResumeSlot).Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.StorageFault, "Failed to get resume")
	}
	return &record, nil
}

// removeArtifact 文件已经不存在时只记录日志
func (m *Manager) removeArtifact(ctx context.Context, record *models.Resume) error {
	if err := m.storage.Delete(ctx, record.Path); err != nil {
		if storage.IsNotExist(err) {
			m.l.Warn("resume file already missing", zap.Uint("id", record.ID), zap.String("path", record.Path))
			return nil
		}
		return fmt.Errorf("delete resume file %s: %w", record.Path, err)
	}
	return nil
}
