package resume

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/constants"
	"portfolio-backend/app/server/models"
	"portfolio-backend/app/server/storage"
	"portfolio-backend/app/server/testutil"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

const pdfBody = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n"

type fixture struct {
	m     *Manager
	db    *gorm.DB
	store *storage.Local
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	db := testutil.DB(t)
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	return &fixture{
		m:     NewManager(zap.New(core), db, store),
		db:    db,
		store: store,
		logs:  logs,
	}
}

func pdfUpload(name string) Upload {
	return Upload{
		OriginalName: name,
		MediaType:    constants.MIMETypePDF,
		Size:         int64(len(pdfBody)),
		Content:      strings.NewReader(pdfBody),
	}
}

func (f *fixture) files(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(f.store.Dir())
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (f *fixture) fullPath(record *models.Resume) string {
	return filepath.Join(f.store.Dir(), record.Path)
}

func (f *fixture) recordCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Unscoped().Model(&models.Resume{}).Count(&count).Error)
	return count
}

func TestUploadIntoEmptySlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.m.Upload(ctx, 1, pdfUpload("Jane Doe CV.pdf"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe CV.pdf", record.OriginalName)
	assert.Equal(t, constants.MIMETypePDF, record.MimeType)
	assert.Equal(t, int64(len(pdfBody)), record.Size)
	assert.Equal(t, uint(1), record.UploadedBy)
	assert.Regexp(t, `^resume-\d+-[0-9a-f]{12}\.pdf$`, record.FileName)

	got, err := f.m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.OriginalName, got.OriginalName)
	assert.Equal(t, record.Size, got.Size)
	assert.Equal(t, record.MimeType, got.MimeType)

	assert.Equal(t, []string{record.FileName}, f.files(t))
}

func TestReplaceKeepsSingleArtifact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.m.Upload(ctx, 1, pdfUpload("old.pdf"))
	require.NoError(t, err)

	second, err := f.m.Upload(ctx, 1, pdfUpload("new.pdf"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, []string{second.FileName}, f.files(t))
	assert.Equal(t, int64(1), f.recordCount(t))

	_, err = os.Stat(f.fullPath(first))
	assert.True(t, os.IsNotExist(err))

	got, err := f.m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new.pdf", got.OriginalName)
}

func TestReplaceToleratesMissingOldFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.m.Upload(ctx, 1, pdfUpload("old.pdf"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.fullPath(first)))

	second, err := f.m.Upload(ctx, 1, pdfUpload("new.pdf"))
	require.NoError(t, err)

	assert.Equal(t, []string{second.FileName}, f.files(t))
	assert.Equal(t, int64(1), f.recordCount(t))
	assert.Equal(t, 1, f.logs.FilterMessage("resume file already missing").FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestRejectedUploadWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]Upload{
		"text file": {
			OriginalName: "notes.txt",
			MediaType:    "text/plain",
			Size:         5,
			Content:      strings.NewReader("hello"),
		},
		"image": {
			OriginalName: "photo.png",
			MediaType:    "image/png",
			Size:         4,
			Content:      bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}),
		},
		"declared pdf but plain text": {
			OriginalName: "fake.pdf",
			MediaType:    constants.MIMETypePDF,
			Size:         11,
			Content:      strings.NewReader("just text!!"),
		},
		"declared too large": {
			OriginalName: "big.pdf",
			MediaType:    constants.MIMETypePDF,
			Size:         constants.ResumeMaxSize + 1,
			Content:      strings.NewReader(pdfBody),
		},
		"actually too large": {
			OriginalName: "big.pdf",
			MediaType:    constants.MIMETypePDF,
			Size:         -1,
			Content:      io.MultiReader(strings.NewReader(pdfBody), bytes.NewReader(make([]byte, constants.ResumeMaxSize))),
		},
		"empty": {
			OriginalName: "empty.pdf",
			MediaType:    constants.MIMETypePDF,
			Size:         0,
			Content:      strings.NewReader(""),
		},
	}

	for name, up := range cases {
		t.Run(name, func(t *testing.T) {
			record, err := f.m.Upload(ctx, 1, up)
			assert.Nil(t, record)
			assert.Equal(t, apperrors.UploadRejected, apperrors.KindOf(err))
		})
	}

	assert.Empty(t, f.files(t))
	assert.Zero(t, f.recordCount(t))
}

func TestRejectedUploadKeepsExistingResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.m.Upload(ctx, 1, pdfUpload("keep.pdf"))
	require.NoError(t, err)

	_, err = f.m.Upload(ctx, 1, Upload{
		OriginalName: "notes.txt",
		MediaType:    "text/plain",
		Size:         5,
		Content:      strings.NewReader("hello"),
	})
	require.Error(t, err)

	got, err := f.m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, []string{first.FileName}, f.files(t))
}

func TestUploadMissingFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.m.Upload(context.Background(), 1, Upload{})
	assert.Equal(t, apperrors.Validation, apperrors.KindOf(err))
}

func TestUploadDOCX(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", "word/_rels/document.xml.rels", "word/document.xml"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(`<?xml version="1.0"?><x/>`))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	record, err := f.m.Upload(context.Background(), 1, Upload{
		OriginalName: `C:\Users\jane\cv.docx`,
		MediaType:    constants.MIMETypeDOCX,
		Size:         int64(buf.Len()),
		Content:      &buf,
	})
	require.NoError(t, err)

	assert.Equal(t, "cv.docx", record.OriginalName)
	assert.True(t, strings.HasSuffix(record.FileName, ".docx"))
}

func TestUploadIgnoresUnsafeOriginalName(t *testing.T) {
	f := newFixture(t)

	record, err := f.m.Upload(context.Background(), 1, pdfUpload("../../etc/passwd"))
	require.NoError(t, err)

	assert.Equal(t, "passwd", record.OriginalName)
	assert.True(t, strings.HasSuffix(record.FileName, ".pdf"))
	assert.Equal(t, record.FileName, record.Path)
}

func TestInspectionFailureDoesNotRejectUpload(t *testing.T) {
	f := newFixture(t)

	record, err := f.m.Upload(context.Background(), 1, pdfUpload("cv.pdf"))
	require.NoError(t, err)

	assert.Zero(t, record.PageCount)
	assert.Equal(t, 1, f.logs.FilterMessage("failed to inspect resume").Len())
}

func TestRecordFailureRemovesWrittenFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.m.Upload(ctx, 1, pdfUpload("first.pdf"))
	require.NoError(t, err)

	// 让新记录的写入失败
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_resume", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.Resume); ok {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err = f.m.Upload(ctx, 1, pdfUpload("second.pdf"))
	require.Error(t, err)
	assert.Equal(t, apperrors.StorageFault, apperrors.KindOf(err))

	// 新文件被清理，旧的记录和文件都还在
	assert.Equal(t, []string{first.FileName}, f.files(t))
	got, err := f.m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.m.Delete(ctx)
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))

	_, err = f.m.Upload(ctx, 1, pdfUpload("cv.pdf"))
	require.NoError(t, err)

	require.NoError(t, f.m.Delete(ctx))
	assert.Empty(t, f.files(t))
	assert.Zero(t, f.recordCount(t))

	_, err = f.m.Get(ctx)
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))

	_, _, err = f.m.Open(ctx)
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))

	err = f.m.Delete(ctx)
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
}

func TestOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.m.Upload(ctx, 1, pdfUpload("cv.pdf"))
	require.NoError(t, err)

	record, r, err := f.m.Open(ctx)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, r.Close())
	require.NoError(t, err)

	assert.Equal(t, "cv.pdf", record.OriginalName)
	assert.Equal(t, pdfBody, string(content))
}

func TestOpenReportsArtifactMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.m.Upload(ctx, 1, pdfUpload("cv.pdf"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.fullPath(record)))

	_, r, err := f.m.Open(ctx)
	assert.Nil(t, r)
	assert.Equal(t, apperrors.ArtifactMissing, apperrors.KindOf(err))
	assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.ErrorLevel).FilterMessage("resume record points at a missing file").Len())

	// 元数据仍然可读
	_, err = f.m.Get(ctx)
	assert.NoError(t, err)
}

func TestSlotSurvivesStorageRelocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.m.Upload(ctx, 1, pdfUpload("cv.pdf"))
	require.NoError(t, err)

	// 同一个数据库，存储目录换了位置
	moved, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Rename(f.fullPath(first), filepath.Join(moved.Dir(), first.Path)))
	f.store = moved
	f.m = NewManager(zap.NewNop(), f.db, moved)

	_, r, err := f.m.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	second, err := f.m.Upload(ctx, 1, pdfUpload("cv-2.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []string{second.FileName}, f.files(t))

	require.NoError(t, f.m.Delete(ctx))
	assert.Empty(t, f.files(t))
	assert.Equal(t, int64(0), f.recordCount(t))
}

func TestConcurrentUploadsLeaveConsistentSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.m.Upload(ctx, 1, pdfUpload(fmt.Sprintf("cv-%d.pdf", i)))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), f.recordCount(t))

	record, r, err := f.m.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, []string{record.FileName}, f.files(t))
}
