package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/constants"
	"portfolio-backend/app/server/middlewares"
	"portfolio-backend/app/server/models"
	"portfolio-backend/app/server/resume"
	"portfolio-backend/app/server/types"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type resumeInfo struct {
	ID           uint      `json:"id"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
	PageCount    int       `json:"pageCount,omitempty"`
	Excerpt      string    `json:"excerpt,omitempty"`
}

type resumeResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Resume  *resumeInfo `json:"resume"`
}

func toResumeInfo(r *models.Resume) *resumeInfo {
	return &resumeInfo{
		ID:           r.ID,
		OriginalName: r.OriginalName,
		MimeType:     r.MimeType,
		Size:         r.Size,
		UploadedAt:   r.UploadedAt,
		PageCount:    r.PageCount,
		Excerpt:      r.Excerpt,
	}
}

func (a *App) resumeChanged(ctx context.Context) {
	a.sf.Forget(constants.CacheKeyResumeMeta)
	a.cacheDel(ctx, constants.CacheKeyResumeMeta)
}

func (a *App) UploadResume(c echo.Context) error {
	jwtAdmin, ok := middlewares.GetAdmin(c)
	if !ok {
		return a.er(c, apperrors.New(apperrors.Unauthenticated, "No token provided"))
	}

	rctx := c.Request().Context()

	// 提取文件
	fh, err := c.FormFile(constants.ResumeFormField)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			a.l.Debug("failed to parse upload form", zap.Error(err))
		}
		return a.er(c, apperrors.New(apperrors.Validation, "No file uploaded"))
	}

	f, err := fh.Open()
	if err != nil {
		return a.er(c, apperrors.Wrap(err, apperrors.StorageFault, "Failed to upload resume"))
	}
	defer f.Close()

	record, err := a.resumes.Upload(rctx, jwtAdmin.ID, resume.Upload{
		OriginalName: fh.Filename,
		MediaType:    fh.Header.Get(echo.HeaderContentType),
		Size:         fh.Size,
		Content:      f,
	})
	if err != nil {
		return a.er(c, err)
	}

	a.resumeChanged(rctx)

	a.l.Info("resume uploaded",
		zap.Uint("id", record.ID),
		zap.Uint("admin", jwtAdmin.ID),
		zap.String("file", record.FileName),
		zap.Int64("size", record.Size),
	)

	return c.JSON(http.StatusOK, &resumeResponse{
		Success: true,
		Message: "Resume uploaded successfully",
		Resume:  toResumeInfo(record),
	})
}

func (a *App) GetResume(c echo.Context) error {
	data, err := a.cached(c.Request().Context(), constants.CacheKeyResumeMeta, constants.CacheExpireResumeMeta, func(ctx context.Context) ([]byte, error) {
		record, err := a.resumes.Get(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&resumeResponse{
			Success: true,
			Resume:  toResumeInfo(record),
		})
	})
	if err != nil {
		return a.er(c, err)
	}

	return c.JSONBlob(http.StatusOK, data)
}

func (a *App) DownloadResume(c echo.Context) error {
	return a.sendResume(c, "attachment")
}

func (a *App) ViewResume(c echo.Context) error {
	return a.sendResume(c, "inline")
}

func (a *App) sendResume(c echo.Context, disposition string) error {
	record, r, err := a.resumes.Open(c.Request().Context())
	if err != nil {
		return a.er(c, err)
	}
	defer r.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType(disposition, map[string]string{
		"filename": record.OriginalName,
	}))

	return c.Stream(http.StatusOK, record.MimeType, r)
}

func (a *App) DeleteResume(c echo.Context) error {
	rctx := c.Request().Context()

	if err := a.resumes.Delete(rctx); err != nil {
		return a.er(c, err)
	}

	a.resumeChanged(rctx)

	return c.JSON(http.StatusOK, &types.SuccessMessage{
		Success: true,
		Message: "Resume deleted successfully",
	})
}
