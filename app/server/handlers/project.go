package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/constants"
	"portfolio-backend/app/server/models"
	"portfolio-backend/app/server/projects"
	"portfolio-backend/app/server/types"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errInvalidProjectID = apperrors.New(apperrors.Validation, "Invalid project id")

type projectInfo struct {
	ID          uint      `json:"id"`
	LegacyID    uint      `json:"_id"` // 管理后台按 _id 拼接地址
	Title       string    `json:"title"`
	DateRange   string    `json:"date"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	GithubURL   string    `json:"githubUrl"`
	LiveURL     string    `json:"liveUrl"`
	Featured    bool      `json:"featured"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type projectResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Project *projectInfo `json:"project"`
}

type projectListResponse struct {
	Success  bool          `json:"success"`
	Projects []projectInfo `json:"projects"`
	PageMax  int64         `json:"pageMax,omitempty"` // 只在分页时返回
}

func toProjectInfo(p *models.Project) projectInfo {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}

	return projectInfo{
		ID:          p.ID,
		LegacyID:    p.ID,
		Title:       p.Title,
		DateRange:   p.DateRange,
		Description: p.Description,
		Tags:        tags,
		GithubURL:   p.GithubURL,
		LiveURL:     p.LiveURL,
		Featured:    p.Featured,
		Order:       p.DisplayOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func projectID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, errInvalidProjectID
	}
	return uint(id), nil
}

func (a *App) projectsChanged(ctx context.Context) {
	a.sf.Forget(constants.CacheKeyProjectList)
	a.cacheDel(ctx, constants.CacheKeyProjectList)
}

func toProjectInfos(list []models.Project) []projectInfo {
	infos := make([]projectInfo, 0, len(list))
	for i := range list {
		infos = append(infos, toProjectInfo(&list[i]))
	}
	return infos
}

func (a *App) ProjectList(c echo.Context) error {
	showAll, offset, limit, err := parsePagination(c)
	if err != nil {
		return a.er(c, apperrors.Wrap(err, apperrors.Validation, "Invalid pagination"))
	}

	// 分页请求不走缓存
	if !showAll {
		list, count, err := a.projects.Page(c.Request().Context(), offset, limit)
		if err != nil {
			return a.er(c, err)
		}

		return c.JSON(http.StatusOK, &projectListResponse{
			Success:  true,
			Projects: toProjectInfos(list),
			PageMax:  calcMaxPage(count, limit),
		})
	}

	data, err := a.cached(c.Request().Context(), constants.CacheKeyProjectList, constants.CacheExpireProjectList, func(ctx context.Context) ([]byte, error) {
		list, err := a.projects.List(ctx)
		if err != nil {
			return nil, err
		}

		return json.Marshal(&projectListResponse{
			Success:  true,
			Projects: toProjectInfos(list),
		})
	})
	if err != nil {
		return a.er(c, err)
	}

	return c.JSONBlob(http.StatusOK, data)
}

func (a *App) ProjectGet(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return a.er(c, err)
	}

	p, err := a.projects.Get(c.Request().Context(), id)
	if err != nil {
		return a.er(c, err)
	}

	info := toProjectInfo(p)
	return c.JSON(http.StatusOK, &projectResponse{
		Success: true,
		Project: &info,
	})
}

func (a *App) bindProject(c echo.Context) (*projects.Input, error) {
	var in projects.Input
	if err := c.Bind(&in); err != nil {
		a.l.Debug("failed to bind project", zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.Validation, "Invalid request body")
	}
	return &in, nil
}

func (a *App) ProjectCreate(c echo.Context) error {
	// 绑定请求体
	in, err := a.bindProject(c)
	if err != nil {
		return a.er(c, err)
	}

	rctx := c.Request().Context()

	p, err := a.projects.Create(rctx, in)
	if err != nil {
		return a.er(c, err)
	}

	a.projectsChanged(rctx)

	info := toProjectInfo(p)
	return c.JSON(http.StatusOK, &projectResponse{
		Success: true,
		Message: "Project created successfully",
		Project: &info,
	})
}

func (a *App) ProjectUpdate(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return a.er(c, err)
	}

	in, err := a.bindProject(c)
	if err != nil {
		return a.er(c, err)
	}

	rctx := c.Request().Context()

	p, err := a.projects.Update(rctx, id, in)
	if err != nil {
		return a.er(c, err)
	}

	a.projectsChanged(rctx)

	info := toProjectInfo(p)
	return c.JSON(http.StatusOK, &projectResponse{
		Success: true,
		Message: "Project updated successfully",
		Project: &info,
	})
}

func (a *App) ProjectDelete(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return a.er(c, err)
	}

	rctx := c.Request().Context()

	if err := a.projects.Delete(rctx, id); err != nil {
		return a.er(c, err)
	}

	a.projectsChanged(rctx)

	return c.JSON(http.StatusOK, &types.SuccessMessage{
		Success: true,
		Message: "Project deleted successfully",
	})
}
