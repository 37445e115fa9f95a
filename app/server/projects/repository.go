package projects

import (
	"context"
	"errors"
	"portfolio-backend/app/server/apperrors"
	"portfolio-backend/app/server/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const defaultURL = "#"

var ErrNotFound = apperrors.New(apperrors.NotFound, "Project not found")

// Input 中 nil 表示调用方没有提供该字段。字符串为空时同样视为未提供
type Input struct {
	Title        *string  `json:"title"`
	DateRange    *string  `json:"date"`
	Description  *string  `json:"description"`
	Tags         []string `json:"tags"`
	GithubURL    *string  `json:"githubUrl"`
	LiveURL      *string  `json:"liveUrl"`
	Featured     *bool    `json:"featured"`
	DisplayOrder *int     `json:"order"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func mapFields(in *Input, p *models.Project) {
	setString := func(dst *string, src *string) {
		if src != nil && *src != "" {
			*dst = *src
		}
	}

	setString(&p.Title, in.Title)
	setString(&p.DateRange, in.DateRange)
	setString(&p.Description, in.Description)
	setString(&p.GithubURL, in.GithubURL)
	setString(&p.LiveURL, in.LiveURL)

	if in.Tags != nil {
		p.Tags = pq.StringArray(in.Tags)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.DisplayOrder != nil {
		p.DisplayOrder = *in.DisplayOrder
	}
}

func missing(s *string) bool {
	return s == nil || *s == ""
}

func ordered(db *gorm.DB) *gorm.DB {
	return db.
		Order("display_order ASC").
		Order("created_at DESC").
		Order("id DESC")
}

// List 按 display_order 升序、创建时间降序排列
func (r *Repository) List(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	if err := ordered(r.db.WithContext(ctx)).Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.StorageFault, "Failed to fetch projects")
	}
	return projects, nil
}

// Page 与 List 顺序相同，只取 offset 开始的 limit 条，同时返回总数
func (r *Repository) Page(ctx context.Context, offset int, limit int) ([]models.Project, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.StorageFault, "Failed to fetch projects")
	}

	projects := []models.Project{}
	if err := ordered(r.db.WithContext(ctx)).
		Offset(offset).
		Limit(limit).
		Find(&projects).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.StorageFault, "Failed to fetch projects")
	}
	return projects, count, nil
}

func (r *Repository) Get(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.StorageFault, "Failed to fetch project")
	}
	return &project, nil
}

func (r *Repository) Create(ctx context.Context, in *Input) (*models.Project, error) {
	if missing(in.Title) || missing(in.DateRange) || missing(in.Description) {
		return nil, apperrors.New(apperrors.Validation, "Title, date, and description are required")
	}

	project := models.Project{
		Tags:      pq.StringArray{},
		GithubURL: defaultURL,
		LiveURL:   defaultURL,
	}
	mapFields(in, &project)

	if err := r.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.StorageFault, "Failed to create project")
	}
	return &project, nil
}

func (r *Repository) Update(ctx context.Context, id uint, in *Input) (*models.Project, error) {
	project, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mapFields(in, project)

	// Save 会写入零值，明确设置为 false / 0 的字段也能生效
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.StorageFault, "Failed to update project")
	}
	return project, nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Delete(&models.Project{}, id).Error; err != nil {
		return apperrors.Wrap(err, apperrors.StorageFault, "Failed to delete project")
	}
	return nil
}
