package repository

import (
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"gorm.io/gorm"
)

// ProjectRepository 项目仓储接口
type ProjectRepository interface {
	Save(project *model.ProjectModel) error
	FindByID(id string) (*model.ProjectModel, error)
	FindByJobCode(jobCode string) (*model.ProjectModel, error)
	FindByFilter(filter *ProjectFilter) ([]*model.ProjectModel, int64, error)
}

// ProjectFilter 项目查询过滤器
type ProjectFilter struct {
	Status       *string
	CustomerName *string
	Page         int
	PageSize     int
}

// projectRepository 项目仓储实现
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建项目仓储
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Save 保存项目
func (r *projectRepository) Save(project *model.ProjectModel) error {
	if err := project.Validate(); err != nil {
		return err
	}
	return r.db.Save(project).Error
}

// FindByID 根据 ID 查找项目
func (r *projectRepository) FindByID(id string) (*model.ProjectModel, error) {
	var project model.ProjectModel
	if err := r.db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByJobCode 根据项目编号查找项目
func (r *projectRepository) FindByJobCode(jobCode string) (*model.ProjectModel, error) {
	var project model.ProjectModel
	if err := r.db.Where("job_code = ?", jobCode).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByFilter 根据过滤器分页查找项目
func (r *projectRepository) FindByFilter(filter *ProjectFilter) ([]*model.ProjectModel, int64, error) {
	query := r.db.Model(&model.ProjectModel{})

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.CustomerName != nil {
			query = query.Where("customer_name LIKE ?", "%"+*filter.CustomerName+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil && filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var projects []*model.ProjectModel
	err := query.Order("created_at DESC").Find(&projects).Error
	return projects, total, err
}
