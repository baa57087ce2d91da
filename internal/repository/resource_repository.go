package repository

import (
	"marketing_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

func (r *ResourceRepository) Create(resource *model.Resource) error {
	return r.DB.Create(resource).Error
}

func (r *ResourceRepository) FindByID(id uint) (*model.Resource, error) {
	var resource model.Resource
	err := r.DB.First(&resource, id).Error
	return &resource, err
}

func (r *ResourceRepository) FindAll() ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Order("created_at DESC").Find(&resources).Error
	return resources, err
}

// FindByLab 某个实验室关联的资源
func (r *ResourceRepository) FindByLab(lab string) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Where("lab = ?", lab).Order("created_at DESC").Find(&resources).Error
	return resources, err
}

// FindRecommended 仪表盘推荐资源，按最新排序
func (r *ResourceRepository) FindRecommended(limit int) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&resources).Error
	return resources, err
}

func (r *ResourceRepository) Update(resource *model.Resource) error {
	return r.DB.Save(resource).Error
}

func (r *ResourceRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Resource{}, id).Error
}
