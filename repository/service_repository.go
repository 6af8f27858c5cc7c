package repository

import (
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
)

type ServiceRepository struct{ DB *gorm.DB }

func NewServiceRepository(db *gorm.DB) *ServiceRepository { return &ServiceRepository{DB: db} }

func (r *ServiceRepository) List(activeOnly bool) ([]entity.Service, error) {
	q := r.DB.Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var services []entity.Service
	err := q.Find(&services).Error
	return services, err
}

func (r *ServiceRepository) FindByID(id uint) (*entity.Service, error) {
	var s entity.Service
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) FindByName(name string) (*entity.Service, error) {
	var s entity.Service
	if err := r.DB.Where("name = ?", name).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) Create(s *entity.Service) error {
	return r.DB.Create(s).Error
}

func (r *ServiceRepository) Update(s *entity.Service) error {
	return r.DB.Save(s).Error
}

func (r *ServiceRepository) Delete(id uint) error {
	return r.DB.Delete(&entity.Service{}, id).Error
}

// UpdateKeywords replaces the keyword string the classifier syncs against.
func (r *ServiceRepository) UpdateKeywords(id uint, keywords string) error {
	return r.DB.Model(&entity.Service{}).Where("id = ?", id).Update("keywords", keywords).Error
}
