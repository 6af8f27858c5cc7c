package repository

import (
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
)

// CategoryServiceRepository manages which services handle which categories.
type CategoryServiceRepository struct{ DB *gorm.DB }

func NewCategoryServiceRepository(db *gorm.DB) *CategoryServiceRepository {
	return &CategoryServiceRepository{DB: db}
}

func (r *CategoryServiceRepository) List() ([]entity.CategoryService, error) {
	var links []entity.CategoryService
	err := r.DB.Preload("Category").Preload("Service").Find(&links).Error
	return links, err
}

func (r *CategoryServiceRepository) ServicesForCategory(categoryID uint) ([]entity.Service, error) {
	var services []entity.Service
	err := r.DB.
		Joins("JOIN category_services cs ON cs.service_id = services.id").
		Where("cs.category_id = ?", categoryID).
		Find(&services).Error
	return services, err
}

func (r *CategoryServiceRepository) Link(categoryID, serviceID uint) error {
	link := entity.CategoryService{CategoryID: categoryID, ServiceID: serviceID}
	return r.DB.Where(link).FirstOrCreate(&link).Error
}

func (r *CategoryServiceRepository) Unlink(categoryID, serviceID uint) error {
	return r.DB.
		Where("category_id = ? AND service_id = ?", categoryID, serviceID).
		Delete(&entity.CategoryService{}).Error
}

// UserServiceRepository manages executor membership in services.
type UserServiceRepository struct{ DB *gorm.DB }

func NewUserServiceRepository(db *gorm.DB) *UserServiceRepository {
	return &UserServiceRepository{DB: db}
}

func (r *UserServiceRepository) List() ([]entity.UserService, error) {
	var links []entity.UserService
	err := r.DB.Preload("User").Preload("Service").Find(&links).Error
	return links, err
}

// ServicesForUser returns the services an executor belongs to, oldest link
// first.
func (r *UserServiceRepository) ServicesForUser(userID uint) ([]entity.Service, error) {
	var services []entity.Service
	err := r.DB.
		Joins("JOIN user_services us ON us.service_id = services.id").
		Where("us.user_id = ?", userID).
		Order("us.created_at ASC").
		Find(&services).Error
	return services, err
}

func (r *UserServiceRepository) ExecutorsForService(serviceID uint) ([]entity.User, error) {
	var users []entity.User
	err := r.DB.
		Joins("JOIN user_services us ON us.user_id = users.id").
		Where("us.service_id = ?", serviceID).
		Find(&users).Error
	return users, err
}

func (r *UserServiceRepository) Link(userID, serviceID uint) error {
	link := entity.UserService{UserID: userID, ServiceID: serviceID}
	return r.DB.Where(link).FirstOrCreate(&link).Error
}

func (r *UserServiceRepository) Unlink(userID, serviceID uint) error {
	return r.DB.
		Where("user_id = ? AND service_id = ?", userID, serviceID).
		Delete(&entity.UserService{}).Error
}
