package repository

import (
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
)

type CategoryRepository struct{ DB *gorm.DB }

func NewCategoryRepository(db *gorm.DB) *CategoryRepository { return &CategoryRepository{DB: db} }

func (r *CategoryRepository) List(activeOnly bool) ([]entity.Category, error) {
	q := r.DB.Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var cats []entity.Category
	err := q.Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) FindByID(id uint) (*entity.Category, error) {
	var c entity.Category
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Create(c *entity.Category) error {
	return r.DB.Create(c).Error
}

func (r *CategoryRepository) Update(c *entity.Category) error {
	return r.DB.Save(c).Error
}

func (r *CategoryRepository) Delete(id uint) error {
	return r.DB.Delete(&entity.Category{}, id).Error
}
