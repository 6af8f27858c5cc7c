package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
)

type UserRepository struct{ DB *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{DB: db} }

func (r *UserRepository) Create(u *entity.User) error {
	return r.DB.Create(u).Error
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var u entity.User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var u entity.User
	if err := r.DB.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailTaken(email string) (bool, error) {
	var u entity.User
	err := r.DB.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepository) List(role string, page, limit int) ([]entity.User, int64, error) {
	page, limit = clampPage(page, limit)

	q := r.DB.Model(&entity.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []entity.User
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

// ActiveByRoles backs the notification fan-outs.
func (r *UserRepository) ActiveByRoles(roles ...string) ([]entity.User, error) {
	var users []entity.User
	err := r.DB.Where("role IN ? AND is_active = ?", roles, true).Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *entity.User) error {
	return r.DB.Save(u).Error
}

func (r *UserRepository) SetActive(id uint, active bool) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *UserRepository) Delete(id uint) error {
	return r.DB.Delete(&entity.User{}, id).Error
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
