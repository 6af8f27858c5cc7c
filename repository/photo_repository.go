package repository

import (
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
)

type PhotoRepository struct{ DB *gorm.DB }

func NewPhotoRepository(db *gorm.DB) *PhotoRepository { return &PhotoRepository{DB: db} }

func (r *PhotoRepository) Create(p *entity.Photo) error {
	return r.DB.Create(p).Error
}

func (r *PhotoRepository) FindByID(id uint) (*entity.Photo, error) {
	var p entity.Photo
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PhotoRepository) ListForAppeal(appealID uint) ([]entity.Photo, error) {
	var photos []entity.Photo
	err := r.DB.
		Where("appeal_id = ?", appealID).
		Order("uploaded_at ASC").
		Find(&photos).Error
	return photos, err
}

// CountForAppeal counts either initial or result photos; the per-appeal cap
// applies to each group separately.
func (r *PhotoRepository) CountForAppeal(appealID uint, resultPhotos bool) (int64, error) {
	var n int64
	err := r.DB.Model(&entity.Photo{}).
		Where("appeal_id = ? AND is_result_photo = ?", appealID, resultPhotos).
		Count(&n).Error
	return n, err
}

func (r *PhotoRepository) Delete(id uint) error {
	return r.DB.Delete(&entity.Photo{}, id).Error
}
