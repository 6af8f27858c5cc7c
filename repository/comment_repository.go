package repository

import (
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
)

type CommentRepository struct{ DB *gorm.DB }

func NewCommentRepository(db *gorm.DB) *CommentRepository { return &CommentRepository{DB: db} }

func (r *CommentRepository) Create(c *entity.Comment) error {
	return r.DB.Create(c).Error
}

// ListForAppeal returns comments oldest first. Internal comments are hidden
// from citizens.
func (r *CommentRepository) ListForAppeal(appealID uint, includeInternal bool) ([]entity.Comment, error) {
	q := r.DB.
		Preload("User").
		Preload("Photos").
		Where("appeal_id = ?", appealID)
	if !includeInternal {
		q = q.Where("is_internal = ?", false)
	}
	var comments []entity.Comment
	err := q.Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) FindByID(id uint) (*entity.Comment, error) {
	var c entity.Comment
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) Delete(id uint) error {
	return r.DB.Delete(&entity.Comment{}, id).Error
}
