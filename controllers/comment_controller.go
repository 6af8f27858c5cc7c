package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/repository"
	"github.com/maxmaindev/citizen-appeals/services"
	"github.com/maxmaindev/citizen-appeals/utils"
)

type CommentController struct {
	Comments *repository.CommentRepository
	Appeals  *repository.AppealRepository
	Notifier *services.NotificationService
	Cache    *querycache.Cache[any]
}

func NewCommentController(
	comments *repository.CommentRepository,
	appeals *repository.AppealRepository,
	notifier *services.NotificationService,
	cache *querycache.Cache[any],
) *CommentController {
	return &CommentController{Comments: comments, Appeals: appeals, Notifier: notifier, Cache: cache}
}

// GET /appeals/:id/comments
func (ctl *CommentController) List(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := ctl.Appeals.FindByID(id)
	if err != nil {
		resp.NotFound(c, "appeal not found")
		return
	}

	role := utils.CurrentRole(c)
	if role == entity.RoleCitizen && a.UserID != utils.CurrentUserID(c) {
		resp.Forbidden(c, "not your appeal")
		return
	}

	includeInternal := role != entity.RoleCitizen
	comments, err := ctl.Comments.ListForAppeal(id, includeInternal)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, comments)
}

type commentReq struct {
	Text       string `json:"text" binding:"required,min=1"`
	IsInternal bool   `json:"is_internal"`
}

// POST /appeals/:id/comments
func (ctl *CommentController) Create(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := ctl.Appeals.FindByID(id)
	if err != nil {
		resp.NotFound(c, "appeal not found")
		return
	}

	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	role := utils.CurrentRole(c)
	if role == entity.RoleCitizen {
		if a.UserID != utils.CurrentUserID(c) {
			resp.Forbidden(c, "not your appeal")
			return
		}
		req.IsInternal = false
	}

	comment := entity.Comment{
		AppealID:   id,
		UserID:     utils.CurrentUserID(c),
		Text:       req.Text,
		IsInternal: req.IsInternal,
	}
	if err := ctl.Comments.Create(&comment); err != nil {
		resp.ServerError(c, err)
		return
	}

	ctl.Notifier.CommentAdded(a, &comment)
	ctl.Cache.InvalidateFor("comment.create")
	resp.Created(c, comment)
}

// DELETE /comments/:id
// Authors delete their own; admins delete any.
func (ctl *CommentController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	comment, err := ctl.Comments.FindByID(id)
	if err != nil {
		resp.NotFound(c, "comment not found")
		return
	}

	role := utils.CurrentRole(c)
	if role != entity.RoleAdmin && comment.UserID != utils.CurrentUserID(c) {
		resp.Forbidden(c, "not your comment")
		return
	}

	if err := ctl.Comments.Delete(id); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("comment.create")
	resp.OK(c, gin.H{"deleted": id})
}
