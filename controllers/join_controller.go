package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/repository"
	"github.com/maxmaindev/citizen-appeals/utils"
)

// JoinController manages the category↔service and executor↔service links.
type JoinController struct {
	CategoryServices *repository.CategoryServiceRepository
	UserServices     *repository.UserServiceRepository
	Cache            *querycache.Cache[any]
}

func NewJoinController(
	categoryServices *repository.CategoryServiceRepository,
	userServices *repository.UserServiceRepository,
	cache *querycache.Cache[any],
) *JoinController {
	return &JoinController{
		CategoryServices: categoryServices,
		UserServices:     userServices,
		Cache:            cache,
	}
}

// GET /category-services
func (ctl *JoinController) ListCategoryServices(c *gin.Context) {
	links, err := ctl.CategoryServices.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, links)
}

// GET /categories/:id/services
func (ctl *JoinController) ServicesForCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	svcs, err := ctl.CategoryServices.ServicesForCategory(id)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, svcs)
}

type categoryServiceReq struct {
	CategoryID uint `json:"category_id" binding:"required"`
	ServiceID  uint `json:"service_id" binding:"required"`
}

// POST /category-services
func (ctl *JoinController) LinkCategoryService(c *gin.Context) {
	var req categoryServiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ctl.CategoryServices.Link(req.CategoryID, req.ServiceID); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("join.write")
	resp.Created(c, req)
}

// DELETE /category-services
func (ctl *JoinController) UnlinkCategoryService(c *gin.Context) {
	var req categoryServiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ctl.CategoryServices.Unlink(req.CategoryID, req.ServiceID); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("join.write")
	resp.OK(c, gin.H{"unlinked": true})
}

// GET /user-services
func (ctl *JoinController) ListUserServices(c *gin.Context) {
	links, err := ctl.UserServices.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, links)
}

// GET /user-services/me
func (ctl *JoinController) MyServices(c *gin.Context) {
	svcs, err := ctl.UserServices.ServicesForUser(utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, svcs)
}

type userServiceReq struct {
	UserID    uint `json:"user_id" binding:"required"`
	ServiceID uint `json:"service_id" binding:"required"`
}

// POST /user-services
func (ctl *JoinController) LinkUserService(c *gin.Context) {
	var req userServiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ctl.UserServices.Link(req.UserID, req.ServiceID); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("join.write")
	resp.Created(c, req)
}

// DELETE /user-services
func (ctl *JoinController) UnlinkUserService(c *gin.Context) {
	var req userServiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ctl.UserServices.Unlink(req.UserID, req.ServiceID); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("join.write")
	resp.OK(c, gin.H{"unlinked": true})
}
