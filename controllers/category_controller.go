package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/repository"
)

type CategoryController struct {
	Categories *repository.CategoryRepository
	Cache      *querycache.Cache[any]
}

func NewCategoryController(categories *repository.CategoryRepository, cache *querycache.Cache[any]) *CategoryController {
	return &CategoryController{Categories: categories, Cache: cache}
}

// GET /categories
func (ctl *CategoryController) List(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	cats, err := ctl.Categories.List(activeOnly)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, cats)
}

// GET /categories/:id
func (ctl *CategoryController) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	cat, err := ctl.Categories.FindByID(id)
	if err != nil {
		resp.NotFound(c, "category not found")
		return
	}
	resp.OK(c, cat)
}

type categoryReq struct {
	Name            string `json:"name" binding:"required,min=2,max=100"`
	Description     string `json:"description"`
	DefaultPriority int    `json:"default_priority" binding:"omitempty,min=1,max=3"`
	IsActive        *bool  `json:"is_active"`
}

// POST /categories
func (ctl *CategoryController) Create(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	cat := entity.Category{
		Name:            req.Name,
		Description:     req.Description,
		DefaultPriority: 2,
		IsActive:        true,
	}
	if req.DefaultPriority != 0 {
		cat.DefaultPriority = req.DefaultPriority
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := ctl.Categories.Create(&cat); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("category.write")
	resp.Created(c, cat)
}

// PUT /categories/:id
func (ctl *CategoryController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	cat, err := ctl.Categories.FindByID(id)
	if err != nil {
		resp.NotFound(c, "category not found")
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	cat.Name = req.Name
	cat.Description = req.Description
	if req.DefaultPriority != 0 {
		cat.DefaultPriority = req.DefaultPriority
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := ctl.Categories.Update(cat); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("category.write")
	resp.OK(c, cat)
}

// DELETE /categories/:id
func (ctl *CategoryController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.Categories.Delete(id); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("category.write")
	resp.OK(c, gin.H{"deleted": id})
}
