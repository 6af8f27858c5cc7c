package controllers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/pkg/classify"
	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/repository"
)

type ServiceController struct {
	Services   *repository.ServiceRepository
	Classifier *classify.Classifier
	Cache      *querycache.Cache[any]
}

func NewServiceController(
	services *repository.ServiceRepository,
	classifier *classify.Classifier,
	cache *querycache.Cache[any],
) *ServiceController {
	return &ServiceController{Services: services, Classifier: classifier, Cache: cache}
}

// GET /services
func (ctl *ServiceController) List(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	svcs, err := ctl.Services.List(activeOnly)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, svcs)
}

// GET /services/:id
func (ctl *ServiceController) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	svc, err := ctl.Services.FindByID(id)
	if err != nil {
		resp.NotFound(c, "service not found")
		return
	}
	resp.OK(c, svc)
}

type serviceReq struct {
	Name          string `json:"name" binding:"required,min=2,max=150"`
	Description   string `json:"description"`
	Keywords      string `json:"keywords"`
	ContactPerson string `json:"contact_person"`
	ContactPhone  string `json:"contact_phone"`
	ContactEmail  string `json:"contact_email" binding:"omitempty,email"`
	IsActive      *bool  `json:"is_active"`
}

// POST /services
func (ctl *ServiceController) Create(c *gin.Context) {
	var req serviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	svc := entity.Service{
		Name:          req.Name,
		Description:   req.Description,
		Keywords:      req.Keywords,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		IsActive:      true,
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := ctl.Services.Create(&svc); err != nil {
		resp.ServerError(c, err)
		return
	}

	ctl.Cache.InvalidateFor("service.write")
	ctl.syncKeywords(c)
	resp.Created(c, svc)
}

// PUT /services/:id
func (ctl *ServiceController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	svc, err := ctl.Services.FindByID(id)
	if err != nil {
		resp.NotFound(c, "service not found")
		return
	}

	var req serviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	keywordsChanged := svc.Keywords != req.Keywords

	svc.Name = req.Name
	svc.Description = req.Description
	svc.Keywords = req.Keywords
	svc.ContactPerson = req.ContactPerson
	svc.ContactPhone = req.ContactPhone
	svc.ContactEmail = req.ContactEmail
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := ctl.Services.Update(svc); err != nil {
		resp.ServerError(c, err)
		return
	}

	ctl.Cache.InvalidateFor("service.write")
	if keywordsChanged {
		ctl.syncKeywords(c)
	}
	resp.OK(c, svc)
}

type keywordsReq struct {
	Keywords string `json:"keywords" binding:"required"`
}

// PUT /services/:id/keywords
func (ctl *ServiceController) UpdateKeywords(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req keywordsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if err := ctl.Services.UpdateKeywords(id, req.Keywords); err != nil {
		resp.ServerError(c, err)
		return
	}

	ctl.Cache.InvalidateFor("service.write")
	ctl.syncKeywords(c)
	resp.OK(c, gin.H{"id": id, "keywords": req.Keywords})
}

// DELETE /services/:id
func (ctl *ServiceController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.Services.Delete(id); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("service.write")
	resp.OK(c, gin.H{"deleted": id})
}

// syncKeywords pings the classifier so it re-embeds. Best-effort.
func (ctl *ServiceController) syncKeywords(c *gin.Context) {
	if err := ctl.Classifier.SyncKeywords(c.Request.Context()); err != nil {
		log.Printf("sync classifier keywords: %v", err)
	}
}
