package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/services"
)

type SettingsController struct {
	Settings *services.SettingsService
	Cache    *querycache.Cache[any]
}

func NewSettingsController(settings *services.SettingsService, cache *querycache.Cache[any]) *SettingsController {
	return &SettingsController{Settings: settings, Cache: cache}
}

// GET /settings
func (ctl *SettingsController) Get(c *gin.Context) {
	resp.OK(c, ctl.Settings.Get())
}

// PUT /settings
func (ctl *SettingsController) Update(c *gin.Context) {
	var req entity.SystemSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ctl.Settings.Update(req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	ctl.Cache.InvalidateFor("settings.write")
	resp.OK(c, ctl.Settings.Get())
}
