package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/pkg/sla"
	"github.com/maxmaindev/citizen-appeals/repository"
	"github.com/maxmaindev/citizen-appeals/services"
	"github.com/maxmaindev/citizen-appeals/utils"
)

type AppealController struct {
	Appeals      *repository.AppealRepository
	UserServices *repository.UserServiceRepository
	Service      *services.AppealService
	Cache        *querycache.Cache[any]
}

func NewAppealController(
	appeals *repository.AppealRepository,
	userServices *repository.UserServiceRepository,
	service *services.AppealService,
	cache *querycache.Cache[any],
) *AppealController {
	return &AppealController{
		Appeals:      appeals,
		UserServices: userServices,
		Service:      service,
		Cache:        cache,
	}
}

// appealView adds the computed deadline block; terminal appeals carry none.
type appealView struct {
	entity.Appeal
	SLA *sla.Info `json:"sla,omitempty"`
}

func viewOf(a entity.Appeal, now time.Time) appealView {
	return appealView{Appeal: a, SLA: sla.For(a.Status, a.CreatedAt, now)}
}

// POST /appeals
func (ctl *AppealController) Create(c *gin.Context) {
	var req services.CreateAppealReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	a, err := ctl.Service.Create(c.Request.Context(), utils.CurrentUserID(c), &req)
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	ctl.Cache.InvalidateFor("appeal.create")
	resp.Created(c, viewOf(*a, time.Now()))
}

// GET /appeals
// Citizens only ever see their own appeals. Executors asking for ?my=true are
// scoped to their first assigned service.
func (ctl *AppealController) List(c *gin.Context) {
	f := repository.AppealFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		SortBy: c.Query("sort_by"),
	}
	f.SortDesc = c.DefaultQuery("sort_order", "desc") == "desc"
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	f.CategoryID = queryUint(c, "category_id")
	f.ServiceID = queryUint(c, "service_id")
	if p := queryUint(c, "priority"); p != nil {
		v := int(*p)
		f.Priority = &v
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			f.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			t = t.AddDate(0, 0, 1)
			f.To = &t
		}
	}

	userID := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)
	switch role {
	case entity.RoleCitizen:
		f.UserID = &userID
	case entity.RoleExecutor:
		if c.Query("my") == "true" {
			svcs, err := ctl.UserServices.ServicesForUser(userID)
			if err != nil {
				resp.ServerError(c, err)
				return
			}
			if len(svcs) == 0 {
				resp.OK(c, gin.H{"items": []appealView{}, "total": 0, "page": 1, "limit": f.Limit, "total_pages": 0})
				return
			}
			f.ServiceID = &svcs[0].ID
		}
	default:
		if c.Query("my") == "true" {
			f.UserID = &userID
		}
		if uid := queryUint(c, "user_id"); uid != nil {
			f.UserID = uid
		}
	}

	// One cache entry per role/user/query combination. SLA blocks are
	// derived after the cache so they track the current clock.
	key := querycache.KeyAppeals + "?" + role + ":" + strconv.Itoa(int(userID)) + ":" + c.Request.URL.RawQuery
	cached, err := ctl.Cache.Get(c.Request.Context(), key, func(ctx context.Context) (any, error) {
		appeals, total, err := ctl.Appeals.List(f)
		if err != nil {
			return nil, err
		}
		return listPage{Appeals: appeals, Total: total}, nil
	})
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	page := cached.(listPage)

	now := time.Now()
	items := make([]appealView, 0, len(page.Appeals))
	for _, a := range page.Appeals {
		items = append(items, viewOf(a, now))
	}

	totalPages := (page.Total + int64(f.Limit) - 1) / int64(f.Limit)
	resp.OK(c, gin.H{
		"items":       items,
		"total":       page.Total,
		"page":        f.Page,
		"limit":       f.Limit,
		"total_pages": totalPages,
	})
}

type listPage struct {
	Appeals []entity.Appeal
	Total   int64
}

// GET /appeals/:id
func (ctl *AppealController) Get(c *gin.Context) {
	a, ok := ctl.authorizedAppeal(c)
	if !ok {
		return
	}
	resp.OK(c, viewOf(*a, time.Now()))
}

// PUT /appeals/:id
// Creators may edit while the appeal is still new; dispatchers and admins may
// retarget anytime.
func (ctl *AppealController) Update(c *gin.Context) {
	a, ok := ctl.authorizedAppeal(c)
	if !ok {
		return
	}

	role := utils.CurrentRole(c)
	if role == entity.RoleCitizen || role == entity.RoleExecutor {
		if a.UserID != utils.CurrentUserID(c) || a.Status != entity.StatusNew {
			resp.Forbidden(c, "appeal can no longer be edited")
			return
		}
	}

	var req services.UpdateAppealReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ctl.Service.Update(a, &req); err != nil {
		resp.ServerError(c, err)
		return
	}

	ctl.Cache.InvalidateFor("appeal.update")
	resp.OK(c, viewOf(*a, time.Now()))
}

type statusReq struct {
	Status  string  `json:"status" binding:"required,oneof=new assigned in_progress completed rejected closed"`
	Comment *string `json:"comment"`
}

// PATCH /appeals/:id/status
func (ctl *AppealController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	a, err := ctl.Service.ChangeStatus(id, utils.CurrentUserID(c), req.Status, req.Comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "appeal not found")
			return
		}
		resp.ServerError(c, err)
		return
	}

	ctl.Cache.InvalidateFor("appeal.status")
	resp.OK(c, viewOf(*a, time.Now()))
}

type priorityReq struct {
	Priority int `json:"priority" binding:"required,min=1,max=3"`
}

// PATCH /appeals/:id/priority
func (ctl *AppealController) UpdatePriority(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req priorityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if err := ctl.Appeals.UpdatePriority(id, req.Priority); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "appeal not found")
			return
		}
		resp.ServerError(c, err)
		return
	}

	ctl.Cache.InvalidateFor("appeal.priority")
	resp.OK(c, gin.H{"id": id, "priority": req.Priority})
}

type assignReq struct {
	ServiceID uint `json:"service_id" binding:"required"`
	Priority  *int `json:"priority" binding:"omitempty,min=1,max=3"`
}

// PATCH /appeals/:id/assign
func (ctl *AppealController) Assign(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	a, err := ctl.Service.Assign(id, utils.CurrentUserID(c), req.ServiceID, req.Priority)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "appeal not found")
			return
		}
		resp.ServerError(c, err)
		return
	}

	ctl.Cache.InvalidateFor("appeal.assign")
	resp.OK(c, viewOf(*a, time.Now()))
}

// GET /appeals/:id/history
func (ctl *AppealController) History(c *gin.Context) {
	a, ok := ctl.authorizedAppeal(c)
	if !ok {
		return
	}
	rows, err := ctl.Appeals.GetHistory(a.ID)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

type classifyReq struct {
	Text string `json:"text" binding:"required,min=3"`
}

// POST /appeals/classify
func (ctl *AppealController) Classify(c *gin.Context) {
	var req classifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	service, confidence, err := ctl.Service.Classify(c.Request.Context(), req.Text)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"service": service, "confidence": confidence})
}

// authorizedAppeal loads the appeal and enforces read scoping: citizens see
// only their own.
func (ctl *AppealController) authorizedAppeal(c *gin.Context) (*entity.Appeal, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}
	a, err := ctl.Appeals.FindByID(id)
	if err != nil {
		resp.NotFound(c, "appeal not found")
		return nil, false
	}
	if utils.CurrentRole(c) == entity.RoleCitizen && a.UserID != utils.CurrentUserID(c) {
		resp.Forbidden(c, "not your appeal")
		return nil, false
	}
	return a, true
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		resp.BadRequest(c, fmt.Sprintf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) *uint {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil
	}
	u := uint(n)
	return &u
}
