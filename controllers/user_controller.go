package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/repository"
)

type UserController struct {
	Users *repository.UserRepository
	Cache *querycache.Cache[any]
}

func NewUserController(users *repository.UserRepository, cache *querycache.Cache[any]) *UserController {
	return &UserController{Users: users, Cache: cache}
}

// GET /users
func (ctl *UserController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, total, err := ctl.Users.List(c.Query("role"), page, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": users, "total": total, "page": page, "limit": limit})
}

// GET /users/:id
func (ctl *UserController) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	u, err := ctl.Users.FindByID(id)
	if err != nil {
		resp.NotFound(c, "user not found")
		return
	}
	resp.OK(c, u)
}

type userUpdateReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"omitempty,oneof=citizen dispatcher executor admin"`
	IsActive  *bool  `json:"is_active"`
}

// PUT /users/:id
func (ctl *UserController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	u, err := ctl.Users.FindByID(id)
	if err != nil {
		resp.NotFound(c, "user not found")
		return
	}

	var req userUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := ctl.Users.Update(u); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("user.write")
	resp.OK(c, u)
}

// DELETE /users/:id
func (ctl *UserController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.Users.Delete(id); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("user.write")
	resp.OK(c, gin.H{"deleted": id})
}
