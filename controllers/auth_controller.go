package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/repository"
	"github.com/maxmaindev/citizen-appeals/services"
	"github.com/maxmaindev/citizen-appeals/utils"
)

type AuthController struct {
	Auth  *services.AuthService
	Users *repository.UserRepository
}

func NewAuthController(auth *services.AuthService, users *repository.UserRepository) *AuthController {
	return &AuthController{Auth: auth, Users: users}
}

// POST /auth/register
func (ctl *AuthController) Register(c *gin.Context) {
	var req services.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	res, err := ctl.Auth.Register(&req)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, res)
}

// POST /auth/login
func (ctl *AuthController) Login(c *gin.Context) {
	var req services.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	res, err := ctl.Auth.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			resp.Unauthorized(c, "invalid credentials")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, res)
}

// GET /auth/me
func (ctl *AuthController) Me(c *gin.Context) {
	u, err := ctl.Users.FindByID(utils.CurrentUserID(c))
	if err != nil {
		resp.NotFound(c, "user not found")
		return
	}
	resp.OK(c, gin.H{
		"user":         u,
		"capabilities": utils.CapabilitiesFor(u.Role),
	})
}

// PATCH /auth/profile
func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	u, err := ctl.Auth.UpdateProfile(utils.CurrentUserID(c), &req)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, u)
}

// PATCH /auth/change-password
func (ctl *AuthController) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ctl.Auth.ChangePassword(utils.CurrentUserID(c), &req); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			resp.BadRequest(c, "old password is incorrect")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"changed": true})
}
