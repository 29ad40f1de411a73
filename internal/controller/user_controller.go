package controller

import (
	"github.com/gin-gonic/gin"

	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// Profile godoc
// @Summary 个人信息
// @Description 返回当前用户的账号信息和学生榜名次
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Failure 401 {object} util.Response
// @Router /api/profile [get]
func (c *UserController) Profile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.Profile(claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// ToggleRole godoc
// @Summary 切换角色
// @Description 在学生和教师角色之间切换，换角色后需重新登录拿新令牌
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Router /api/user/role [post]
func (c *UserController) ToggleRole(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.ToggleRole(claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"role": user.Role})
}
