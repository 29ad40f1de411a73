package controller

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
)

type SubjectController struct {
	SubjectService *service.SubjectService
}

func NewSubjectController(subjectService *service.SubjectService) *SubjectController {
	return &SubjectController{SubjectService: subjectService}
}

// List godoc
// @Summary 主题列表
// @Description 返回全部主题和当前用户的解锁、完成状态
// @Tags 主题
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.SubjectProgressView}
// @Router /api/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	subjects, err := c.SubjectService.ListForUser(claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// Get godoc
// @Summary 主题学习游标
// @Description 定位当前要学的内容；主题未解锁返回 403
// @Tags 主题
// @Produce json
// @Security ApiKeyAuth
// @Param subject path string true "主题名"
// @Success 200 {object} util.Response{data=service.SubjectDetailView}
// @Failure 403 {object} util.Response "主题未解锁"
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/subjects/{subject} [get]
func (c *SubjectController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.SubjectService.GetSubject(claims.UserID, ctx.Param("subject"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// CompleteContent godoc
// @Summary 完成学习内容
// @Description 结算积分并在命中出题条件时返回测验跳转路由
// @Tags 主题
// @Produce json
// @Security ApiKeyAuth
// @Param contentId path int true "内容ID"
// @Success 200 {object} util.Response{data=service.CompleteContentResult}
// @Failure 404 {object} util.Response "内容不存在"
// @Router /api/subjects/contents/{contentId}/complete [post]
func (c *SubjectController) CompleteContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	contentID, err := util.ParseUint(ctx.Param("contentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	result, err := c.SubjectService.CompleteContent(claims.UserID, contentID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// FocusedTime godoc
// @Summary 上报内容专注时长
// @Description 遥测接口，写入失败不影响响应
// @Tags 主题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param contentId path int true "内容ID"
// @Param body body FocusedTimeRequest true "专注时长（毫秒）"
// @Success 200 {object} util.Response
// @Router /api/subjects/contents/{contentId}/focused-time [post]
func (c *SubjectController) FocusedTime(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	contentID, err := util.ParseUint(ctx.Param("contentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	var req FocusedTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.SubjectService.AddContentFocusedTime(claims.UserID, contentID, *req.FocusedTime/1000); err != nil {
		logger.Log.Warn("记录内容专注时长失败",
			zap.Uint("contentId", contentID),
			zap.Error(err))
	}
	util.Success(ctx, nil)
}
