package controller

import (
	"github.com/gin-gonic/gin"

	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
)

type ComplexQuizController struct {
	ComplexQuizService *service.ComplexQuizService
}

func NewComplexQuizController(complexQuizService *service.ComplexQuizService) *ComplexQuizController {
	return &ComplexQuizController{ComplexQuizService: complexQuizService}
}

// Get godoc
// @Summary 获取数值测验
// @Description 返回进行中的数值测验，没有则从模板实例化一道新题
// @Tags 数值测验
// @Produce json
// @Security ApiKeyAuth
// @Param subject query string false "主题名，缺省取当前主题"
// @Success 200 {object} util.Response{data=service.ComplexQuizView}
// @Failure 400 {object} util.Response "该主题暂无模板"
// @Failure 500 {object} util.Response "模板公式求值失败"
// @Router /api/complex-quiz [get]
func (c *ComplexQuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz, err := c.ComplexQuizService.GetCurrentOrNew(ctx.Request.Context(), claims.UserID, ctx.Query("subject"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// ComplexAnswerRequest 数值作答请求
type ComplexAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// Answer godoc
// @Summary 数值作答
// @Description 以标准答案字符串比对判卷，首轮答错留一次重试
// @Tags 数值测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param body body ComplexAnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.ComplexAnswerResult}
// @Failure 400 {object} util.Response "两轮已用完"
// @Router /api/complex-quiz/{id}/answer [post]
func (c *ComplexQuizController) Answer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ComplexAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ComplexQuizService.Answer(ctx.Param("id"), claims.UserID, req.Answer)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Skip godoc
// @Summary 放弃数值题
// @Description 扣除题目难度的积分并收口本场测验
// @Tags 数值测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/complex-quiz/{id}/skip [post]
func (c *ComplexQuizController) Skip(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ComplexQuizService.Skip(ctx.Param("id"), claims.UserID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
