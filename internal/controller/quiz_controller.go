package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Get godoc
// @Summary 获取测验
// @Description 返回进行中的测验，没有则按当前主题和积分组一份新卷
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param subject query string false "主题名，缺省取当前主题"
// @Param count query int false "题目数量，缺省在 3-4 随机"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 400 {object} util.Response "该主题暂无题目"
// @Router /api/quiz [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	count := 0
	if raw := ctx.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "count must be a number")
			return
		}
		count = parsed
	}

	quiz, err := c.QuizService.GetCurrentOrNew(ctx.Request.Context(), claims.UserID, ctx.Query("subject"), count)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Active godoc
// @Summary 是否有进行中的测验
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/quiz/active [get]
func (c *QuizController) Active(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	active, err := c.QuizService.HasActive(claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"active": active})
}

// AnswerRequest 作答请求，answer 为选项下标
type AnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     *int   `json:"answer" binding:"required"`
}

// Answer godoc
// @Summary 作答
// @Description 记录一次作答并结算积分，答错时返回所选项的提示
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param body body AnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response "题目已跳过或两轮已用完"
// @Failure 404 {object} util.Response "测验或题目不存在"
// @Router /api/quiz/{id}/answer [post]
func (c *QuizController) Answer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Answer(ctx.Param("id"), claims.UserID, req.QuestionID, *req.Answer)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// SkipRequest 跳过请求
type SkipRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
}

// Skip godoc
// @Summary 跳过题目
// @Description 无条件跳过并扣除题目难度的积分
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param body body SkipRequest true "要跳过的题目"
// @Success 200 {object} util.Response{data=service.SkipResult}
// @Failure 400 {object} util.Response "题目已跳过"
// @Router /api/quiz/{id}/skip [post]
func (c *QuizController) Skip(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SkipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Skip(ctx.Param("id"), claims.UserID, req.QuestionID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Summary godoc
// @Summary 测验回顾
// @Description 返回最近一场完成首轮的测验和按轮次记录的作答
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.QuizSummaryView}
// @Failure 404 {object} util.Response "还没有完成过测验"
// @Router /api/quiz/summary [get]
func (c *QuizController) Summary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.QuizService.Summary(claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// FocusedTimeRequest 专注时长上报，毫秒。
// 指针字段：0 也是合法上报，值类型会被 required 当成缺失拒掉
type FocusedTimeRequest struct {
	FocusedTime *int `json:"focusedTime" binding:"required"`
}

// FocusedTime godoc
// @Summary 上报单题专注时长
// @Description 遥测接口，写入失败不影响响应
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param questionId path string true "题目ID"
// @Param body body FocusedTimeRequest true "专注时长（毫秒）"
// @Success 200 {object} util.Response
// @Router /api/quiz/{id}/questions/{questionId}/focused-time [post]
func (c *QuizController) FocusedTime(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FocusedTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	seconds := *req.FocusedTime / 1000
	if err := c.QuizService.AddFocusedTime(ctx.Param("questionId"), claims.UserID, seconds); err != nil {
		logger.Log.Warn("记录测验专注时长失败",
			zap.String("quizQuestionId", ctx.Param("questionId")),
			zap.Error(err))
	}
	util.Success(ctx, nil)
}
