package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"physics_edu_backend/internal/util"
)

// respondServiceError 把业务层错误翻译成统一响应。
// 求值错误按录题事故处理，只记日志对外 500
func respondServiceError(ctx *gin.Context, err error) {
	var validationErrs util.ValidationErrors
	var evalErr *util.EvaluationError

	switch {
	case errors.As(err, &validationErrs):
		util.ValidationFailed(ctx, validationErrs)
	case errors.As(err, &evalErr):
		util.LogInternalError(ctx, err)
	case errors.Is(err, util.ErrSubjectLocked):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrSubjectNotFound),
		errors.Is(err, util.ErrContentNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrNoQuestions),
		errors.Is(err, util.ErrQuestionSkipped),
		errors.Is(err, util.ErrQuestionLocked),
		errors.Is(err, util.ErrInvalidAnswer):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
