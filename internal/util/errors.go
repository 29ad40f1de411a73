package util

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrContentNotFound  = errors.New("content not found")
	ErrSubjectLocked    = errors.New("subject not unlocked")
	ErrNoQuestions      = errors.New("no questions available for subject")
	ErrQuestionSkipped  = errors.New("question was skipped")
	ErrQuestionLocked   = errors.New("question already answered on both tries")
	ErrInvalidAnswer    = errors.New("answer index out of range")
)

// FieldError 教师录题时单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// EvaluationError 复杂题的求解公式无法求值，属于出题层面的错误，
// 不能降级为一个错误答案继续出题
type EvaluationError struct {
	QuestionID uint
	Equation   string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("question %d: equation %q failed to evaluate: %v", e.QuestionID, e.Equation, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
