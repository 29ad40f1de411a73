package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"physics_edu_backend/pkg/monitoring"
)

type ComplexQuizService struct {
	quizzes   *repository.ComplexQuizRepository
	questions *repository.QuestionRepository
	users     *repository.UserRepository
	subjects  *SubjectService
}

func NewComplexQuizService(
	quizzes *repository.ComplexQuizRepository,
	questions *repository.QuestionRepository,
	users *repository.UserRepository,
	subjects *SubjectService,
) *ComplexQuizService {
	return &ComplexQuizService{
		quizzes:   quizzes,
		questions: questions,
		users:     users,
		subjects:  subjects,
	}
}

type ComplexQuizView struct {
	ID                 string                  `json:"id"`
	CompletedFirstTry  bool                    `json:"completedFirstTry"`
	CompletedSecondTry bool                    `json:"completedSecondTry"`
	AnswerHint         string                  `json:"answerHint"`
	Question           ComplexQuizQuestionView `json:"question"`
}

type ComplexQuizQuestionView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Svg      string `json:"svg"`
}

type ComplexAnswerResult struct {
	IsCorrect          bool `json:"isCorrect"`
	CompletedFirstTry  bool `json:"completedFirstTry"`
	CompletedSecondTry bool `json:"completedSecondTry"`
}

// GetCurrentOrNew 返回进行中的数值测验，没有则从模板实例化一道。
// 公式求值失败的模板跳过换下一个，全部失败才把求值错误往上抛
func (s *ComplexQuizService) GetCurrentOrNew(ctx context.Context, userID uint, subject string) (*ComplexQuizView, error) {
	quiz, err := s.quizzes.FindActiveByUser(userID)
	if err == nil {
		return buildComplexQuizView(quiz), nil
	}
	if !errors.Is(err, util.ErrQuizNotFound) {
		return nil, err
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	subjectName, err := s.resolveSubject(userID, subject)
	if err != nil {
		return nil, err
	}

	pool, err := s.questions.ListComplexBySubject(ctx, subjectName)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, util.ErrNoQuestions
	}

	target := user.Points
	sort.SliceStable(pool, func(i, j int) bool {
		di := math.Abs(float64(pool[i].Difficulty) - target)
		dj := math.Abs(float64(pool[j].Difficulty) - target)
		if di != dj {
			return di < dj
		}
		return pool[i].Difficulty > pool[j].Difficulty
	})

	var firstErr error
	for i := range pool {
		template := &pool[i]
		instance, err := instantiateQuestion(template, randomSampler)
		if err != nil {
			// 出题层面的错误，记下来换下一个模板
			logger.Log.Error("数值题模板求值失败", zap.Uint("questionId", template.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		active := true
		newQuiz := &model.ComplexQuiz{
			UserID:     userID,
			Active:     &active,
			AnswerHint: template.AnswerHint,
			Question: model.ComplexQuizQuestion{
				ComplexQuestionID: template.ID,
				Title:             instance.Title,
				Subtitle:          instance.Subtitle,
				Svg:               instance.Svg,
				Answer:            instance.Answer,
			},
		}

		if err := s.quizzes.CreateWithQuestion(newQuiz); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				quiz, err = s.quizzes.FindActiveByUser(userID)
				if err != nil {
					return nil, err
				}
				return buildComplexQuizView(quiz), nil
			}
			return nil, err
		}

		quiz, err = s.quizzes.FindActiveByUser(userID)
		if err != nil {
			return nil, err
		}
		return buildComplexQuizView(quiz), nil
	}

	return nil, firstErr
}

func (s *ComplexQuizService) resolveSubject(userID uint, subject string) (model.SubjectName, error) {
	if subject != "" {
		if !model.ValidSubjectName(subject) {
			return "", util.ErrSubjectNotFound
		}
		return model.SubjectName(subject), nil
	}
	return s.subjects.CurrentSubjectName(userID)
}

// Answer 以字符串相等判卷。首轮答错留一次重试，重试后无论对错收口。
// 作答本身不动积分，数值题只有跳过才扣分
func (s *ComplexQuizService) Answer(quizID string, userID uint, answer string) (*ComplexAnswerResult, error) {
	var result *ComplexAnswerResult
	var subjectName model.SubjectName

	err := s.quizzes.Mutate(quizID, userID, func(tx *gorm.DB, quiz *model.ComplexQuiz) error {
		if quiz.CompletedSecondTry {
			return util.ErrQuestionLocked
		}

		isCorrect := quiz.Question.Answer == strings.TrimSpace(answer)
		wasRetry := quiz.CompletedFirstTry

		terminal := wasRetry || isCorrect
		updates := map[string]interface{}{"completed_first_try": true}
		if terminal {
			updates["completed_second_try"] = true
			updates["active"] = nil
		}

		if err := tx.Model(&model.ComplexQuiz{}).Where("id = ?", quiz.ID).Updates(updates).Error; err != nil {
			return err
		}

		subjectName = quiz.Question.ComplexQuestion.Subject
		result = &ComplexAnswerResult{
			IsCorrect:          isCorrect,
			CompletedFirstTry:  true,
			CompletedSecondTry: terminal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.CompletedSecondTry {
		s.afterCompleted(userID, subjectName)
	}
	return result, nil
}

// Skip 放弃当前数值题，扣除题目难度的积分并收口
func (s *ComplexQuizService) Skip(quizID string, userID uint) error {
	var subjectName model.SubjectName

	err := s.quizzes.Mutate(quizID, userID, func(tx *gorm.DB, quiz *model.ComplexQuiz) error {
		if quiz.CompletedSecondTry {
			return util.ErrQuestionLocked
		}

		updates := map[string]interface{}{
			"completed_first_try":  true,
			"completed_second_try": true,
			"active":               nil,
		}
		if err := tx.Model(&model.ComplexQuiz{}).Where("id = ?", quiz.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := s.users.AdjustPoints(tx, userID, -float64(quiz.Question.ComplexQuestion.Difficulty)); err != nil {
			return err
		}

		subjectName = quiz.Question.ComplexQuestion.Subject
		return nil
	})
	if err != nil {
		return err
	}

	s.afterCompleted(userID, subjectName)
	return nil
}

func (s *ComplexQuizService) afterCompleted(userID uint, subject model.SubjectName) {
	monitoring.QuizCompletions.WithLabelValues("complex").Inc()
	if subject == "" {
		return
	}
	if err := s.subjects.MaybeCompleteSubject(userID, subject); err != nil {
		logger.Log.Warn("结算主题完成状态失败",
			zap.Uint("userId", userID),
			zap.String("subject", string(subject)),
			zap.Error(err))
	}
}

func buildComplexQuizView(quiz *model.ComplexQuiz) *ComplexQuizView {
	return &ComplexQuizView{
		ID:                 quiz.ID,
		CompletedFirstTry:  quiz.CompletedFirstTry,
		CompletedSecondTry: quiz.CompletedSecondTry,
		AnswerHint:         quiz.AnswerHint,
		Question: ComplexQuizQuestionView{
			ID:       quiz.Question.ID,
			Title:    quiz.Question.Title,
			Subtitle: quiz.Question.Subtitle,
			Svg:      quiz.Question.Svg,
		},
	}
}
