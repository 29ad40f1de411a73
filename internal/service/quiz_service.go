package service

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"physics_edu_backend/pkg/monitoring"
)

// 积分规则：一轮答对 +d，二轮答对 +d/2，答错 -0.85d，跳过 -d，下限 0
const (
	wrongAnswerPenalty = 0.85
	secondTryFactor    = 0.5
)

type QuizService struct {
	quizzes   *repository.QuizRepository
	questions *repository.QuestionRepository
	users     *repository.UserRepository
	subjects  *SubjectService
}

func NewQuizService(
	quizzes *repository.QuizRepository,
	questions *repository.QuestionRepository,
	users *repository.UserRepository,
	subjects *SubjectService,
) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		questions: questions,
		users:     users,
		subjects:  subjects,
	}
}

// QuizView 学生端的测验视图，不携带选项的正误标记
type QuizView struct {
	ID                 string             `json:"id"`
	AmountOfQuestions  int                `json:"amountOfQuestions"`
	CompletedFirstTry  bool               `json:"completedFirstTry"`
	CompletedSecondTry bool               `json:"completedSecondTry"`
	CurrentQuestionIdx int                `json:"currentQuestionIdx"`
	Questions          []QuizQuestionView `json:"questions"`
}

type QuizQuestionView struct {
	ID                      string   `json:"id"`
	Position                int      `json:"position"`
	Title                   string   `json:"title"`
	Subtitle                string   `json:"subtitle"`
	Answers                 []string `json:"answers"`
	AnsweredFirstTry        bool     `json:"answeredFirstTry"`
	SelectedAnswerFirstTry  *int     `json:"selectedAnswerFirstTry"`
	AnsweredSecondTry       bool     `json:"answeredSecondTry"`
	SelectedAnswerSecondTry *int     `json:"selectedAnswerSecondTry"`
	Skipped                 bool     `json:"skipped"`
}

// AnswerResult 单次作答的结果。Hint 只在答错时返回所选项的提示
type AnswerResult struct {
	Completed   bool    `json:"completed"`
	IsCorrect   bool    `json:"isCorrect"`
	Hint        string  `json:"hint,omitempty"`
	PointsDelta float64 `json:"pointsDelta"`
}

type SkipResult struct {
	Completed bool `json:"completed"`
}

// selectQuestions 按 |难度-目标| 升序排序，同距离取难度更高的，截取前 n 题
func selectQuestions(pool []model.AlternativeQuestion, target float64, n int) []model.AlternativeQuestion {
	sorted := make([]model.AlternativeQuestion, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := math.Abs(float64(sorted[i].Difficulty) - target)
		dj := math.Abs(float64(sorted[j].Difficulty) - target)
		if di != dj {
			return di < dj
		}
		return sorted[i].Difficulty > sorted[j].Difficulty
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// GetCurrentOrNew 返回进行中的测验；没有则按当前主题和积分现场组卷。
// subject 为空时取用户当前推进到的主题，count 为 0 时在 [3,4] 随机
func (s *QuizService) GetCurrentOrNew(ctx context.Context, userID uint, subject string, count int) (*QuizView, error) {
	quiz, err := s.quizzes.FindActiveByUser(userID)
	if err == nil {
		return buildQuizView(quiz), nil
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

	pool, err := s.questions.ListAlternativeBySubject(ctx, subjectName)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, util.ErrNoQuestions
	}

	n := count
	if n == 0 {
		n = util.MinQuizQuestions + rand.Intn(util.MaxQuizQuestions-util.MinQuizQuestions+1)
	}
	if n < util.MinQuizQuestions {
		n = util.MinQuizQuestions
	}
	if n > util.MaxQuizQuestions {
		n = util.MaxQuizQuestions
	}
	if n > len(pool) {
		n = len(pool)
	}

	target := math.Round(user.Points / float64(n))
	selected := selectQuestions(pool, target, n)

	active := true
	newQuiz := &model.Quiz{
		UserID:            userID,
		Active:            &active,
		AmountOfQuestions: n,
	}
	for i, q := range selected {
		newQuiz.Questions = append(newQuiz.Questions, model.QuizQuestion{
			QuestionID: q.ID,
			Position:   i,
		})
	}

	if err := s.quizzes.CreateWithQuestions(newQuiz); err != nil {
		// 并发重复建卷时唯一索引兜底，改读已有的那一场
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			quiz, err = s.quizzes.FindActiveByUser(userID)
			if err != nil {
				return nil, err
			}
			return buildQuizView(quiz), nil
		}
		return nil, err
	}

	quiz, err = s.quizzes.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	return buildQuizView(quiz), nil
}

func (s *QuizService) resolveSubject(userID uint, subject string) (model.SubjectName, error) {
	if subject != "" {
		if !model.ValidSubjectName(subject) {
			return "", util.ErrSubjectNotFound
		}
		return model.SubjectName(subject), nil
	}
	return s.subjects.CurrentSubjectName(userID)
}

// HasActive 查询用户是否有进行中的测验
func (s *QuizService) HasActive(userID uint) (bool, error) {
	_, err := s.quizzes.FindActiveByUser(userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, util.ErrQuizNotFound) {
		return false, nil
	}
	return false, err
}

// Answer 记录一次作答并结算积分。跳过或两轮已用完的题目拒绝作答
func (s *QuizService) Answer(quizID string, userID uint, quizQuestionID string, answerIdx int) (*AnswerResult, error) {
	var result *AnswerResult
	var subjectName model.SubjectName

	err := s.quizzes.Mutate(quizID, userID, func(tx *gorm.DB, quiz *model.Quiz) error {
		qq := findQuizQuestion(quiz, quizQuestionID)
		if qq == nil {
			return util.ErrQuestionNotFound
		}
		if qq.Skipped {
			return util.ErrQuestionSkipped
		}
		if qq.AnsweredSecondTry {
			return util.ErrQuestionLocked
		}
		if answerIdx < 0 || answerIdx >= len(qq.Question.Answers) {
			return util.ErrInvalidAnswer
		}

		picked := qq.Question.Answers[answerIdx]
		isCorrect := picked.IsCorrect
		difficulty := float64(qq.Question.Difficulty)
		firstTry := !qq.AnsweredFirstTry
		idx := answerIdx
		correct := isCorrect

		updates := map[string]interface{}{}
		// 答对直接收口第二轮，首轮已答过的本次就是第二轮
		if qq.AnsweredFirstTry || isCorrect {
			qq.AnsweredSecondTry = true
			qq.SelectedAnswerSecondTry = &idx
			qq.AnsweredCorrectSecondTry = &correct
			updates["answered_second_try"] = true
			updates["selected_answer_second_try"] = idx
			updates["answered_correct_second_try"] = correct
		}
		if firstTry {
			qq.AnsweredFirstTry = true
			qq.SelectedAnswerFirstTry = &idx
			qq.AnsweredCorrectFirstTry = &correct
			updates["answered_first_try"] = true
			updates["selected_answer_first_try"] = idx
			updates["answered_correct_first_try"] = correct
		}

		var delta float64
		if isCorrect {
			if firstTry {
				delta = difficulty
			} else {
				delta = difficulty * secondTryFactor
			}
		} else {
			delta = -difficulty * wrongAnswerPenalty
		}

		if err := tx.Model(&model.QuizQuestion{}).Where("id = ?", qq.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := s.users.AdjustPoints(tx, userID, delta); err != nil {
			return err
		}

		completed, err := s.finishIfComplete(tx, quiz)
		if err != nil {
			return err
		}

		subjectName = qq.Question.Subject
		result = &AnswerResult{
			Completed:   completed,
			IsCorrect:   isCorrect,
			PointsDelta: delta,
		}
		if !isCorrect {
			result.Hint = picked.Hint
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Completed {
		s.afterQuizCompleted(userID, subjectName)
	}
	return result, nil
}

// Skip 无条件跳过一道题并扣分，已跳过的不重复扣
func (s *QuizService) Skip(quizID string, userID uint, quizQuestionID string) (*SkipResult, error) {
	var result *SkipResult
	var subjectName model.SubjectName

	err := s.quizzes.Mutate(quizID, userID, func(tx *gorm.DB, quiz *model.Quiz) error {
		qq := findQuizQuestion(quiz, quizQuestionID)
		if qq == nil {
			return util.ErrQuestionNotFound
		}
		if qq.Skipped {
			return util.ErrQuestionSkipped
		}

		qq.Skipped = true
		if err := tx.Model(&model.QuizQuestion{}).Where("id = ?", qq.ID).
			Update("skipped", true).Error; err != nil {
			return err
		}
		if err := s.users.AdjustPoints(tx, userID, -float64(qq.Question.Difficulty)); err != nil {
			return err
		}

		completed, err := s.finishIfComplete(tx, quiz)
		if err != nil {
			return err
		}

		subjectName = qq.Question.Subject
		result = &SkipResult{Completed: completed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Completed {
		s.afterQuizCompleted(userID, subjectName)
	}
	return result, nil
}

// finishIfComplete 重算两轮完成标记；两轮都结束时释放 Active 槽位
func (s *QuizService) finishIfComplete(tx *gorm.DB, quiz *model.Quiz) (bool, error) {
	first, second := true, true
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.Skipped {
			continue
		}
		if !q.AnsweredFirstTry {
			first = false
		}
		if !q.AnsweredSecondTry {
			second = false
		}
	}
	second = first && second

	updates := map[string]interface{}{}
	if first && !quiz.CompletedFirstTry {
		quiz.CompletedFirstTry = true
		updates["completed_first_try"] = true
	}
	if second && !quiz.CompletedSecondTry {
		quiz.CompletedSecondTry = true
		updates["completed_second_try"] = true
		updates["active"] = nil
		quiz.Active = nil
	}
	if len(updates) == 0 {
		return second, nil
	}
	return second, tx.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Updates(updates).Error
}

// afterQuizCompleted 测验收口后尝试结算主题完成，失败只记日志
func (s *QuizService) afterQuizCompleted(userID uint, subject model.SubjectName) {
	monitoring.QuizCompletions.WithLabelValues("alternative").Inc()
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

// Summary 返回最近一场已完成首轮的测验，带按轮次记录的作答
func (s *QuizService) Summary(userID uint) (*QuizSummaryView, error) {
	quizzes, err := s.quizzes.ListCompletedFirstTry(userID)
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, util.ErrQuizNotFound
	}

	// 优先还在第二轮的那场，否则取最近一场
	quiz := &quizzes[len(quizzes)-1]
	for i := len(quizzes) - 1; i >= 0; i-- {
		if !quizzes[i].CompletedSecondTry {
			quiz = &quizzes[i]
			break
		}
	}

	view := &QuizSummaryView{
		ID:                 quiz.ID,
		CompletedFirstTry:  quiz.CompletedFirstTry,
		CompletedSecondTry: quiz.CompletedSecondTry,
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		item := QuizSummaryQuestion{
			ID:       q.ID,
			Title:    q.Question.Title,
			Subtitle: q.Question.Subtitle,
			Skipped:  q.Skipped,
			Correct:  q.CorrectOnRecordedTry(),
		}
		if quiz.CompletedSecondTry {
			item.AnsweredTry = q.AnsweredSecondTry
			item.SelectedAnswerTry = q.SelectedAnswerSecondTry
		} else {
			item.AnsweredTry = q.AnsweredFirstTry
			item.SelectedAnswerTry = q.SelectedAnswerFirstTry
		}
		for _, a := range q.Question.Answers {
			item.Answers = append(item.Answers, a.Value)
		}
		view.Questions = append(view.Questions, item)
	}
	return view, nil
}

type QuizSummaryView struct {
	ID                 string                `json:"id"`
	CompletedFirstTry  bool                  `json:"completedFirstTry"`
	CompletedSecondTry bool                  `json:"completedSecondTry"`
	Questions          []QuizSummaryQuestion `json:"questions"`
}

type QuizSummaryQuestion struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Subtitle          string   `json:"subtitle"`
	Answers           []string `json:"answers"`
	AnsweredTry       bool     `json:"answeredTry"`
	SelectedAnswerTry *int     `json:"selectedAnswerTry"`
	Skipped           bool     `json:"skipped"`
	Correct           bool     `json:"correct"`
}

// AddFocusedTime 累计单题专注时长，属于尽力而为的遥测
func (s *QuizService) AddFocusedTime(quizQuestionID string, userID uint, seconds int) error {
	return s.quizzes.AddFocusedTime(quizQuestionID, userID, seconds)
}

func findQuizQuestion(quiz *model.Quiz, id string) *model.QuizQuestion {
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == id {
			return &quiz.Questions[i]
		}
	}
	return nil
}

func buildQuizView(quiz *model.Quiz) *QuizView {
	view := &QuizView{
		ID:                 quiz.ID,
		AmountOfQuestions:  quiz.AmountOfQuestions,
		CompletedFirstTry:  quiz.CompletedFirstTry,
		CompletedSecondTry: quiz.CompletedSecondTry,
		CurrentQuestionIdx: -1,
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		item := QuizQuestionView{
			ID:                      q.ID,
			Position:                q.Position,
			Title:                   q.Question.Title,
			Subtitle:                q.Question.Subtitle,
			AnsweredFirstTry:        q.AnsweredFirstTry,
			SelectedAnswerFirstTry:  q.SelectedAnswerFirstTry,
			AnsweredSecondTry:       q.AnsweredSecondTry,
			SelectedAnswerSecondTry: q.SelectedAnswerSecondTry,
			Skipped:                 q.Skipped,
		}
		for _, a := range q.Question.Answers {
			item.Answers = append(item.Answers, a.Value)
		}
		view.Questions = append(view.Questions, item)

		if view.CurrentQuestionIdx == -1 && !q.Skipped {
			pending := !q.AnsweredFirstTry
			if quiz.CompletedFirstTry {
				pending = !q.AnsweredSecondTry
			}
			if pending {
				view.CurrentQuestionIdx = i
			}
		}
	}
	return view
}
