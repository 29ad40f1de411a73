package service

import (
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
)

const analyticsTopN = 10

// TeacherService 教师端的学情统计
type TeacherService struct {
	users    *repository.UserRepository
	subjects *repository.SubjectRepository
	quizzes  *repository.QuizRepository
}

func NewTeacherService(
	users *repository.UserRepository,
	subjects *repository.SubjectRepository,
	quizzes *repository.QuizRepository,
) *TeacherService {
	return &TeacherService{users: users, subjects: subjects, quizzes: quizzes}
}

// StudentOverview 学生列表里的单行：积分和两类专注时长
type StudentOverview struct {
	ID                    uint    `json:"id"`
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	Points                float64 `json:"points"`
	ContentFocusedSeconds int     `json:"contentFocusedSeconds"`
	QuizFocusedSeconds    int     `json:"quizFocusedSeconds"`
}

// ListStudents 全部学生按积分排序，附专注时长汇总
func (s *TeacherService) ListStudents() ([]StudentOverview, error) {
	students, err := s.users.ListStudents()
	if err != nil {
		return nil, err
	}

	rows := make([]StudentOverview, 0, len(students))
	for _, u := range students {
		contentSeconds, err := s.subjects.ContentFocusedSeconds(u.ID)
		if err != nil {
			return nil, err
		}
		quizSeconds, err := s.subjects.QuizFocusedSeconds(u.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, StudentOverview{
			ID:                    u.ID,
			Name:                  u.Name,
			Email:                 u.Email,
			Points:                u.Points,
			ContentFocusedSeconds: contentSeconds,
			QuizFocusedSeconds:    quizSeconds,
		})
	}
	return rows, nil
}

// StudentDetail 单个学生的学情：榜上名次、主题进度和测验履历
type StudentDetail struct {
	Overview StudentOverview       `json:"overview"`
	Rank     int                   `json:"rank"`
	Subjects []SubjectProgressView `json:"subjects"`
	Quizzes  []StudentQuizRow      `json:"quizzes"`
}

type StudentQuizRow struct {
	ID                 string `json:"id"`
	AmountOfQuestions  int    `json:"amountOfQuestions"`
	CompletedFirstTry  bool   `json:"completedFirstTry"`
	CompletedSecondTry bool   `json:"completedSecondTry"`
	CorrectCount       int    `json:"correctCount"`
	SkippedCount       int    `json:"skippedCount"`
}

// GetStudentDetail 汇总一个学生的全部学情
func (s *TeacherService) GetStudentDetail(userID uint) (*StudentDetail, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	rank, err := s.users.PointsRank(userID)
	if err != nil {
		return nil, err
	}

	contentSeconds, err := s.subjects.ContentFocusedSeconds(userID)
	if err != nil {
		return nil, err
	}
	quizSeconds, err := s.subjects.QuizFocusedSeconds(userID)
	if err != nil {
		return nil, err
	}

	// 进度行是按需补齐的，老账号或新上的主题可能还没有
	if err := s.subjects.EnsureUserSubjects(userID); err != nil {
		return nil, err
	}
	userSubjects, err := s.subjects.ListUserSubjects(userID)
	if err != nil {
		return nil, err
	}
	subjects := make([]SubjectProgressView, 0, len(userSubjects))
	for i, row := range userSubjects {
		canView := row.Completed || i == 0 || userSubjects[i-1].Completed
		subjects = append(subjects, SubjectProgressView{
			ID:          row.SubjectID,
			Name:        row.Subject.Name,
			SpanishName: row.Subject.SpanishName,
			Sequence:    row.Subject.Sequence,
			Completed:   row.Completed,
			CanView:     canView,
		})
	}

	quizzes, err := s.quizzes.ListCompletedFirstTry(userID)
	if err != nil {
		return nil, err
	}
	quizRows := make([]StudentQuizRow, 0, len(quizzes))
	for i := range quizzes {
		q := &quizzes[i]
		row := StudentQuizRow{
			ID:                 q.ID,
			AmountOfQuestions:  q.AmountOfQuestions,
			CompletedFirstTry:  q.CompletedFirstTry,
			CompletedSecondTry: q.CompletedSecondTry,
		}
		for j := range q.Questions {
			if q.Questions[j].Skipped {
				row.SkippedCount++
			} else if q.Questions[j].CorrectOnRecordedTry() {
				row.CorrectCount++
			}
		}
		quizRows = append(quizRows, row)
	}

	return &StudentDetail{
		Overview: StudentOverview{
			ID:                    user.ID,
			Name:                  user.Name,
			Email:                 user.Email,
			Points:                user.Points,
			ContentFocusedSeconds: contentSeconds,
			QuizFocusedSeconds:    quizSeconds,
		},
		Rank:     rank,
		Subjects: subjects,
		Quizzes:  quizRows,
	}, nil
}

// QuestionStat 单道题在作答记录里的命中次数
type QuestionStat struct {
	QuestionID uint   `json:"questionId"`
	Title      string `json:"title"`
	Count      int64  `json:"count"`
}

// QuestionAnalytics 最常被跳过/答对/答错的题目排行
type QuestionAnalytics struct {
	MostSkipped []QuestionStat `json:"mostSkipped"`
	MostCorrect []QuestionStat `json:"mostCorrect"`
	MostWrong   []QuestionStat `json:"mostWrong"`
}

func (s *TeacherService) questionStats(condition string) ([]QuestionStat, error) {
	var stats []QuestionStat
	err := s.quizzes.DB.Model(&model.QuizQuestion{}).
		Select("quiz_questions.question_id AS question_id, alternative_questions.title AS title, COUNT(*) AS count").
		Joins("JOIN alternative_questions ON alternative_questions.id = quiz_questions.question_id").
		Where(condition).
		Group("quiz_questions.question_id, alternative_questions.title").
		Order("count DESC").
		Limit(analyticsTopN).
		Scan(&stats).Error
	return stats, err
}

// GetQuestionAnalytics 按作答记录聚合题目表现，供教师调整题库难度
func (s *TeacherService) GetQuestionAnalytics() (*QuestionAnalytics, error) {
	skipped, err := s.questionStats("quiz_questions.skipped = true")
	if err != nil {
		return nil, err
	}
	correct, err := s.questionStats("quiz_questions.answered_correct_first_try = true")
	if err != nil {
		return nil, err
	}
	wrong, err := s.questionStats("quiz_questions.answered_first_try = true AND quiz_questions.answered_correct_first_try = false")
	if err != nil {
		return nil, err
	}

	return &QuestionAnalytics{
		MostSkipped: skipped,
		MostCorrect: correct,
		MostWrong:   wrong,
	}, nil
}
