package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func preloadQuizQuestions(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("quiz_questions.position")
		}).
		Preload("Questions.Question.Answers")
}

// FindActiveByUser 查找进行中的测验，题目按位置排好序
func (r *QuizRepository) FindActiveByUser(userID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := preloadQuizQuestions(r.DB).
		Where("user_id = ? AND active = ?", userID, true).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// CreateWithQuestions 一次事务写入测验和全部题目。
// (user_id, active) 唯一索引冲突由调用方识别并重读当前测验
func (r *QuizRepository) CreateWithQuestions(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	})
}

// Mutate 在事务里按用户校验归属后加锁读出测验，交给 fn 修改并保存。
// MySQL 下用 FOR UPDATE 串行化同一测验的并发作答
func (r *QuizRepository) Mutate(quizID string, userID uint, fn func(tx *gorm.DB, quiz *model.Quiz) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		query := tx
		if tx.Dialector.Name() == "mysql" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var quiz model.Quiz
		err := preloadQuizQuestions(query).
			Where("id = ? AND user_id = ?", quizID, userID).
			First(&quiz).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrQuizNotFound
			}
			return err
		}

		return fn(tx, &quiz)
	})
}

// ListCompletedFirstTry 历史测验汇总用，只取已完成第一轮的
func (r *QuizRepository) ListCompletedFirstTry(userID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := preloadQuizQuestions(r.DB).
		Where("user_id = ? AND completed_first_try = ?", userID, true).
		Order("created_at").
		Find(&quizzes).Error
	return quizzes, err
}

// AddFocusedTime 累加单题的专注时长，尽力而为
func (r *QuizRepository) AddFocusedTime(quizQuestionID string, userID uint, seconds int) error {
	return r.DB.Model(&model.QuizQuestion{}).
		Where("quiz_questions.id = ? AND quiz_id IN (?)",
			quizQuestionID,
			r.DB.Model(&model.Quiz{}).Select("id").Where("user_id = ?", userID),
		).
		Update("focused_time", gorm.Expr("focused_time + ?", seconds)).Error
}
