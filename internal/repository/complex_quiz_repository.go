package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

type ComplexQuizRepository struct {
	DB *gorm.DB
}

func NewComplexQuizRepository(db *gorm.DB) *ComplexQuizRepository {
	return &ComplexQuizRepository{DB: db}
}

// FindActiveByUser 查找进行中的数值测验
func (r *ComplexQuizRepository) FindActiveByUser(userID uint) (*model.ComplexQuiz, error) {
	var quiz model.ComplexQuiz
	err := r.DB.Preload("Question.ComplexQuestion").
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

// CreateWithQuestion 一次事务写入测验和实例化后的题面
func (r *ComplexQuizRepository) CreateWithQuestion(quiz *model.ComplexQuiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	})
}

// Mutate 加锁读出测验后交给 fn 修改，与选择题测验的写路径一致
func (r *ComplexQuizRepository) Mutate(quizID string, userID uint, fn func(tx *gorm.DB, quiz *model.ComplexQuiz) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		query := tx
		if tx.Dialector.Name() == "mysql" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var quiz model.ComplexQuiz
		err := query.Preload("Question.ComplexQuestion").
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
