package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

const questionCacheTTL = 10 * time.Minute

// QuestionRepository 题库访问层。RDB 可为 nil，此时跳过缓存直接查库
type QuestionRepository struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewQuestionRepository(db *gorm.DB, rdb *redis.Client) *QuestionRepository {
	return &QuestionRepository{DB: db, RDB: rdb}
}

func alternativeCacheKey(subject model.SubjectName) string {
	if subject == "" {
		subject = "_all"
	}
	return fmt.Sprintf("questions:alternative:%s", subject)
}

func complexCacheKey(subject model.SubjectName) string {
	if subject == "" {
		subject = "_all"
	}
	return fmt.Sprintf("questions:complex:%s", subject)
}

func bySubject(db *gorm.DB, subject model.SubjectName) *gorm.DB {
	query := db.Where("deleted = ?", false)
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	return query
}

// ListAlternativeBySubject 返回某主题下全部未删除的选择题，含选项。
// subject 为空表示不限主题
func (r *QuestionRepository) ListAlternativeBySubject(ctx context.Context, subject model.SubjectName) ([]model.AlternativeQuestion, error) {
	var questions []model.AlternativeQuestion

	if r.RDB != nil {
		cached, err := r.RDB.Get(ctx, alternativeCacheKey(subject)).Bytes()
		if err == nil && json.Unmarshal(cached, &questions) == nil {
			return questions, nil
		}
	}

	err := bySubject(r.DB.Preload("Answers"), subject).Find(&questions).Error
	if err != nil {
		return nil, err
	}

	if r.RDB != nil {
		if data, err := json.Marshal(questions); err == nil {
			r.RDB.Set(ctx, alternativeCacheKey(subject), data, questionCacheTTL)
		}
	}
	return questions, nil
}

// ListComplexBySubject 返回某主题下全部未删除的数值题模板，含变量声明
func (r *QuestionRepository) ListComplexBySubject(ctx context.Context, subject model.SubjectName) ([]model.ComplexQuestion, error) {
	var questions []model.ComplexQuestion

	if r.RDB != nil {
		cached, err := r.RDB.Get(ctx, complexCacheKey(subject)).Bytes()
		if err == nil && json.Unmarshal(cached, &questions) == nil {
			return questions, nil
		}
	}

	err := bySubject(r.DB.Preload("Variables"), subject).Find(&questions).Error
	if err != nil {
		return nil, err
	}

	if r.RDB != nil {
		if data, err := json.Marshal(questions); err == nil {
			r.RDB.Set(ctx, complexCacheKey(subject), data, questionCacheTTL)
		}
	}
	return questions, nil
}

func (r *QuestionRepository) invalidate(ctx context.Context, subject model.SubjectName) {
	if r.RDB != nil {
		r.RDB.Del(ctx,
			alternativeCacheKey(subject), complexCacheKey(subject),
			alternativeCacheKey(""), complexCacheKey(""))
	}
}

// FindAlternativeByID 根据ID查找选择题
func (r *QuestionRepository) FindAlternativeByID(id uint) (*model.AlternativeQuestion, error) {
	var question model.AlternativeQuestion
	err := r.DB.Preload("Answers").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// FindComplexByID 根据ID查找数值题模板
func (r *QuestionRepository) FindComplexByID(id uint) (*model.ComplexQuestion, error) {
	var question model.ComplexQuestion
	err := r.DB.Preload("Variables").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// CreateAlternative 创建选择题并级联写入选项
func (r *QuestionRepository) CreateAlternative(ctx context.Context, question *model.AlternativeQuestion) error {
	if err := r.DB.Create(question).Error; err != nil {
		return err
	}
	r.invalidate(ctx, question.Subject)
	return nil
}

// UpdateAlternative 整体覆盖题干和选项
func (r *QuestionRepository) UpdateAlternative(ctx context.Context, question *model.AlternativeQuestion) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("alternative_question_id = ?", question.ID).
			Delete(&model.AlternativeAnswer{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(question).Error
	})
	if err != nil {
		return err
	}
	r.invalidate(ctx, question.Subject)
	return nil
}

// CreateComplex 创建数值题模板并级联写入变量
func (r *QuestionRepository) CreateComplex(ctx context.Context, question *model.ComplexQuestion) error {
	if err := r.DB.Create(question).Error; err != nil {
		return err
	}
	r.invalidate(ctx, question.Subject)
	return nil
}

// UpdateComplex 整体覆盖模板和变量声明
func (r *QuestionRepository) UpdateComplex(ctx context.Context, question *model.ComplexQuestion) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complex_question_id = ?", question.ID).
			Delete(&model.ComplexQuestionVariable{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(question).Error
	})
	if err != nil {
		return err
	}
	r.invalidate(ctx, question.Subject)
	return nil
}

// SoftDeleteAlternative 标记删除，历史测验仍可引用
func (r *QuestionRepository) SoftDeleteAlternative(ctx context.Context, id uint) error {
	question, err := r.FindAlternativeByID(id)
	if err != nil {
		return err
	}
	if err := r.DB.Model(question).Update("deleted", true).Error; err != nil {
		return err
	}
	r.invalidate(ctx, question.Subject)
	return nil
}

// SoftDeleteComplex 标记删除数值题模板
func (r *QuestionRepository) SoftDeleteComplex(ctx context.Context, id uint) error {
	question, err := r.FindComplexByID(id)
	if err != nil {
		return err
	}
	if err := r.DB.Model(question).Update("deleted", true).Error; err != nil {
		return err
	}
	r.invalidate(ctx, question.Subject)
	return nil
}

// ListAlternativeAll 教师端题目列表，含已删除标记
func (r *QuestionRepository) ListAlternativeAll() ([]model.AlternativeQuestion, error) {
	var questions []model.AlternativeQuestion
	err := r.DB.Preload("Answers").Order("subject, difficulty").Find(&questions).Error
	return questions, err
}

// ListComplexAll 教师端数值题列表
func (r *QuestionRepository) ListComplexAll() ([]model.ComplexQuestion, error) {
	var questions []model.ComplexQuestion
	err := r.DB.Preload("Variables").Order("subject, difficulty").Find(&questions).Error
	return questions, err
}
