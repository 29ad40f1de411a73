package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

// ListSubjects 按课程顺序返回全部主题
func (r *SubjectRepository) ListSubjects() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Order("sequence").Find(&subjects).Error
	return subjects, err
}

// FindSubjectByName 根据主题名查找
func (r *SubjectRepository) FindSubjectByName(name model.SubjectName) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Where("name = ?", name).First(&subject).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// EnsureUserSubjects 给用户补齐每个主题的进度行，注册和主题扩充后都会调用
func (r *SubjectRepository) EnsureUserSubjects(userID uint) error {
	subjects, err := r.ListSubjects()
	if err != nil {
		return err
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, s := range subjects {
			us := model.UserSubject{UserID: userID, SubjectID: s.ID}
			if err := tx.Where("user_id = ? AND subject_id = ?", userID, s.ID).
				FirstOrCreate(&us).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListUserSubjects 按课程顺序返回用户的主题进度
func (r *SubjectRepository) ListUserSubjects(userID uint) ([]model.UserSubject, error) {
	var rows []model.UserSubject
	err := r.DB.Preload("Subject").
		Joins("JOIN subjects ON subjects.id = user_subjects.subject_id").
		Where("user_subjects.user_id = ?", userID).
		Order("subjects.sequence").
		Find(&rows).Error
	return rows, err
}

// MarkUserSubjectCompleted 标记主题完成，解锁下一个主题
func (r *SubjectRepository) MarkUserSubjectCompleted(userID, subjectID uint) error {
	return r.DB.Model(&model.UserSubject{}).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Update("completed", true).Error
}

// ListContents 返回主题的全部学习内容，按创建顺序
func (r *SubjectRepository) ListContents(subjectID uint) ([]model.SubjectContent, error) {
	var contents []model.SubjectContent
	err := r.DB.Where("subject_id = ?", subjectID).Order("id").Find(&contents).Error
	return contents, err
}

// FindContentByID 根据ID查找学习内容
func (r *SubjectRepository) FindContentByID(id uint) (*model.SubjectContent, error) {
	var content model.SubjectContent
	err := r.DB.First(&content, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

// CreateContent 新增学习内容
func (r *SubjectRepository) CreateContent(content *model.SubjectContent) error {
	return r.DB.Create(content).Error
}

// UpdateContent 更新学习内容
func (r *SubjectRepository) UpdateContent(content *model.SubjectContent) error {
	return r.DB.Save(content).Error
}

// LatestCompletion 返回用户对某内容最近一次的学习记录，没有则返回 nil
func (r *SubjectRepository) LatestCompletion(userID, contentID uint) (*model.SubjectContentCompletion, error) {
	var completion model.SubjectContentCompletion
	err := r.DB.Where("user_id = ? AND subject_content_id = ?", userID, contentID).
		Order("id DESC").
		First(&completion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &completion, nil
}

// StartCompletion 开启一条新的学习记录
func (r *SubjectRepository) StartCompletion(userID, contentID uint, at time.Time) (*model.SubjectContentCompletion, error) {
	completion := &model.SubjectContentCompletion{
		UserID:           userID,
		SubjectContentID: contentID,
		StartedAt:        at,
	}
	if err := r.DB.Create(completion).Error; err != nil {
		return nil, err
	}
	return completion, nil
}

// OpenCompletions 返回该主题下未完成的学习记录，即内容游标的落点
func (r *SubjectRepository) OpenCompletions(userID, subjectID uint) ([]model.SubjectContentCompletion, error) {
	var rows []model.SubjectContentCompletion
	err := r.DB.Preload("Content").
		Joins("JOIN subject_contents ON subject_contents.id = subject_content_completions.subject_content_id").
		Where("subject_content_completions.user_id = ? AND subject_content_completions.completed = ? AND subject_contents.subject_id = ?",
			userID, false, subjectID).
		Order("subject_content_completions.id").
		Find(&rows).Error
	return rows, err
}

// FinishOpenCompletions 把该内容上所有未完成的学习记录标记完成
func (r *SubjectRepository) FinishOpenCompletions(userID, contentID uint, at time.Time) error {
	return r.DB.Model(&model.SubjectContentCompletion{}).
		Where("user_id = ? AND subject_content_id = ? AND completed = ?", userID, contentID, false).
		Updates(map[string]interface{}{
			"completed":   true,
			"finished_at": at,
		}).Error
}

// AddContentFocusedTime 累加学习内容的专注时长
func (r *SubjectRepository) AddContentFocusedTime(contentID, userID uint, seconds int) error {
	return r.DB.Model(&model.SubjectContentCompletion{}).
		Where("subject_content_id = ? AND user_id = ?", contentID, userID).
		Update("total_time_focused", gorm.Expr("total_time_focused + ?", seconds)).Error
}

// CompletedContentIDs 返回用户在该主题下已完成过的内容ID集合
func (r *SubjectRepository) CompletedContentIDs(userID, subjectID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.SubjectContentCompletion{}).
		Joins("JOIN subject_contents ON subject_contents.id = subject_content_completions.subject_content_id").
		Where("subject_content_completions.user_id = ? AND subject_content_completions.completed = ? AND subject_contents.subject_id = ?",
			userID, true, subjectID).
		Distinct().
		Pluck("subject_content_completions.subject_content_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// ContentFocusedSeconds 用户在学习内容上的专注总时长
func (r *SubjectRepository) ContentFocusedSeconds(userID uint) (int, error) {
	var total int64
	err := r.DB.Model(&model.SubjectContentCompletion{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(total_time_focused), 0)").
		Scan(&total).Error
	return int(total), err
}

// QuizFocusedSeconds 用户在测验题目上的专注总时长
func (r *SubjectRepository) QuizFocusedSeconds(userID uint) (int, error) {
	var total int64
	err := r.DB.Model(&model.QuizQuestion{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_questions.quiz_id").
		Where("quizzes.user_id = ?", userID).
		Select("COALESCE(SUM(quiz_questions.focused_time), 0)").
		Scan(&total).Error
	return int(total), err
}
