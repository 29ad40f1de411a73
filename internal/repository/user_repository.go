package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create 创建用户
func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update 更新用户
func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// AdjustPoints 原子调整积分，结果向下不越过 0。
// 传入的 db 可以是事务句柄，让积分变动和作答记录同批提交
func (r *UserRepository) AdjustPoints(db *gorm.DB, userID uint, delta float64) error {
	return db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr(
			"CASE WHEN points + ? < 0 THEN 0 ELSE points + ? END", delta, delta,
		)).Error
}

// UpdateLastSeen 记录最近活跃时间
func (r *UserRepository) UpdateLastSeen(userID uint, at time.Time) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_seen":       at,
			"last_connection": at,
		}).Error
}

// ListStudents 列出全部学生账号
func (r *UserRepository) ListStudents() ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("role = ?", model.Student).
		Order("points DESC").
		Find(&users).Error
	return users, err
}

// PointsRank 返回该用户在学生榜上的名次，从 1 开始
func (r *UserRepository) PointsRank(userID uint) (int, error) {
	user, err := r.FindByID(userID)
	if err != nil {
		return 0, err
	}

	var ahead int64
	err = r.DB.Model(&model.User{}).
		Where("role = ? AND points > ?", model.Student, user.Points).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}
