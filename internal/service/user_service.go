package service

import (
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
)

// UserService 处理用户相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// ProfileView 个人主页：账号信息加学生榜名次
type ProfileView struct {
	User *model.User `json:"user"`
	Rank int         `json:"rank"`
}

// Profile 返回个人信息。教师账号不参与排行，Rank 为 0
func (s *UserService) Profile(userID uint) (*ProfileView, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{User: user}
	if user.Role == model.Student {
		rank, err := s.UserRepo.PointsRank(userID)
		if err != nil {
			return nil, err
		}
		view.Rank = rank
	}
	return view, nil
}

// ToggleRole 在学生和教师之间切换角色，管理员不受影响
func (s *UserService) ToggleRole(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case model.Student:
		user.Role = model.Teacher
	case model.Teacher:
		user.Role = model.Student
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
