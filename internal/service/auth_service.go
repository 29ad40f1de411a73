package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
)

type AuthService struct {
	UserRepo    *repository.UserRepository
	SubjectRepo *repository.SubjectRepository
	Cfg         *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, subjectRepo *repository.SubjectRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		SubjectRepo: subjectRepo,
		Cfg:         cfg,
	}
}

// Register 注册学生账号并补齐每个主题的进度行
func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, util.ErrUserNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = model.Student
	}

	if err := s.UserRepo.Create(user); err != nil {
		return err
	}
	return s.SubjectRepo.EnsureUserSubjects(user.ID)
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
