package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

func newAuthService(env *testEnv) *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	return NewAuthService(env.users, env.subjectRepo, cfg)
}

func TestRegisterCreatesStudentWithSubjectProgress(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	user := &model.User{Name: "Luis", Email: "luis@example.com", Password: "secreto"}
	require.NoError(t, auth.Register(user))

	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "secreto", user.Password)

	// 注册即补齐全部主题的进度行
	var count int64
	require.NoError(t, env.db.Model(&model.UserSubject{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	require.NoError(t, auth.Register(&model.User{Name: "Luis", Email: "luis@example.com", Password: "secreto"}))

	err := auth.Register(&model.User{Name: "Otro", Email: "luis@example.com", Password: "otra"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	require.NoError(t, auth.Register(&model.User{Name: "Luis", Email: "luis@example.com", Password: "secreto"}))

	token, err := auth.Login("luis@example.com", "secreto")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, model.Student, claims.Role)

	_, err = auth.Login("luis@example.com", "equivocada")
	assert.Error(t, err)
	_, err = auth.Login("nadie@example.com", "secreto")
	assert.Error(t, err)
}

func TestProfileRanksStudentsByPoints(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)

	first := createStudent(t, env.db, 10)
	second := createStudent(t, env.db, 5)

	view, err := svc.Profile(second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Rank)

	view, err = svc.Profile(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Rank)
}

func TestToggleRole(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	user := createStudent(t, env.db, 0)

	toggled, err := svc.ToggleRole(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Teacher, toggled.Role)

	toggled, err = svc.ToggleRole(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Student, toggled.Role)

	// 管理员不受切换影响
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", user.ID).Update("role", model.Admin).Error)
	toggled, err = svc.ToggleRole(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Admin, toggled.Role)
}
