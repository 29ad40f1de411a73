package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
)

func newTeacherService(env *testEnv) *TeacherService {
	return NewTeacherService(env.users, env.subjectRepo, repository.NewQuizRepository(env.db))
}

func TestListStudentsOrderedByPoints(t *testing.T) {
	env := newTestEnv(t)
	svc := newTeacherService(env)

	low := createStudent(t, env.db, 2)
	high := createStudent(t, env.db, 9)

	// 教师不出现在学生列表里
	teacher := createStudent(t, env.db, 100)
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", teacher.ID).Update("role", model.Teacher).Error)

	rows, err := svc.ListStudents()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, high.ID, rows[0].ID)
	assert.Equal(t, low.ID, rows[1].ID)
}

func TestGetStudentDetail(t *testing.T) {
	env := newTestEnv(t)
	svc := newTeacherService(env)

	user := createStudent(t, env.db, 0)
	for _, d := range []int{2, 3, 4} {
		createAlternativeQuestion(t, env.db, model.SubjectElectricCharges, d)
	}

	view, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)

	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[0].ID, 0)
	require.NoError(t, err)
	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[1].ID, 1)
	require.NoError(t, err)
	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[1].ID, 1)
	require.NoError(t, err)
	_, err = env.quiz.Skip(view.ID, user.ID, view.Questions[2].ID)
	require.NoError(t, err)

	detail, err := svc.GetStudentDetail(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Rank)
	assert.Len(t, detail.Subjects, 5)
	require.Len(t, detail.Quizzes, 1)

	quiz := detail.Quizzes[0]
	assert.True(t, quiz.CompletedSecondTry)
	assert.Equal(t, 1, quiz.CorrectCount)
	assert.Equal(t, 1, quiz.SkippedCount)
}

func TestGetQuestionAnalytics(t *testing.T) {
	env := newTestEnv(t)
	svc := newTeacherService(env)

	user := createStudent(t, env.db, 0)
	for _, d := range []int{2, 3, 4} {
		createAlternativeQuestion(t, env.db, model.SubjectElectricCharges, d)
	}

	view, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)

	// d2 首轮答对，d3 首轮答错，d4 跳过
	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[0].ID, 0)
	require.NoError(t, err)
	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[1].ID, 1)
	require.NoError(t, err)
	_, err = env.quiz.Skip(view.ID, user.ID, view.Questions[2].ID)
	require.NoError(t, err)

	analytics, err := svc.GetQuestionAnalytics()
	require.NoError(t, err)

	require.Len(t, analytics.MostCorrect, 1)
	assert.Equal(t, "d2", analytics.MostCorrect[0].Title)
	require.Len(t, analytics.MostWrong, 1)
	assert.Equal(t, "d3", analytics.MostWrong[0].Title)
	require.Len(t, analytics.MostSkipped, 1)
	assert.Equal(t, "d4", analytics.MostSkipped[0].Title)
}
