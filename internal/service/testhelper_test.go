package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/pkg/database"
	"physics_edu_backend/pkg/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

var testDBSeq int64

// newTestDB 每个测试一个独立的内存库，结构和主题目录与生产一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedSubjects(db))
	return db
}

type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	questions   *repository.QuestionRepository
	subjectRepo *repository.SubjectRepository
	subjects    *SubjectService
	quiz        *QuizService
	complexQuiz *ComplexQuizService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	questions := repository.NewQuestionRepository(db, nil)
	subjectRepo := repository.NewSubjectRepository(db)
	subjects := NewSubjectService(subjectRepo, users)

	return &testEnv{
		db:          db,
		users:       users,
		questions:   questions,
		subjectRepo: subjectRepo,
		subjects:    subjects,
		quiz:        NewQuizService(repository.NewQuizRepository(db), questions, users, subjects),
		complexQuiz: NewComplexQuizService(repository.NewComplexQuizRepository(db), questions, users, subjects),
	}
}

func createStudent(t *testing.T, db *gorm.DB, points float64) *model.User {
	t.Helper()

	user := &model.User{
		Name:     "Ana",
		Email:    fmt.Sprintf("ana%d@example.com", atomic.AddInt64(&testDBSeq, 1)),
		Password: "secret",
		Role:     model.Student,
		Points:   points,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createAlternativeQuestion 出一道四选一，第一个选项正确，其余带提示
func createAlternativeQuestion(t *testing.T, db *gorm.DB, subject model.SubjectName, difficulty int) *model.AlternativeQuestion {
	t.Helper()

	q := &model.AlternativeQuestion{
		Subject:    subject,
		Title:      fmt.Sprintf("d%d", difficulty),
		Difficulty: difficulty,
		Answers: []model.AlternativeAnswer{
			{Value: "A", IsCorrect: true},
			{Value: "B", Hint: "hint-b"},
			{Value: "C", Hint: "hint-c"},
			{Value: "D", Hint: "hint-d"},
		},
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

// createComplexQuestion 单变量模板，x 固定取 3
func createComplexQuestion(t *testing.T, db *gorm.DB, subject model.SubjectName, difficulty int, equation string) *model.ComplexQuestion {
	t.Helper()

	three := 3
	q := &model.ComplexQuestion{
		Subject:    subject,
		Title:      "F = {x}",
		Subtitle:   "calcula",
		Svg:        "<svg>{x}</svg>",
		Difficulty: difficulty,
		AnswerHint: "usa la ley de Coulomb",
		Equation:   equation,
		Variables: []model.ComplexQuestionVariable{
			{Varname: "x", Min: &three, Max: &three, Suffix: " N"},
		},
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func subjectByName(t *testing.T, db *gorm.DB, name model.SubjectName) *model.Subject {
	t.Helper()

	var subject model.Subject
	require.NoError(t, db.Where("name = ?", name).First(&subject).Error)
	return &subject
}

func createContents(t *testing.T, db *gorm.DB, subjectID uint, n int) []model.SubjectContent {
	t.Helper()

	contents := make([]model.SubjectContent, 0, n)
	for i := 0; i < n; i++ {
		c := model.SubjectContent{
			SubjectID: subjectID,
			Title:     fmt.Sprintf("contenido %d", i+1),
			Body:      "texto",
		}
		require.NoError(t, db.Create(&c).Error)
		contents = append(contents, c)
	}
	return contents
}

func userPoints(t *testing.T, env *testEnv, userID uint) float64 {
	t.Helper()

	user, err := env.users.FindByID(userID)
	require.NoError(t, err)
	return user.Points
}
