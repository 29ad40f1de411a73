package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

func TestSelectQuestionsOrdersByDistanceToTarget(t *testing.T) {
	pool := []model.AlternativeQuestion{
		{Difficulty: 1},
		{Difficulty: 2},
		{Difficulty: 4},
		{Difficulty: 5},
	}

	got := selectQuestions(pool, 3, 3)
	require.Len(t, got, 3)

	// 距离相同取难度更高的：|4-3| == |2-3|，先 4 后 2
	assert.Equal(t, 4, got[0].Difficulty)
	assert.Equal(t, 2, got[1].Difficulty)
	assert.Equal(t, 5, got[2].Difficulty)
}

func TestSelectQuestionsZeroTargetPicksEasiest(t *testing.T) {
	pool := []model.AlternativeQuestion{
		{Difficulty: 7},
		{Difficulty: 2},
		{Difficulty: 5},
		{Difficulty: 1},
	}

	got := selectQuestions(pool, 0, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 5}, []int{got[0].Difficulty, got[1].Difficulty, got[2].Difficulty})
}

func TestSelectQuestionsClampsToPoolSize(t *testing.T) {
	pool := []model.AlternativeQuestion{{Difficulty: 3}}
	got := selectQuestions(pool, 1, 4)
	assert.Len(t, got, 1)
}

func TestGetCurrentOrNewKeepsSingleActiveQuiz(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)
	for _, d := range []int{2, 3, 4, 5, 6} {
		createAlternativeQuestion(t, env.db, model.SubjectElectricCharges, d)
	}

	view, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)
	require.Len(t, view.Questions, 3)
	assert.Equal(t, 3, view.AmountOfQuestions)
	assert.Equal(t, 0, view.CurrentQuestionIdx)

	// 学生视图只有选项文本，没有正误标记
	require.Len(t, view.Questions[0].Answers, 4)
	assert.Equal(t, "A", view.Questions[0].Answers[0])

	again, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)
	assert.Equal(t, view.ID, again.ID)

	active, err := env.quiz.HasActive(user.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestGetCurrentOrNewNoQuestions(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)

	_, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestGetCurrentOrNewUnknownSubject(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)

	_, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, "thermodynamics", 3)
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}

func TestAnswerScoringAndRetryFlow(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)
	for _, d := range []int{2, 3, 4} {
		createAlternativeQuestion(t, env.db, model.SubjectElectricCharges, d)
	}

	view, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)
	require.Len(t, view.Questions, 3)

	// 积分 0 时按难度升序组卷：d2, d3, d4
	q1, q2, q3 := view.Questions[0], view.Questions[1], view.Questions[2]
	assert.Equal(t, "d2", q1.Title)
	assert.Equal(t, "d3", q2.Title)
	assert.Equal(t, "d4", q3.Title)

	// 首轮答错：-0.85*2，下限 0，返回所选项的提示
	res, err := env.quiz.Answer(view.ID, user.ID, q1.ID, 1)
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.False(t, res.Completed)
	assert.Equal(t, "hint-b", res.Hint)
	assert.InDelta(t, -1.7, res.PointsDelta, 1e-9)
	assert.InDelta(t, 0, userPoints(t, env, user.ID), 1e-9)

	// 二轮答对：+2*0.5
	res, err = env.quiz.Answer(view.ID, user.ID, q1.ID, 0)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Empty(t, res.Hint)
	assert.InDelta(t, 1.0, res.PointsDelta, 1e-9)
	assert.InDelta(t, 1.0, userPoints(t, env, user.ID), 1e-9)

	// 两轮用完后拒绝继续作答
	_, err = env.quiz.Answer(view.ID, user.ID, q1.ID, 0)
	assert.ErrorIs(t, err, util.ErrQuestionLocked)

	// 首轮直接答对：+3，同时收口该题的第二轮
	res, err = env.quiz.Answer(view.ID, user.ID, q2.ID, 0)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.InDelta(t, 3.0, res.PointsDelta, 1e-9)
	assert.InDelta(t, 4.0, userPoints(t, env, user.ID), 1e-9)

	// 跳过：-4，最后一题处理完即整卷完成
	skip, err := env.quiz.Skip(view.ID, user.ID, q3.ID)
	require.NoError(t, err)
	assert.True(t, skip.Completed)
	assert.InDelta(t, 0, userPoints(t, env, user.ID), 1e-9)

	_, err = env.quiz.Skip(view.ID, user.ID, q3.ID)
	assert.ErrorIs(t, err, util.ErrQuestionSkipped)
	_, err = env.quiz.Answer(view.ID, user.ID, q3.ID, 0)
	assert.ErrorIs(t, err, util.ErrQuestionSkipped)

	// 完成后释放唯一进行中槽位
	active, err := env.quiz.HasActive(user.ID)
	require.NoError(t, err)
	assert.False(t, active)

	next, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)
	assert.NotEqual(t, view.ID, next.ID)
}

func TestAnswerInvalidIndex(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)
	createAlternativeQuestion(t, env.db, model.SubjectElectricCharges, 3)

	view, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)
	require.Len(t, view.Questions, 1)

	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[0].ID, 4)
	assert.ErrorIs(t, err, util.ErrInvalidAnswer)
	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[0].ID, -1)
	assert.ErrorIs(t, err, util.ErrInvalidAnswer)

	_, err = env.quiz.Answer(view.ID, user.ID, "no-such-question", 0)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestSkipNeverDropsPointsBelowZero(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 3)
	createAlternativeQuestion(t, env.db, model.SubjectCoulombsForceLaw, 10)

	view, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectCoulombsForceLaw), 3)
	require.NoError(t, err)
	require.Len(t, view.Questions, 1)

	skip, err := env.quiz.Skip(view.ID, user.ID, view.Questions[0].ID)
	require.NoError(t, err)
	assert.True(t, skip.Completed)
	assert.InDelta(t, 0, userPoints(t, env, user.ID), 1e-9)
}

func TestAnswerRejectsForeignQuiz(t *testing.T) {
	env := newTestEnv(t)
	owner := createStudent(t, env.db, 0)
	intruder := createStudent(t, env.db, 0)
	createAlternativeQuestion(t, env.db, model.SubjectElectricCharges, 3)

	view, err := env.quiz.GetCurrentOrNew(context.Background(), owner.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)

	_, err = env.quiz.Answer(view.ID, intruder.ID, view.Questions[0].ID, 0)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestSummaryReportsRecordedTries(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)
	for _, d := range []int{2, 3, 4} {
		createAlternativeQuestion(t, env.db, model.SubjectElectricCharges, d)
	}

	view, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)

	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[0].ID, 1)
	require.NoError(t, err)
	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[0].ID, 0)
	require.NoError(t, err)
	_, err = env.quiz.Answer(view.ID, user.ID, view.Questions[1].ID, 0)
	require.NoError(t, err)
	_, err = env.quiz.Skip(view.ID, user.ID, view.Questions[2].ID)
	require.NoError(t, err)

	summary, err := env.quiz.Summary(user.ID)
	require.NoError(t, err)
	require.Len(t, summary.Questions, 3)
	assert.True(t, summary.CompletedFirstTry)
	assert.True(t, summary.CompletedSecondTry)

	assert.True(t, summary.Questions[0].Correct)
	assert.True(t, summary.Questions[1].Correct)
	assert.True(t, summary.Questions[2].Skipped)
	assert.False(t, summary.Questions[2].Correct)
}

func TestSummaryWithoutCompletedQuiz(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)

	_, err := env.quiz.Summary(user.ID)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestAddFocusedTimeAccumulates(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)
	createAlternativeQuestion(t, env.db, model.SubjectElectricCharges, 3)

	view, err := env.quiz.GetCurrentOrNew(context.Background(), user.ID, string(model.SubjectElectricCharges), 3)
	require.NoError(t, err)

	require.NoError(t, env.quiz.AddFocusedTime(view.Questions[0].ID, user.ID, 30))
	require.NoError(t, env.quiz.AddFocusedTime(view.Questions[0].ID, user.ID, 12))

	var qq model.QuizQuestion
	require.NoError(t, env.db.First(&qq, "id = ?", view.Questions[0].ID).Error)
	assert.Equal(t, 42, qq.FocusedTime)
}
