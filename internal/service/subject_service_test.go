package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

func TestListForUserUnlocksInSequence(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)

	views, err := env.subjects.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, views, 5)

	assert.Equal(t, model.SubjectElectricCharges, views[0].Name)
	assert.True(t, views[0].CanView)
	for _, v := range views[1:] {
		assert.False(t, v.CanView, string(v.Name))
	}

	// 完成第一个主题后解锁第二个
	first := subjectByName(t, env.db, model.SubjectElectricCharges)
	require.NoError(t, env.subjectRepo.MarkUserSubjectCompleted(user.ID, first.ID))

	views, err = env.subjects.ListForUser(user.ID)
	require.NoError(t, err)
	assert.True(t, views[0].Completed)
	assert.True(t, views[1].CanView)
	assert.False(t, views[2].CanView)
}

func TestCurrentSubjectName(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)

	name, err := env.subjects.CurrentSubjectName(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubjectElectricCharges, name)

	first := subjectByName(t, env.db, model.SubjectElectricCharges)
	require.NoError(t, env.subjectRepo.MarkUserSubjectCompleted(user.ID, first.ID))

	name, err = env.subjects.CurrentSubjectName(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubjectCoulombsForceLaw, name)
}

func TestGetSubjectLockedAndUnknown(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)

	_, err := env.subjects.GetSubject(user.ID, string(model.SubjectCoulombsForceLaw))
	assert.ErrorIs(t, err, util.ErrSubjectLocked)

	_, err = env.subjects.GetSubject(user.ID, "thermodynamics")
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}

func TestGetSubjectContentCursor(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)
	subject := subjectByName(t, env.db, model.SubjectElectricCharges)
	contents := createContents(t, env.db, subject.ID, 2)

	// 第一次进入：开启第一条内容
	detail, err := env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)
	assert.False(t, detail.Completed)
	require.Len(t, detail.Contents, 1)
	assert.Equal(t, contents[0].ID, detail.Contents[0].ID)

	// 没完成前重复进入回到同一条
	detail, err = env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)
	require.Len(t, detail.Contents, 1)
	assert.Equal(t, contents[0].ID, detail.Contents[0].ID)

	_, err = env.subjects.CompleteContent(user.ID, contents[0].ID)
	require.NoError(t, err)

	// 完成后游标推进到下一条
	detail, err = env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)
	require.Len(t, detail.Contents, 1)
	assert.Equal(t, contents[1].ID, detail.Contents[0].ID)

	_, err = env.subjects.CompleteContent(user.ID, contents[1].ID)
	require.NoError(t, err)

	// 全部学完返回完整内容列表
	detail, err = env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)
	assert.True(t, detail.Completed)
	assert.Len(t, detail.Contents, 2)
}

func TestCompleteContentAwardsPoint(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)
	subject := subjectByName(t, env.db, model.SubjectElectricCharges)
	contents := createContents(t, env.db, subject.ID, 2)

	_, err := env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)

	res, err := env.subjects.CompleteContent(user.ID, contents[0].ID)
	require.NoError(t, err)
	assert.False(t, res.ChangeRoute)
	assert.InDelta(t, 1.0, userPoints(t, env, user.ID), 1e-9)
}

func TestCompleteContentPenalizesRushedFocus(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 5)
	subject := subjectByName(t, env.db, model.SubjectElectricCharges)
	contents := createContents(t, env.db, subject.ID, 2)

	_, err := env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)

	// 120-240 秒之间视为刷进度
	require.NoError(t, env.subjects.AddContentFocusedTime(user.ID, contents[0].ID, 150))

	_, err = env.subjects.CompleteContent(user.ID, contents[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, userPoints(t, env, user.ID), 1e-9)
}

func TestCompleteContentRoutesToQuizOnLastContent(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)
	subject := subjectByName(t, env.db, model.SubjectElectricCharges)
	contents := createContents(t, env.db, subject.ID, 1)

	_, err := env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)

	res, err := env.subjects.CompleteContent(user.ID, contents[0].ID)
	require.NoError(t, err)
	assert.True(t, res.ChangeRoute)
	assert.True(t, strings.HasPrefix(res.GoTo, "/quiz?subject=") || strings.HasPrefix(res.GoTo, "/complex-quiz?subject="), res.GoTo)
	assert.Contains(t, res.GoTo, "subject=electric_charges")
}

func TestCompleteContentRoutesOnPointsMultipleOfThree(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 2)
	subject := subjectByName(t, env.db, model.SubjectElectricCharges)
	contents := createContents(t, env.db, subject.ID, 3)

	_, err := env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)

	// 2 + 1 = 3 分，凑到 3 的倍数也会安排测验
	res, err := env.subjects.CompleteContent(user.ID, contents[0].ID)
	require.NoError(t, err)
	assert.True(t, res.ChangeRoute)
}

func TestMaybeCompleteSubject(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)
	subject := subjectByName(t, env.db, model.SubjectElectricCharges)
	contents := createContents(t, env.db, subject.ID, 2)

	// 还有内容没学完时不结算
	_, err := env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)
	_, err = env.subjects.CompleteContent(user.ID, contents[0].ID)
	require.NoError(t, err)

	require.NoError(t, env.subjects.MaybeCompleteSubject(user.ID, subject.Name))
	views, err := env.subjects.ListForUser(user.ID)
	require.NoError(t, err)
	assert.False(t, views[0].Completed)

	_, err = env.subjects.GetSubject(user.ID, string(subject.Name))
	require.NoError(t, err)
	_, err = env.subjects.CompleteContent(user.ID, contents[1].ID)
	require.NoError(t, err)

	require.NoError(t, env.subjects.MaybeCompleteSubject(user.ID, subject.Name))
	views, err = env.subjects.ListForUser(user.ID)
	require.NoError(t, err)
	assert.True(t, views[0].Completed)
	assert.True(t, views[1].CanView)
}

func TestMaybeCompleteSubjectWithoutContents(t *testing.T) {
	env := newTestEnv(t)
	user := createStudent(t, env.db, 0)

	// 没有内容的主题不会被标记完成
	require.NoError(t, env.subjects.MaybeCompleteSubject(user.ID, model.SubjectElectricCharges))
	views, err := env.subjects.ListForUser(user.ID)
	require.NoError(t, err)
	assert.False(t, views[0].Completed)
}
