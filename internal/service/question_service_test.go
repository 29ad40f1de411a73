package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

func validAlternativeInput() *AlternativeQuestionInput {
	return &AlternativeQuestionInput{
		Subject:    string(model.SubjectElectricCharges),
		Title:      "¿Cuál es la carga del electrón?",
		Difficulty: 3,
		Answers: []AnswerInput{
			{Value: "-1.6e-19 C", IsCorrect: true},
			{Value: "+1.6e-19 C", Hint: "revisa el signo"},
			{Value: "0 C", Hint: "el electrón no es neutro"},
			{Value: "-1 C", Hint: "revisa el orden de magnitud"},
		},
	}
}

func validComplexInput() *ComplexQuestionInput {
	min, max := 1, 10
	return &ComplexQuestionInput{
		Subject:    string(model.SubjectElectricCharges),
		Title:      "Carga total con {n} electrones",
		Svg:        "<svg>{n}</svg>",
		Difficulty: 5,
		Equation:   "{n} * 2",
		Variables: []VariableInput{
			{Varname: "n", Min: &min, Max: &max},
		},
	}
}

func TestCreateAlternativeValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuestionService(env.questions)

	tests := []struct {
		name   string
		mutate func(*AlternativeQuestionInput)
		field  string
	}{
		{
			name:   "unknown subject",
			mutate: func(in *AlternativeQuestionInput) { in.Subject = "alchemy" },
			field:  "subject",
		},
		{
			name:   "missing title",
			mutate: func(in *AlternativeQuestionInput) { in.Title = "" },
			field:  "title",
		},
		{
			name:   "difficulty too high",
			mutate: func(in *AlternativeQuestionInput) { in.Difficulty = 11 },
			field:  "difficulty",
		},
		{
			name:   "difficulty too low",
			mutate: func(in *AlternativeQuestionInput) { in.Difficulty = 0 },
			field:  "difficulty",
		},
		{
			name:   "too few answers",
			mutate: func(in *AlternativeQuestionInput) { in.Answers = in.Answers[:3] },
			field:  "answers",
		},
		{
			name: "no correct answer",
			mutate: func(in *AlternativeQuestionInput) {
				in.Answers[0].IsCorrect = false
				in.Answers[0].Hint = "pista"
			},
			field: "answers",
		},
		{
			name:   "incorrect answer without hint",
			mutate: func(in *AlternativeQuestionInput) { in.Answers[1].Hint = "" },
			field:  "answers[1].hint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validAlternativeInput()
			tt.mutate(input)

			_, err := svc.CreateAlternative(context.Background(), input)
			var verrs util.ValidationErrors
			require.ErrorAs(t, err, &verrs)

			found := false
			for _, fe := range verrs {
				if fe.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected error on field %s, got %v", tt.field, verrs)
		})
	}
}

func TestCreateAlternativePersists(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuestionService(env.questions)

	created, err := svc.CreateAlternative(context.Background(), validAlternativeInput())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetAlternative(created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, 4)
	assert.True(t, got.Answers[0].IsCorrect)
}

func TestCreateComplexValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuestionService(env.questions)

	tests := []struct {
		name   string
		mutate func(*ComplexQuestionInput)
		field  string
	}{
		{
			name:   "missing svg",
			mutate: func(in *ComplexQuestionInput) { in.Svg = "" },
			field:  "svg",
		},
		{
			name:   "missing equation",
			mutate: func(in *ComplexQuestionInput) { in.Equation = "" },
			field:  "equation",
		},
		{
			name: "duplicate varname",
			mutate: func(in *ComplexQuestionInput) {
				in.Variables = append(in.Variables, in.Variables[0])
			},
			field: "variables[1].varname",
		},
		{
			name: "min not below max",
			mutate: func(in *ComplexQuestionInput) {
				five := 5
				in.Variables[0].Min = &five
				in.Variables[0].Max = &five
			},
			field: "variables[0]",
		},
		{
			name:   "unsolvable equation",
			mutate: func(in *ComplexQuestionInput) { in.Equation = "{n} +" },
			field:  "equation",
		},
		{
			name:   "unknown function in equation",
			mutate: func(in *ComplexQuestionInput) { in.Equation = "bogus({n})" },
			field:  "equation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validComplexInput()
			tt.mutate(input)

			_, err := svc.CreateComplex(context.Background(), input)
			var verrs util.ValidationErrors
			require.ErrorAs(t, err, &verrs)

			found := false
			for _, fe := range verrs {
				if fe.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected error on field %s, got %v", tt.field, verrs)
		})
	}
}

func TestUpdateAndSoftDeleteAlternative(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuestionService(env.questions)
	ctx := context.Background()

	created, err := svc.CreateAlternative(ctx, validAlternativeInput())
	require.NoError(t, err)

	input := validAlternativeInput()
	input.Title = "título nuevo"
	updated, err := svc.UpdateAlternative(ctx, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "título nuevo", updated.Title)

	require.NoError(t, svc.DeleteAlternative(ctx, created.ID))

	// 软删除后不再进入选题池
	view, err := svc.ListBySubject(ctx, string(model.SubjectElectricCharges))
	require.NoError(t, err)
	assert.Empty(t, view.Alternative)

	// 但历史记录还能按 ID 查到
	got, err := svc.GetAlternative(created.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
}

func TestListBySubjectEmptyMeansAll(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuestionService(env.questions)
	ctx := context.Background()

	createAlternativeQuestion(t, env.db, model.SubjectElectricCharges, 3)
	createAlternativeQuestion(t, env.db, model.SubjectCoulombsForceLaw, 4)
	createComplexQuestion(t, env.db, model.SubjectElectricCharges, 5, "{x} * 2")

	all, err := svc.ListBySubject(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all.Alternative, 2)
	assert.Len(t, all.Complex, 1)

	one, err := svc.ListBySubject(ctx, string(model.SubjectCoulombsForceLaw))
	require.NoError(t, err)
	assert.Len(t, one.Alternative, 1)
	assert.Empty(t, one.Complex)

	_, err = svc.ListBySubject(ctx, "alchemy")
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}
