package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

func fixedSampler(min, _ int) int { return min }

func intPtr(v int) *int { return &v }

func TestInstantiateQuestion(t *testing.T) {
	q := &model.ComplexQuestion{
		Title:    "V = {x} volts",
		Subtitle: "usa {x} dos veces: {x}",
		Svg:      "<text>{x}</text>",
		Equation: "{x} * 2",
		Variables: []model.ComplexQuestionVariable{
			{Varname: "x", Min: intPtr(1), Max: intPtr(1), Prefix: "~", Suffix: " V"},
		},
	}

	got, err := instantiateQuestion(q, fixedSampler)
	assert.NoError(t, err)
	assert.Equal(t, "V = ~1 V volts", got.Title)
	assert.Equal(t, "usa ~1 V dos veces: ~1 V", got.Subtitle)
	assert.Equal(t, "<text>~1 V</text>", got.Svg)
	assert.Equal(t, "2", got.Answer)
}

func TestInstantiateQuestion_DefaultBounds(t *testing.T) {
	q := &model.ComplexQuestion{
		Title:    "q = {q}",
		Equation: "{q}",
		Variables: []model.ComplexQuestionVariable{
			{Varname: "q"},
		},
	}

	got, err := instantiateQuestion(q, func(min, max int) int {
		assert.Equal(t, util.DefaultVariableMin, min)
		assert.Equal(t, util.DefaultVariableMax, max)
		return 42
	})
	assert.NoError(t, err)
	assert.Equal(t, "q = 42", got.Title)
	assert.Equal(t, "42", got.Answer)
}

func TestInstantiateQuestion_EvaluationError(t *testing.T) {
	q := &model.ComplexQuestion{
		BaseModel: model.BaseModel{ID: 7},
		Title:     "broken",
		Equation:  "{x} / 0",
		Variables: []model.ComplexQuestionVariable{
			{Varname: "x", Min: intPtr(5), Max: intPtr(5)},
		},
	}

	_, err := instantiateQuestion(q, fixedSampler)
	var evalErr *util.EvaluationError
	assert.True(t, errors.As(err, &evalErr))
	assert.Equal(t, uint(7), evalErr.QuestionID)
}

func TestInstantiateQuestion_MultipleVariables(t *testing.T) {
	q := &model.ComplexQuestion{
		Title:    "F entre {q1} y {q2}",
		Equation: "{q1} * {q2}",
		Variables: []model.ComplexQuestionVariable{
			{Varname: "q1", Min: intPtr(3), Max: intPtr(3), Suffix: " C"},
			{Varname: "q2", Min: intPtr(4), Max: intPtr(4), Suffix: " C"},
		},
	}

	got, err := instantiateQuestion(q, fixedSampler)
	assert.NoError(t, err)
	assert.Equal(t, "F entre 3 C y 4 C", got.Title)
	assert.Equal(t, "12", got.Answer)
}

func TestRandomSampler_Bounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := randomSampler(2, 5)
		assert.GreaterOrEqual(t, v, 2)
		assert.LessOrEqual(t, v, 5)
	}
	assert.Equal(t, 9, randomSampler(9, 9))
	assert.Equal(t, 9, randomSampler(9, 3))
}
