package service

import (
	"math/rand"
	"strconv"
	"strings"

	"physics_edu_backend/internal/eval"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
)

// InstantiatedQuestion 代入变量后的具体题面与标准答案
type InstantiatedQuestion struct {
	Title    string
	Subtitle string
	Svg      string
	Answer   string
}

// sampler 抽取 [min, max] 内的整数，测试时可替换为固定值
type sampler func(min, max int) int

func randomSampler(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}

// instantiateQuestion 对题目模板做变量代入并求出标准答案。
// 文案字段替换为 prefix+值+suffix 的修饰形式，表达式只替换裸数值。
// 求值失败时返回 EvaluationError，由调用方决定换题还是报错
func instantiateQuestion(q *model.ComplexQuestion, sample sampler) (*InstantiatedQuestion, error) {
	title := q.Title
	subtitle := q.Subtitle
	svg := q.Svg
	equation := q.Equation

	for _, v := range q.Variables {
		min := util.DefaultVariableMin
		max := util.DefaultVariableMax
		if v.Min != nil {
			min = *v.Min
		}
		if v.Max != nil {
			max = *v.Max
		}

		value := sample(min, max)
		raw := strconv.Itoa(value)
		decorated := v.Prefix + raw + v.Suffix
		placeholder := "{" + v.Varname + "}"

		title = strings.ReplaceAll(title, placeholder, decorated)
		subtitle = strings.ReplaceAll(subtitle, placeholder, decorated)
		svg = strings.ReplaceAll(svg, placeholder, decorated)
		equation = strings.ReplaceAll(equation, placeholder, raw)
	}

	answer, err := eval.Evaluate(equation)
	if err != nil {
		return nil, &util.EvaluationError{QuestionID: q.ID, Equation: equation, Err: err}
	}

	return &InstantiatedQuestion{
		Title:    title,
		Subtitle: subtitle,
		Svg:      svg,
		Answer:   strconv.FormatFloat(answer, 'f', -1, 64),
	}, nil
}
