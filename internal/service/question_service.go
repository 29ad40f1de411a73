package service

import (
	"context"
	"fmt"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
)

// QuestionService 教师端题库维护，录入时做逐字段校验
type QuestionService struct {
	questions *repository.QuestionRepository
}

func NewQuestionService(questions *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questions: questions}
}

type AnswerInput struct {
	Value     string `json:"value"`
	Hint      string `json:"hint"`
	IsCorrect bool   `json:"isCorrect"`
}

type AlternativeQuestionInput struct {
	Subject    string        `json:"subject"`
	Title      string        `json:"title"`
	Subtitle   string        `json:"subtitle"`
	Difficulty int           `json:"difficulty"`
	Answers    []AnswerInput `json:"answers"`
}

type VariableInput struct {
	Varname string `json:"varname"`
	Min     *int   `json:"min"`
	Max     *int   `json:"max"`
	Prefix  string `json:"prefix"`
	Suffix  string `json:"suffix"`
}

type ComplexQuestionInput struct {
	Subject    string          `json:"subject"`
	Title      string          `json:"title"`
	Subtitle   string          `json:"subtitle"`
	Svg        string          `json:"svg"`
	Difficulty int             `json:"difficulty"`
	AnswerHint string          `json:"answerHint"`
	Equation   string          `json:"equation"`
	Variables  []VariableInput `json:"variables"`
}

func validateCommon(subject, title string, difficulty int) util.ValidationErrors {
	var errs util.ValidationErrors
	if !model.ValidSubjectName(subject) {
		errs = append(errs, util.FieldError{Field: "subject", Message: "unknown subject"})
	}
	if title == "" {
		errs = append(errs, util.FieldError{Field: "title", Message: "title is required"})
	}
	if difficulty < util.MinDifficulty || difficulty > util.MaxDifficulty {
		errs = append(errs, util.FieldError{
			Field:   "difficulty",
			Message: fmt.Sprintf("difficulty must be between %d and %d", util.MinDifficulty, util.MaxDifficulty),
		})
	}
	return errs
}

func validateAlternative(input *AlternativeQuestionInput) util.ValidationErrors {
	errs := validateCommon(input.Subject, input.Title, input.Difficulty)

	if len(input.Answers) < util.MinAlternativeAnswers {
		errs = append(errs, util.FieldError{
			Field:   "answers",
			Message: fmt.Sprintf("at least %d answers are required", util.MinAlternativeAnswers),
		})
	}

	hasCorrect := false
	for i, a := range input.Answers {
		if a.Value == "" {
			errs = append(errs, util.FieldError{
				Field:   fmt.Sprintf("answers[%d].value", i),
				Message: "answer value is required",
			})
		}
		if a.IsCorrect {
			hasCorrect = true
		} else if a.Hint == "" {
			// 错误选项必须能给学生一条提示
			errs = append(errs, util.FieldError{
				Field:   fmt.Sprintf("answers[%d].hint", i),
				Message: "incorrect answers need a hint",
			})
		}
	}
	if len(input.Answers) > 0 && !hasCorrect {
		errs = append(errs, util.FieldError{Field: "answers", Message: "at least one answer must be correct"})
	}
	return errs
}

func validateComplex(input *ComplexQuestionInput) util.ValidationErrors {
	errs := validateCommon(input.Subject, input.Title, input.Difficulty)

	if input.Svg == "" {
		errs = append(errs, util.FieldError{Field: "svg", Message: "svg is required"})
	}
	if input.Equation == "" {
		errs = append(errs, util.FieldError{Field: "equation", Message: "equation is required"})
	}

	seen := map[string]bool{}
	for i, v := range input.Variables {
		if v.Varname == "" {
			errs = append(errs, util.FieldError{
				Field:   fmt.Sprintf("variables[%d].varname", i),
				Message: "varname is required",
			})
			continue
		}
		if seen[v.Varname] {
			errs = append(errs, util.FieldError{
				Field:   fmt.Sprintf("variables[%d].varname", i),
				Message: "duplicate varname",
			})
		}
		seen[v.Varname] = true

		if v.Min != nil && v.Max != nil && *v.Min >= *v.Max {
			errs = append(errs, util.FieldError{
				Field:   fmt.Sprintf("variables[%d]", i),
				Message: "min must be less than max",
			})
		}
	}

	// 录入时就以下界值试算一遍，把公式错误挡在出题之前
	if len(errs) == 0 {
		template := complexInputToModel(input)
		if _, err := instantiateQuestion(template, func(min, _ int) int { return min }); err != nil {
			errs = append(errs, util.FieldError{Field: "equation", Message: err.Error()})
		}
	}
	return errs
}

func complexInputToModel(input *ComplexQuestionInput) *model.ComplexQuestion {
	q := &model.ComplexQuestion{
		Subject:    model.SubjectName(input.Subject),
		Title:      input.Title,
		Subtitle:   input.Subtitle,
		Svg:        input.Svg,
		Difficulty: input.Difficulty,
		AnswerHint: input.AnswerHint,
		Equation:   input.Equation,
	}
	for _, v := range input.Variables {
		q.Variables = append(q.Variables, model.ComplexQuestionVariable{
			Varname: v.Varname,
			Min:     v.Min,
			Max:     v.Max,
			Prefix:  v.Prefix,
			Suffix:  v.Suffix,
		})
	}
	return q
}

func alternativeInputToModel(input *AlternativeQuestionInput) *model.AlternativeQuestion {
	q := &model.AlternativeQuestion{
		Subject:    model.SubjectName(input.Subject),
		Title:      input.Title,
		Subtitle:   input.Subtitle,
		Difficulty: input.Difficulty,
	}
	for _, a := range input.Answers {
		q.Answers = append(q.Answers, model.AlternativeAnswer{
			Value:     a.Value,
			Hint:      a.Hint,
			IsCorrect: a.IsCorrect,
		})
	}
	return q
}

// CreateAlternative 新建选择题
func (s *QuestionService) CreateAlternative(ctx context.Context, input *AlternativeQuestionInput) (*model.AlternativeQuestion, error) {
	if errs := validateAlternative(input); len(errs) > 0 {
		return nil, errs
	}
	question := alternativeInputToModel(input)
	if err := s.questions.CreateAlternative(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateAlternative 整体覆盖选择题
func (s *QuestionService) UpdateAlternative(ctx context.Context, id uint, input *AlternativeQuestionInput) (*model.AlternativeQuestion, error) {
	if errs := validateAlternative(input); len(errs) > 0 {
		return nil, errs
	}
	existing, err := s.questions.FindAlternativeByID(id)
	if err != nil {
		return nil, err
	}

	question := alternativeInputToModel(input)
	question.ID = existing.ID
	question.Deleted = existing.Deleted
	for i := range question.Answers {
		question.Answers[i].AlternativeQuestionID = existing.ID
	}
	if err := s.questions.UpdateAlternative(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteAlternative 软删除选择题
func (s *QuestionService) DeleteAlternative(ctx context.Context, id uint) error {
	return s.questions.SoftDeleteAlternative(ctx, id)
}

// CreateComplex 新建数值题模板
func (s *QuestionService) CreateComplex(ctx context.Context, input *ComplexQuestionInput) (*model.ComplexQuestion, error) {
	if errs := validateComplex(input); len(errs) > 0 {
		return nil, errs
	}
	question := complexInputToModel(input)
	if err := s.questions.CreateComplex(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateComplex 整体覆盖数值题模板
func (s *QuestionService) UpdateComplex(ctx context.Context, id uint, input *ComplexQuestionInput) (*model.ComplexQuestion, error) {
	if errs := validateComplex(input); len(errs) > 0 {
		return nil, errs
	}
	existing, err := s.questions.FindComplexByID(id)
	if err != nil {
		return nil, err
	}

	question := complexInputToModel(input)
	question.ID = existing.ID
	question.Deleted = existing.Deleted
	for i := range question.Variables {
		question.Variables[i].ComplexQuestionID = existing.ID
	}
	if err := s.questions.UpdateComplex(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteComplex 软删除数值题模板
func (s *QuestionService) DeleteComplex(ctx context.Context, id uint) error {
	return s.questions.SoftDeleteComplex(ctx, id)
}

// SubjectQuestionsView 教师端按主题查看的题目清单
type SubjectQuestionsView struct {
	Alternative []model.AlternativeQuestion `json:"alternative"`
	Complex     []model.ComplexQuestion     `json:"complex"`
}

// ListBySubject 返回某主题（或全部）的两类题目，供教师端浏览
func (s *QuestionService) ListBySubject(ctx context.Context, subject string) (*SubjectQuestionsView, error) {
	if subject != "" && !model.ValidSubjectName(subject) {
		return nil, util.ErrSubjectNotFound
	}

	name := model.SubjectName(subject)
	alternative, err := s.questions.ListAlternativeBySubject(ctx, name)
	if err != nil {
		return nil, err
	}
	complexQuestions, err := s.questions.ListComplexBySubject(ctx, name)
	if err != nil {
		return nil, err
	}
	return &SubjectQuestionsView{Alternative: alternative, Complex: complexQuestions}, nil
}

func (s *QuestionService) GetAlternative(id uint) (*model.AlternativeQuestion, error) {
	return s.questions.FindAlternativeByID(id)
}

func (s *QuestionService) GetComplex(id uint) (*model.ComplexQuestion, error) {
	return s.questions.FindComplexByID(id)
}
