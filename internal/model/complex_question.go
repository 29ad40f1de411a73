package model

// ComplexQuestion 参数化数值题模板。标题/副标题/SVG 中的变量占位符
// 在出题时代入随机值，Equation 用同一批值求出标准答案
type ComplexQuestion struct {
	BaseModel
	Subject    SubjectName               `gorm:"size:64;index;not null" json:"subject"`
	Title      string                    `gorm:"type:text;not null" json:"title"`
	Subtitle   string                    `gorm:"type:text" json:"subtitle"`
	Svg        string                    `gorm:"type:text;not null" json:"svg"`
	Difficulty int                       `gorm:"not null" json:"difficulty"`
	AnswerHint string                    `gorm:"type:text" json:"answerHint"`
	Equation   string                    `gorm:"type:text;not null" json:"equation"`
	Deleted    bool                      `gorm:"default:false;index" json:"deleted"`
	Variables  []ComplexQuestionVariable `gorm:"foreignKey:ComplexQuestionID" json:"variables"`
}

func (ComplexQuestion) TableName() string {
	return "complex_questions"
}

// ComplexQuestionVariable 变量声明。Min/Max 缺省时按平台默认区间采样
type ComplexQuestionVariable struct {
	BaseModel
	ComplexQuestionID uint   `gorm:"index;not null" json:"questionId"`
	Varname           string `gorm:"size:64;not null" json:"varname"`
	Min               *int   `json:"min"`
	Max               *int   `json:"max"`
	Prefix            string `gorm:"size:32" json:"prefix"`
	Suffix            string `gorm:"size:32" json:"suffix"`
}

func (ComplexQuestionVariable) TableName() string {
	return "complex_question_variables"
}
