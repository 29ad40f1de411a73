package model

// ComplexQuiz 单题的数值测验，同样用 (user_id, active) 保证唯一进行中
type ComplexQuiz struct {
	UUIDBase
	UserID             uint                `gorm:"not null;uniqueIndex:idx_cquiz_user_active" json:"userId"`
	Active             *bool               `gorm:"uniqueIndex:idx_cquiz_user_active" json:"-"`
	CompletedFirstTry  bool                `gorm:"default:false" json:"completedFirstTry"`
	CompletedSecondTry bool                `gorm:"default:false" json:"completedSecondTry"`
	AnswerHint         string              `gorm:"type:text" json:"answerHint"`
	Question           ComplexQuizQuestion `gorm:"foreignKey:ComplexQuizID" json:"question"`
}

func (ComplexQuiz) TableName() string {
	return "complex_quizzes"
}

// ComplexQuizQuestion 代入变量后的具体题面和标准答案
type ComplexQuizQuestion struct {
	UUIDBase
	ComplexQuizID     string `gorm:"size:36;index;not null" json:"complexQuizId"`
	ComplexQuestionID uint   `gorm:"index;not null" json:"complexQuestionId"`
	Title             string `gorm:"type:text;not null" json:"title"`
	Subtitle          string `gorm:"type:text" json:"subtitle"`
	Svg               string `gorm:"type:text" json:"svg"`
	Answer            string `gorm:"size:64;not null" json:"-"`

	ComplexQuestion ComplexQuestion `gorm:"foreignKey:ComplexQuestionID" json:"-"`
}

func (ComplexQuizQuestion) TableName() string {
	return "complex_quiz_questions"
}
