package model

// Quiz 一次选择题测验。Active 进行中为 1、结束后置 NULL，
// 配合 (user_id, active) 唯一索引保证每个用户同时只有一场进行中的测验
type Quiz struct {
	UUIDBase
	UserID             uint           `gorm:"not null;uniqueIndex:idx_quiz_user_active" json:"userId"`
	Active             *bool          `gorm:"uniqueIndex:idx_quiz_user_active" json:"-"`
	AmountOfQuestions  int            `gorm:"not null" json:"amountOfQuestions"`
	CompletedFirstTry  bool           `gorm:"default:false" json:"completedFirstTry"`
	CompletedSecondTry bool           `gorm:"default:false" json:"completedSecondTry"`
	Questions          []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 测验内单题的作答状态。Position 固定了题目顺序；
// 跳过后不再参与两轮作答的剩余计数
type QuizQuestion struct {
	UUIDBase
	QuizID                   string `gorm:"size:36;index;not null" json:"quizId"`
	QuestionID               uint   `gorm:"index;not null" json:"questionId"`
	Position                 int    `gorm:"not null" json:"position"`
	AnsweredFirstTry         bool   `gorm:"default:false" json:"answeredFirstTry"`
	SelectedAnswerFirstTry   *int   `json:"selectedAnswerFirstTry"`
	AnsweredCorrectFirstTry  *bool  `json:"answeredCorrectFirstTry"`
	AnsweredSecondTry        bool   `gorm:"default:false" json:"answeredSecondTry"`
	SelectedAnswerSecondTry  *int   `json:"selectedAnswerSecondTry"`
	AnsweredCorrectSecondTry *bool  `json:"answeredCorrectSecondTry"`
	Skipped                  bool   `gorm:"default:false" json:"skipped"`
	FocusedTime              int    `gorm:"default:0" json:"focusedTime"`

	Question AlternativeQuestion `gorm:"foreignKey:QuestionID" json:"question"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// CorrectOnRecordedTry 按最后记录的一轮判断该题是否答对
func (q *QuizQuestion) CorrectOnRecordedTry() bool {
	if q.AnsweredSecondTry {
		return q.AnsweredCorrectSecondTry != nil && *q.AnsweredCorrectSecondTry
	}
	if q.AnsweredFirstTry {
		return q.AnsweredCorrectFirstTry != nil && *q.AnsweredCorrectFirstTry
	}
	return false
}
