package model

// AlternativeQuestion 选择题模板。软删除（Deleted 标记）以保留历史统计
type AlternativeQuestion struct {
	BaseModel
	Subject    SubjectName         `gorm:"size:64;index;not null" json:"subject"`
	Title      string              `gorm:"type:text;not null" json:"title"`
	Subtitle   string              `gorm:"type:text" json:"subtitle"`
	Difficulty int                 `gorm:"not null" json:"difficulty"`
	Deleted    bool                `gorm:"default:false;index" json:"deleted"`
	Answers    []AlternativeAnswer `gorm:"foreignKey:AlternativeQuestionID" json:"answers"`
}

func (AlternativeQuestion) TableName() string {
	return "alternative_questions"
}

// AlternativeAnswer 备选项。错误选项必须带提示（录入时校验）
type AlternativeAnswer struct {
	BaseModel
	AlternativeQuestionID uint   `gorm:"index;not null" json:"questionId"`
	Value                 string `gorm:"type:text;not null" json:"value"`
	Hint                  string `gorm:"type:text" json:"hint"`
	IsCorrect             bool   `gorm:"default:false" json:"isCorrect"`
}

func (AlternativeAnswer) TableName() string {
	return "alternative_answers"
}
