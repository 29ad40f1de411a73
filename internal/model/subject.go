package model

import (
	"time"
)

type SubjectName string

// 课程单元，按 Sequence 顺序解锁
const (
	SubjectElectricCharges  SubjectName = "electric_charges"
	SubjectCoulombsForceLaw SubjectName = "coulombs_force_law"
	SubjectElectricField    SubjectName = "electric_field_of_point_charges"
	SubjectFieldLines       SubjectName = "field_lines_and_equipotential_surfaces"
	SubjectElectricDipole   SubjectName = "electric_dipole"
)

func ValidSubjectName(s string) bool {
	switch SubjectName(s) {
	case SubjectElectricCharges, SubjectCoulombsForceLaw, SubjectElectricField,
		SubjectFieldLines, SubjectElectricDipole:
		return true
	}
	return false
}

// swagger:model Subject
type Subject struct {
	BaseModel
	Name        SubjectName `gorm:"size:64;uniqueIndex;not null" json:"name"`
	SpanishName string      `gorm:"size:128" json:"spanishName"`
	Sequence    int         `gorm:"not null" json:"sequence"`
}

func (Subject) TableName() string {
	return "subjects"
}

// UserSubject 记录用户对某个单元的完成状态，canView 由顺序推导，不落库
type UserSubject struct {
	BaseModel
	UserID    uint    `gorm:"index:idx_user_subject,unique;not null" json:"userId"`
	SubjectID uint    `gorm:"index:idx_user_subject,unique;not null" json:"subjectId"`
	Completed bool    `gorm:"default:false" json:"completed"`
	Subject   Subject `gorm:"foreignKey:SubjectID" json:"subject"`
}

func (UserSubject) TableName() string {
	return "user_subjects"
}

// SubjectContent 单元内按 ID 顺序学习的内容
type SubjectContent struct {
	BaseModel
	SubjectID uint   `gorm:"index;not null" json:"subjectId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Body      string `gorm:"type:text" json:"body"`
	VideoURL  string `gorm:"size:255" json:"videoUrl"`
}

func (SubjectContent) TableName() string {
	return "subject_contents"
}

// SubjectContentCompletion 用户对单个内容的学习记录，
// TotalTimeFocused 为尽力而为的专注时长遥测（秒）
type SubjectContentCompletion struct {
	BaseModel
	UserID           uint           `gorm:"index:idx_user_content" json:"userId"`
	SubjectContentID uint           `gorm:"index:idx_user_content" json:"subjectContentId"`
	Completed        bool           `gorm:"default:false" json:"completed"`
	StartedAt        time.Time      `json:"startedAt"`
	FinishedAt       *time.Time     `json:"finishedAt"`
	TotalTimeFocused int            `gorm:"default:0" json:"totalTimeFocused"`
	Content          SubjectContent `gorm:"foreignKey:SubjectContentID" json:"content"`
}

func (SubjectContentCompletion) TableName() string {
	return "subject_content_completions"
}
