package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 复杂题变量未声明边界时的采样区间
const (
	DefaultVariableMin = 1
	DefaultVariableMax = 100
)

const (
	MinDifficulty = 1
	MaxDifficulty = 10

	// 一份选择题测验的题目数量上下限
	MinQuizQuestions = 3
	MaxQuizQuestions = 4

	// 每道选择题至少要有的备选项数量
	MinAlternativeAnswers = 4
)
