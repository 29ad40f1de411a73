package database

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/model"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate 迁移全部表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Subject{},
		&model.UserSubject{},
		&model.SubjectContent{},
		&model.SubjectContentCompletion{},
		&model.AlternativeQuestion{},
		&model.AlternativeAnswer{},
		&model.ComplexQuestion{},
		&model.ComplexQuestionVariable{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.ComplexQuiz{},
		&model.ComplexQuizQuestion{},
	)
}

// SeedSubjects 课程主题目录，首次启动时按教学顺序落库
func SeedSubjects(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Subject{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	subjects := []model.Subject{
		{Name: model.SubjectElectricCharges, SpanishName: "Cargas eléctricas", Sequence: 1},
		{Name: model.SubjectCoulombsForceLaw, SpanishName: "Ley de fuerzas de Coulomb", Sequence: 2},
		{Name: model.SubjectElectricField, SpanishName: "Campo eléctrico de cargas puntuales", Sequence: 3},
		{Name: model.SubjectFieldLines, SpanishName: "Líneas de campo y superficies equipotenciales", Sequence: 4},
		{Name: model.SubjectElectricDipole, SpanishName: "Dipolo eléctrico", Sequence: 5},
	}
	for i := range subjects {
		if err := db.Create(&subjects[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
