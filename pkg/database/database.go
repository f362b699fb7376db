package database

import (
	"carevo_backend/internal/config"
	"carevo_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate creates the schema and seeds reference data on an empty database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Career{},
		&model.SkillRecord{},
		&model.Gamification{},
		&model.Badge{},
		&model.Roadmap{},
		&model.RoadmapTask{},
		&model.Quiz{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	var count int64
	db.Model(&model.Career{}).Count(&count)
	if count == 0 {
		for _, c := range DefaultCareers() {
			career := c
			if err := db.Create(&career).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// DefaultCareers is the reference data inserted on first migration.
func DefaultCareers() []model.Career {
	return []model.Career{
		{
			Name:               "Software Developer",
			Description:        "Builds and maintains applications and services.",
			AverageSalaryRange: model.SalaryRange{Min: 60000, Max: 140000},
			RequiredSkills:     datatypes.JSONSlice[string]{"javascript", "data structures", "git", "sql", "system design"},
		},
		{
			Name:               "Data Scientist",
			Description:        "Extracts insight from data with statistics and machine learning.",
			AverageSalaryRange: model.SalaryRange{Min: 70000, Max: 150000},
			RequiredSkills:     datatypes.JSONSlice[string]{"python", "statistics", "sql", "machine learning", "data visualization"},
		},
		{
			Name:               "Data Analyst",
			Description:        "Turns business data into reports and dashboards.",
			AverageSalaryRange: model.SalaryRange{Min: 50000, Max: 100000},
			RequiredSkills:     datatypes.JSONSlice[string]{"sql", "excel", "statistics", "data visualization"},
		},
		{
			Name:               "Product Manager",
			Description:        "Owns product direction and delivery.",
			AverageSalaryRange: model.SalaryRange{Min: 75000, Max: 160000},
			RequiredSkills:     datatypes.JSONSlice[string]{"roadmapping", "user research", "analytics", "communication"},
		},
		{
			Name:               "UX Designer",
			Description:        "Designs usable and accessible interfaces.",
			AverageSalaryRange: model.SalaryRange{Min: 55000, Max: 120000},
			RequiredSkills:     datatypes.JSONSlice[string]{"figma", "user research", "prototyping", "accessibility"},
		},
		{
			Name:               "DevOps Engineer",
			Description:        "Automates delivery and runs cloud infrastructure.",
			AverageSalaryRange: model.SalaryRange{Min: 70000, Max: 150000},
			RequiredSkills:     datatypes.JSONSlice[string]{"linux", "docker", "kubernetes", "ci/cd", "cloud"},
		},
		{
			Name:               "Machine Learning Engineer",
			Description:        "Ships machine learning models to production.",
			AverageSalaryRange: model.SalaryRange{Min: 85000, Max: 175000},
			RequiredSkills:     datatypes.JSONSlice[string]{"python", "machine learning", "deep learning", "mlops"},
		},
		{
			Name:               "Cyber Security Analyst",
			Description:        "Protects systems and responds to incidents.",
			AverageSalaryRange: model.SalaryRange{Min: 65000, Max: 135000},
			RequiredSkills:     datatypes.JSONSlice[string]{"networking", "linux", "threat modeling", "incident response"},
		},
		{
			Name:               "Mobile Developer",
			Description:        "Builds iOS and Android applications.",
			AverageSalaryRange: model.SalaryRange{Min: 60000, Max: 135000},
			RequiredSkills:     datatypes.JSONSlice[string]{"kotlin", "swift", "mobile ui", "rest apis"},
		},
	}
}
