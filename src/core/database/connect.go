package database

import (
	"fmt"
	"log"

	"github.com/zyntratech-upendra/placements/src/core/config"
	"github.com/zyntratech-upendra/placements/src/core/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

func ConnectDB() {
	host := config.Config("DB_HOST")
	port := config.Config("DB_PORT")
	user := config.Config("DB_USER")
	password := config.Config("DB_PASSWORD")
	dbname := config.Config("DB_NAME")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbname)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: false,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   "",
			SingularTable: false,
		},
	})
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Error migrating the database: %v", err)
	}
	fmt.Println("Database successfully connected!")
}

// Migrate creates the schema. The partial unique index is what makes
// start-attempt find-or-create safe against concurrent requests: only one
// in_progress row can ever exist per (assessment, student).
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.File{},
		&models.Question{},
		&models.Assessment{},
		&models.AssessmentQuestion{},
		&models.AssessmentStudent{},
		&models.Attempt{},
		&models.Answer{},
		&models.Job{},
		&models.InterviewSession{},
		&models.InterviewAnswer{},
	)
	if err != nil {
		return err
	}

	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_attempts_one_in_progress
		ON attempts (assessment_id, student_id) WHERE status = 'in_progress'`).Error
}
