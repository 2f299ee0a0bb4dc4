package database

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/schoolverse/game_backend/internal/config"
	"github.com/schoolverse/game_backend/internal/models"
	"github.com/schoolverse/game_backend/internal/utils"
)

// SeedSampleData populates an empty database with one user per role, a class
// owned by the teacher containing the student, the parent linked to the
// student, three missions and a first progress/playtime entry. No-op when any
// user already exists.
func SeedSampleData(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminPW, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	teacherPW, err := utils.HashPassword("teach123")
	if err != nil {
		return err
	}
	parentPW, err := utils.HashPassword("parent123")
	if err != nil {
		return err
	}
	studentPW, err := utils.HashPassword("timmy123")
	if err != nil {
		return err
	}

	admin := models.User{Username: cfg.AdminUsername, Email: cfg.AdminEmail, PasswordHash: adminPW, Role: models.RoleAdmin}
	teacher := models.User{Username: "Mr.Smith", Email: "smith@school.com", PasswordHash: teacherPW, Role: models.RoleTeacher}
	parent := models.User{Username: "ParentJane", Email: "jane@home.com", PasswordHash: parentPW, Role: models.RoleParent}
	student := models.User{Username: "Timmy", Email: "timmy@home.com", PasswordHash: studentPW, Role: models.RoleStudent}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range []*models.User{&admin, &teacher, &parent, &student} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		class := models.Class{Name: "Algebra 101", TeacherID: teacher.ID}
		if err := tx.Create(&class).Error; err != nil {
			return err
		}

		student.ParentID = &parent.ID
		student.ClassID = &class.ID
		if err := tx.Save(&student).Error; err != nil {
			return err
		}

		missions := []models.Mission{
			{Title: "Tutorial: Movement", LevelReq: 1},
			{Title: "Chapter 1: The Forest", LevelReq: 2},
			{Title: "Chapter 2: The Cave", LevelReq: 5},
		}
		for i := range missions {
			if err := tx.Create(&missions[i]).Error; err != nil {
				return err
			}
		}

		progress := models.MissionProgress{
			UserID:    student.ID,
			MissionID: missions[0].ID,
			Status:    models.MissionCompleted,
			Score:     100,
		}
		if err := tx.Create(&progress).Error; err != nil {
			return err
		}

		today := time.Now().UTC().Truncate(24 * time.Hour)
		playtime := models.PlaytimeLog{UserID: student.ID, Date: today, DurationMinutes: 45}
		if err := tx.Create(&playtime).Error; err != nil {
			return err
		}

		log.Println("Seeded sample data (admin, Mr.Smith, ParentJane, Timmy)")
		return nil
	})
}
