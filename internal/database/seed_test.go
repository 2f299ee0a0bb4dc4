package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolverse/game_backend/internal/config"
	"github.com/schoolverse/game_backend/internal/models"
)

var seedDBCounter uint64

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	id := atomic.AddUint64(&seedDBCounter, 1)
	dsn := fmt.Sprintf("file:seedtest%d?mode=memory&cache=shared", id)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedSampleData(t *testing.T) {
	db := newSeedTestDB(t)
	cfg := &config.Config{AdminUsername: "admin", AdminEmail: "admin@game.com", AdminPassword: "admin123"}

	if err := SeedSampleData(db, cfg); err != nil {
		t.Fatalf("SeedSampleData: %v", err)
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 4 {
		t.Errorf("users = %d, want 4 (one per role)", users)
	}

	var student models.User
	if err := db.Where("role = ?", models.RoleStudent).First(&student).Error; err != nil {
		t.Fatalf("student not seeded: %v", err)
	}
	if student.ParentID == nil {
		t.Error("seeded student has no parent link")
	}
	if student.ClassID == nil {
		t.Error("seeded student has no class")
	} else {
		var class models.Class
		if err := db.First(&class, *student.ClassID).Error; err != nil {
			t.Fatalf("seeded class missing: %v", err)
		}
		var teacher models.User
		if err := db.First(&teacher, class.TeacherID).Error; err != nil || teacher.Role != models.RoleTeacher {
			t.Errorf("class teacher invalid: %v (role=%s)", err, teacher.Role)
		}
	}

	var missions int64
	if err := db.Model(&models.Mission{}).Count(&missions).Error; err != nil {
		t.Fatalf("count missions: %v", err)
	}
	if missions != 3 {
		t.Errorf("missions = %d, want 3", missions)
	}
}

func TestSeedSampleData_Idempotent(t *testing.T) {
	db := newSeedTestDB(t)
	cfg := &config.Config{AdminUsername: "admin", AdminEmail: "admin@game.com", AdminPassword: "admin123"}

	if err := SeedSampleData(db, cfg); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := SeedSampleData(db, cfg); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 4 {
		t.Errorf("users = %d after reseed, want 4", users)
	}
}
