package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolverse/game_backend/internal/config"
	"github.com/schoolverse/game_backend/internal/database"
	"github.com/schoolverse/game_backend/internal/middleware"
	"github.com/schoolverse/game_backend/internal/models"
	"github.com/schoolverse/game_backend/internal/routes"
)

const testSecret = "controller-test-secret"

var testDBCounter uint64

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestEnv builds a router over a unique in-memory SQLite database. The
// shared-cache named DSN keeps every pooled connection on the same tables.
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	id := atomic.AddUint64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:ctrltest%d?mode=memory&cache=shared", id)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("newTestEnv: open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("newTestEnv: migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: testSecret, JWTExpiresIn: "60"}
	r := gin.New()
	routes.Register(r, db, cfg)
	return r, db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("createUser %s: %v", username, err)
	}
	return user
}

func createClass(t *testing.T, db *gorm.DB, name string, teacherID uint) models.Class {
	t.Helper()
	class := models.Class{Name: name, TeacherID: teacherID}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("createClass %s: %v", name, err)
	}
	return class
}

func enroll(t *testing.T, db *gorm.DB, student *models.User, classID uint) {
	t.Helper()
	student.ClassID = &classID
	if err := db.Save(student).Error; err != nil {
		t.Fatalf("enroll %s: %v", student.Username, err)
	}
}

func createMission(t *testing.T, db *gorm.DB, title string) models.Mission {
	t.Helper()
	mission := models.Mission{Title: title, LevelReq: 1}
	if err := db.Create(&mission).Error; err != nil {
		t.Fatalf("createMission %s: %v", title, err)
	}
	return mission
}

func createProgress(t *testing.T, db *gorm.DB, userID, missionID uint, status string, score int) {
	t.Helper()
	progress := models.MissionProgress{UserID: userID, MissionID: missionID, Status: status, Score: score}
	if err := db.Create(&progress).Error; err != nil {
		t.Fatalf("createProgress: %v", err)
	}
}

// tokenFor signs a token the same way the login endpoint does.
func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	now := time.Now().UTC()
	claims := middleware.Claims{
		UserID: user.PublicID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("tokenFor: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("doRequest: encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decodeMap: %v (body: %s)", err, rec.Body.String())
	}
	return out
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
