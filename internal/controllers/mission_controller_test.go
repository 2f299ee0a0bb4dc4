package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/schoolverse/game_backend/internal/models"
)

func TestUpdateMission_CreatesRow(t *testing.T) {
	r, db := newTestEnv(t)
	student := createUser(t, db, "timmy", models.RoleStudent)
	mission := createMission(t, db, "Tutorial")

	rec := doRequest(t, r, http.MethodPost, "/mission/update", gin.H{
		"mission_public_id": mission.PublicID,
		"score":             80,
	}, tokenFor(t, student))
	wantStatus(t, rec, http.StatusOK)

	var progress models.MissionProgress
	if err := db.Where("user_id = ? AND mission_id = ?", student.ID, mission.ID).First(&progress).Error; err != nil {
		t.Fatalf("progress not persisted: %v", err)
	}
	if progress.Score != 80 {
		t.Errorf("score = %d, want 80", progress.Score)
	}
	if progress.Status != models.MissionCompleted {
		t.Errorf("status = %q, want default %q", progress.Status, models.MissionCompleted)
	}
}

func TestUpdateMission_ScoreIsMonotonicStatusIsNot(t *testing.T) {
	r, db := newTestEnv(t)
	student := createUser(t, db, "timmy", models.RoleStudent)
	mission := createMission(t, db, "Tutorial")
	token := tokenFor(t, student)

	rec := doRequest(t, r, http.MethodPost, "/mission/update", gin.H{
		"mission_public_id": mission.PublicID,
		"score":             40,
	}, token)
	wantStatus(t, rec, http.StatusOK)

	// A worse run later: the high score survives, the status does not.
	rec = doRequest(t, r, http.MethodPost, "/mission/update", gin.H{
		"mission_public_id": mission.PublicID,
		"score":             30,
		"status":            models.MissionFailed,
	}, token)
	wantStatus(t, rec, http.StatusOK)

	var rows []models.MissionProgress
	if err := db.Where("user_id = ? AND mission_id = ?", student.ID, mission.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("progress rows = %d, want 1", len(rows))
	}
	if rows[0].Score != 40 {
		t.Errorf("score = %d, want 40 (max kept)", rows[0].Score)
	}
	if rows[0].Status != models.MissionFailed {
		t.Errorf("status = %q, want %q (overwritten)", rows[0].Status, models.MissionFailed)
	}
}

func TestUpdateMission_Validation(t *testing.T) {
	r, db := newTestEnv(t)
	student := createUser(t, db, "timmy", models.RoleStudent)
	token := tokenFor(t, student)

	rec := doRequest(t, r, http.MethodPost, "/mission/update", gin.H{"score": 10}, token)
	wantStatus(t, rec, http.StatusBadRequest)

	rec = doRequest(t, r, http.MethodPost, "/mission/update", gin.H{
		"mission_public_id": "no-such-mission",
		"score":             10,
	}, token)
	wantStatus(t, rec, http.StatusBadRequest)

	mission := createMission(t, db, "Tutorial")
	rec = doRequest(t, r, http.MethodPost, "/mission/update", gin.H{
		"mission_public_id": mission.PublicID,
		"score":             10,
		"status":            "paused",
	}, token)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateMission_RequiresAuth(t *testing.T) {
	r, db := newTestEnv(t)
	mission := createMission(t, db, "Tutorial")

	rec := doRequest(t, r, http.MethodPost, "/mission/update", gin.H{
		"mission_public_id": mission.PublicID,
		"score":             10,
	}, "")
	wantStatus(t, rec, http.StatusUnauthorized)
}
