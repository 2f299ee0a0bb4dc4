package controllers_test

import (
	"net/http"
	"testing"

	"github.com/schoolverse/game_backend/internal/models"
)

func TestListUsers_AdminOnly(t *testing.T) {
	r, db := newTestEnv(t)
	teacher := createUser(t, db, "smith", models.RoleTeacher)

	rec := doRequest(t, r, http.MethodGet, "/admin/users", nil, tokenFor(t, teacher))
	wantStatus(t, rec, http.StatusForbidden)
}

func TestListUsers_FilterAndPaginate(t *testing.T) {
	r, db := newTestEnv(t)
	admin := createUser(t, db, "root", models.RoleAdmin)
	createUser(t, db, "smith", models.RoleTeacher)
	createUser(t, db, "alice", models.RoleStudent)
	createUser(t, db, "bob", models.RoleStudent)
	token := tokenFor(t, admin)

	rec := doRequest(t, r, http.MethodGet, "/admin/users?role=Student&sort_by=username&sort_dir=ASC", nil, token)
	wantStatus(t, rec, http.StatusOK)
	body := decodeMap(t, rec)

	data := body["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("data = %d rows, want 2 students", len(data))
	}
	if first := data[0].(map[string]any); first["username"] != "alice" {
		t.Errorf("first row = %v, want alice", first["username"])
	}
	meta := body["meta"].(map[string]any)
	if meta["total"].(float64) != 2 {
		t.Errorf("total = %v, want 2", meta["total"])
	}

	rec = doRequest(t, r, http.MethodGet, "/admin/users?q=SMI", nil, token)
	wantStatus(t, rec, http.StatusOK)
	body = decodeMap(t, rec)
	if data := body["data"].([]any); len(data) != 1 {
		t.Errorf("q=SMI matched %d rows, want 1", len(data))
	}

	rec = doRequest(t, r, http.MethodGet, "/admin/users?role=Wizard", nil, token)
	wantStatus(t, rec, http.StatusBadRequest)
}
