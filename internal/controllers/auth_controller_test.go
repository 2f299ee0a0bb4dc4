package controllers_test

import (
	"net/http"
	"testing"

	"github.com/schoolverse/game_backend/internal/models"
)

func TestRegister_DefaultsToStudent(t *testing.T) {
	r, db := newTestEnv(t)

	rec := doRequest(t, r, http.MethodPost, "/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	}, "")
	wantStatus(t, rec, http.StatusCreated)

	var user models.User
	if err := db.Where("username = ?", "alice").First(&user).Error; err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if user.Role != models.RoleStudent {
		t.Errorf("role = %q, want %q", user.Role, models.RoleStudent)
	}
	if user.PublicID == "" {
		t.Error("public_id not assigned")
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in plaintext")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	r, _ := newTestEnv(t)

	body := map[string]any{"username": "bob", "email": "bob@example.com", "password": "password123"}
	wantStatus(t, doRequest(t, r, http.MethodPost, "/auth/register", body, ""), http.StatusCreated)

	body["email"] = "other@example.com"
	rec := doRequest(t, r, http.MethodPost, "/auth/register", body, "")
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestRegister_InvalidRole(t *testing.T) {
	r, _ := newTestEnv(t)

	rec := doRequest(t, r, http.MethodPost, "/auth/register", map[string]any{
		"username": "eve",
		"email":    "eve@example.com",
		"password": "password123",
		"role":     "Wizard",
	}, "")
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestLogin_IssuesToken(t *testing.T) {
	r, _ := newTestEnv(t)

	register := map[string]any{"username": "carol", "email": "carol@example.com", "password": "password123", "role": models.RoleTeacher}
	wantStatus(t, doRequest(t, r, http.MethodPost, "/auth/register", register, ""), http.StatusCreated)

	rec := doRequest(t, r, http.MethodPost, "/auth/login", map[string]any{
		"username": "carol",
		"password": "password123",
	}, "")
	wantStatus(t, rec, http.StatusOK)

	body := decodeMap(t, rec)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatal("no access_token in response")
	}
	if body["role"] != models.RoleTeacher {
		t.Errorf("role = %v, want %q", body["role"], models.RoleTeacher)
	}

	// The issued token must work against a protected endpoint.
	me := doRequest(t, r, http.MethodGet, "/auth/me", nil, token)
	wantStatus(t, me, http.StatusOK)
	if decodeMap(t, me)["username"] != "carol" {
		t.Errorf("me returned wrong user: %s", me.Body.String())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _ := newTestEnv(t)

	register := map[string]any{"username": "dave", "email": "dave@example.com", "password": "password123"}
	wantStatus(t, doRequest(t, r, http.MethodPost, "/auth/register", register, ""), http.StatusCreated)

	rec := doRequest(t, r, http.MethodPost, "/auth/login", map[string]any{
		"username": "dave",
		"password": "wrong",
	}, "")
	wantStatus(t, rec, http.StatusUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	r, _ := newTestEnv(t)

	rec := doRequest(t, r, http.MethodPost, "/auth/login", map[string]any{
		"username": "ghost",
		"password": "password123",
	}, "")
	wantStatus(t, rec, http.StatusUnauthorized)
}

func TestProtectedEndpoint_RequiresToken(t *testing.T) {
	r, _ := newTestEnv(t)

	rec := doRequest(t, r, http.MethodGet, "/auth/me", nil, "")
	wantStatus(t, rec, http.StatusUnauthorized)
}
