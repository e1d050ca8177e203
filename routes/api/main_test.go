package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"viemind/config"
	"viemind/database"
	"viemind/i18n"
	"viemind/models"
	"viemind/realtime"
	"viemind/services"
	"viemind/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine *gin.Engine
	store  *database.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.OpenSQLite(dsn, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := utils.RegisterValidators(); err != nil {
		t.Fatalf("validators: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:            "test-secret",
		TokenTTL:             time.Hour,
		DefaultLocale:        "vi",
		UploadURLPrefix:      "/uploads",
		MaxUploadBytes:       1024,
		FeaturedLimit:        6,
		LeaderboardLimit:     20,
		UserLeaderboardLimit: 10,
		RateLimit:            config.RateLimitConfig{APIRate: 10000, APIBurst: 10000, AuthRate: 1000, AuthBurst: 1000},
	}

	files, err := services.NewLocalFileStore(t.TempDir(), cfg.UploadURLPrefix)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := database.NewStore(db)
	translator := i18n.NewTranslator(cfg.DefaultLocale)
	hub := realtime.NewHub([]string{"*"})
	go hub.Run(ctx)
	auth := services.NewAuthService(cfg, store, nil, nil)

	engine := gin.New()
	Register(ctx, engine, Dependencies{
		Config:        cfg,
		Store:         store,
		Translator:    translator,
		Hub:           hub,
		Auth:          auth,
		Competitions:  services.NewCompetitionService(cfg, store, translator, nil, auth),
		Participation: services.NewParticipationService(cfg, store, files, hub),
		Profiles:      services.NewProfileService(cfg, store, auth),
		Organizations: services.NewOrganizationService(store, auth),
	})

	return &testServer{engine: engine, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, path, token, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		part.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, w.Code, w.Body.String())
	}
}

type authBody struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (s *testServer) register(t *testing.T, name string) authBody {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    name + "@example.com",
		"username": name,
		"password": "secret123",
		"fullName": "User " + name,
	})
	expectStatus(t, w, http.StatusCreated)
	var body authBody
	decode(t, w, &body)
	return body
}

func TestHealthAndPing(t *testing.T) {
	s := newTestServer(t)
	expectStatus(t, s.do(t, http.MethodGet, "/healthz", "", nil), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/ping", "", nil), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/metrics", "", nil), http.StatusOK)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	// Given a registered user
	alice := s.register(t, "alice")
	if alice.Token == "" || alice.User.Role != models.RoleUser {
		t.Fatalf("unexpected registration %+v", alice)
	}

	// Then the same email is rejected with a localized conflict
	w := s.do(t, http.MethodPost, "/api/auth/register?lang=en", "", map[string]string{
		"email": "alice@example.com", "username": "alice2", "password": "secret123", "fullName": "Alice",
	})
	expectStatus(t, w, http.StatusConflict)
	var msg map[string]string
	decode(t, w, &msg)
	if msg["message"] == "" || msg["message"] == "error.email_taken" {
		t.Errorf("expected a translated message, got %q", msg["message"])
	}

	// And invalid payloads are a 400
	w = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "nope"})
	expectStatus(t, w, http.StatusBadRequest)

	// When logging in
	w = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
	expectStatus(t, w, http.StatusOK)
	var login authBody
	decode(t, w, &login)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong-password"})
	expectStatus(t, w, http.StatusUnauthorized)

	// Then /me resolves the token
	w = s.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	expectStatus(t, w, http.StatusOK)
	var me models.User
	decode(t, w, &me)
	if me.ID != alice.User.ID {
		t.Errorf("expected %s, got %s", alice.User.ID, me.ID)
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/auth/me", "", nil), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil), http.StatusForbidden)

	// When logging out, the token stops working but the other session survives
	expectStatus(t, s.do(t, http.MethodPost, "/api/auth/logout", login.Token, nil), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/auth/me", login.Token, nil), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodGet, "/api/auth/me", alice.Token, nil), http.StatusOK)

	// Logout is guarded like any authenticated route
	expectStatus(t, s.do(t, http.MethodPost, "/api/auth/logout", login.Token, nil), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodPost, "/api/auth/logout", "not-a-jwt", nil), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodPost, "/api/auth/logout", "", nil), http.StatusUnauthorized)
}

func TestCompetitionScenario(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	host := s.register(t, "host")
	player := s.register(t, "player")
	rival := s.register(t, "rival")

	start := time.Now().Add(-time.Hour).UTC()
	create := map[string]interface{}{
		"title":              "Vietnamese OCR",
		"description":        "Read receipts",
		"category":           "Computer Vision",
		"startDate":          start.Format(time.RFC3339),
		"endDate":            start.Add(30 * 24 * time.Hour).Format(time.RFC3339),
		"submissionDeadline": start.Add(20 * 24 * time.Hour).Format(time.RFC3339),
		"maxParticipants":    2,
	}

	// Given a user without organization, creating a competition is forbidden
	expectStatus(t, s.do(t, http.MethodPost, "/api/competitions", host.Token, create), http.StatusForbidden)

	// When the user creates an organization
	w := s.do(t, http.MethodPost, "/api/organizations", host.Token, map[string]string{"name": "VieAI"})
	expectStatus(t, w, http.StatusCreated)
	expectStatus(t, s.do(t, http.MethodPost, "/api/organizations", host.Token, map[string]string{"name": "Again"}), http.StatusConflict)
	expectStatus(t, s.do(t, http.MethodGet, "/api/organizations/me", host.Token, nil), http.StatusOK)

	// Then an invalid category is rejected and a valid competition is created
	bad := map[string]interface{}{}
	for k, v := range create {
		bad[k] = v
	}
	bad["category"] = "Astrology"
	expectStatus(t, s.do(t, http.MethodPost, "/api/competitions", host.Token, bad), http.StatusBadRequest)

	w = s.do(t, http.MethodPost, "/api/competitions", host.Token, create)
	expectStatus(t, w, http.StatusCreated)
	var competition models.Competition
	decode(t, w, &competition)
	if competition.IsApproved || competition.IsFeatured || competition.Status != models.StatusOngoing {
		t.Fatalf("unexpected competition %+v", competition)
	}
	base := "/api/competitions/" + competition.ID

	// Join: once per user, submit requires participation
	w = s.upload(t, base+"/submit", player.Token, "preds.csv", "id,label\n1,a\n")
	expectStatus(t, w, http.StatusForbidden)
	// Participation is checked before the file, even when no file is sent
	expectStatus(t, s.upload(t, base+"/submit", player.Token, "", ""), http.StatusForbidden)
	expectStatus(t, s.upload(t, "/api/competitions/00000000-0000-0000-0000-000000000000/submit", player.Token, "", ""), http.StatusNotFound)

	expectStatus(t, s.do(t, http.MethodPost, base+"/join", player.Token, map[string]string{"teamName": "Team P"}), http.StatusCreated)
	expectStatus(t, s.do(t, http.MethodPost, base+"/join", player.Token, nil), http.StatusConflict)
	expectStatus(t, s.do(t, http.MethodPost, base+"/join", rival.Token, nil), http.StatusCreated)
	third := s.register(t, "third")
	expectStatus(t, s.do(t, http.MethodPost, base+"/join", third.Token, nil), http.StatusConflict)

	w = s.do(t, http.MethodGet, base, "", nil)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &competition)
	if competition.CurrentParticipants != 2 {
		t.Errorf("expected 2 participants, got %d", competition.CurrentParticipants)
	}

	// Submissions
	expectStatus(t, s.upload(t, base+"/submit", player.Token, "", ""), http.StatusBadRequest)
	expectStatus(t, s.upload(t, base+"/submit", player.Token, "big.csv", strings.Repeat("x", 2048)), http.StatusBadRequest)

	w = s.upload(t, base+"/submit", player.Token, "preds.csv", "id,label\n1,a\n")
	expectStatus(t, w, http.StatusCreated)
	var first models.Submission
	decode(t, w, &first)
	if first.Score != nil || first.CompetitionID != competition.ID {
		t.Fatalf("unexpected submission %+v", first)
	}

	w = s.upload(t, base+"/submit", rival.Token, "rival.csv", "id,label\n1,b\n")
	expectStatus(t, w, http.StatusCreated)
	var second models.Submission
	decode(t, w, &second)

	w = s.do(t, http.MethodGet, base+"/submissions/me", player.Token, nil)
	expectStatus(t, w, http.StatusOK)
	var mine []models.Submission
	decode(t, w, &mine)
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Errorf("unexpected own submissions %+v", mine)
	}

	// Scoring is an administrator operation
	expectStatus(t, s.do(t, http.MethodPut, "/api/submissions/"+second.ID+"/score", host.Token, map[string]interface{}{"score": 0.9}), http.StatusForbidden)

	admin := s.register(t, "root")
	if _, err := s.store.UpdateUser(ctx, admin.User.ID, map[string]interface{}{"role": models.RoleAdmin}); err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	expectStatus(t, s.do(t, http.MethodPut, "/api/submissions/"+second.ID+"/score", admin.Token, map[string]interface{}{"score": 0.9}), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodPut, "/api/submissions/"+first.ID+"/score", admin.Token, map[string]interface{}{"score": 0.7}), http.StatusOK)

	// Then the leaderboard orders by score
	w = s.do(t, http.MethodGet, base+"/leaderboard", "", nil)
	expectStatus(t, w, http.StatusOK)
	var board []models.Submission
	decode(t, w, &board)
	if len(board) != 2 || board[0].ID != second.ID || board[1].ID != first.ID {
		t.Fatalf("unexpected leaderboard order %+v", board)
	}

	// Moderation and completion
	expectStatus(t, s.do(t, http.MethodPut, base+"/approve", host.Token, map[string]bool{"value": true}), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodPut, base+"/approve", admin.Token, map[string]bool{"value": true}), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodPut, base+"/feature", admin.Token, map[string]bool{"value": true}), http.StatusOK)

	w = s.do(t, http.MethodGet, "/api/competitions?featured=true", "", nil)
	expectStatus(t, w, http.StatusOK)
	var featured []models.Competition
	decode(t, w, &featured)
	if len(featured) != 1 {
		t.Errorf("expected one featured competition, got %d", len(featured))
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/competitions?featured=maybe", "", nil), http.StatusBadRequest)

	expectStatus(t, s.do(t, http.MethodPut, base+"/status", host.Token, map[string]string{"status": "completed"}), http.StatusOK)

	w = s.do(t, http.MethodGet, "/api/users/leaderboard", "", nil)
	expectStatus(t, w, http.StatusOK)
	var top []models.User
	decode(t, w, &top)
	if len(top) == 0 || top[0].ID != rival.User.ID || top[0].Points != 100 {
		t.Errorf("expected rival first with 100 points, got %+v", top)
	}

	// Export is an xlsx attachment for the owner
	w = s.do(t, http.MethodGet, base+"/export", host.Token, nil)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Header().Get("Content-Disposition"), ".xlsx") {
		t.Errorf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
	expectStatus(t, s.do(t, http.MethodGet, base+"/export", player.Token, nil), http.StatusForbidden)

	// User participations
	w = s.do(t, http.MethodGet, "/api/users/"+player.User.ID+"/competitions", "", nil)
	expectStatus(t, w, http.StatusOK)
	var participations []models.Participant
	decode(t, w, &participations)
	if len(participations) != 1 || participations[0].Competition == nil {
		t.Errorf("unexpected participations %+v", participations)
	}
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	path := "/api/users/" + alice.User.ID
	expectStatus(t, s.do(t, http.MethodPatch, path, bob.Token, map[string]string{"bio": "hi"}), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodPatch, path, "", map[string]string{"bio": "hi"}), http.StatusUnauthorized)

	w := s.do(t, http.MethodPatch, path, alice.Token, map[string]interface{}{"bio": "ML engineer", "skills": []string{"pytorch", "nlp"}})
	expectStatus(t, w, http.StatusOK)
	var updated models.User
	decode(t, w, &updated)
	if updated.Bio != "ML engineer" || len(updated.Skills) != 2 || updated.FullName != "User alice" {
		t.Errorf("unexpected profile %+v", updated)
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/users/missing", "", nil), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodGet, "/api/competitions/missing", "", nil), http.StatusNotFound)
}
