package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"viemind/i18n"
	"viemind/models"
	"viemind/services"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter("test", 2, 2)
	now := time.Now()
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("expected the burst to be allowed")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("expected the bucket to be empty")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("expected another ip to have its own bucket")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("1.1.1.1") {
		t.Fatal("expected a refill after one interval")
	}

	now = now.Add(time.Hour)
	if removed := rl.Cleanup(30 * time.Minute); removed != 2 {
		t.Errorf("expected two idle visitors removed, got %d", removed)
	}
}

func TestRateLimiterMiddlewareRejects(t *testing.T) {
	translator := i18n.NewTranslator("vi")
	r := gin.New()
	r.Use(LocaleMiddleware(translator))
	r.Use(RateLimiterMiddleware(NewRateLimiter("test", 1, 1)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	var body map[string]string
	json.Unmarshal(second.Body.Bytes(), &body)
	if body["message"] != "Too many requests, please try again later" {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestLocaleMiddleware(t *testing.T) {
	translator := i18n.NewTranslator("vi")
	r := gin.New()
	r.Use(LocaleMiddleware(translator))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, response.Locale(c)) })

	cases := []struct {
		url, header, want string
	}{
		{"/", "", "vi"},
		{"/", "en-US,en;q=0.8", "en"},
		{"/?lang=vi", "en-US", "vi"},
		{"/?lang=en", "", "en"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.url, nil)
		if tc.header != "" {
			req.Header.Set("Accept-Language", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Body.String() != tc.want {
			t.Errorf("%s %q: expected %s, got %s", tc.url, tc.header, tc.want, w.Body.String())
		}
	}
}

type fakeVerifier map[string]*models.User

func (f fakeVerifier) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "forged" {
		return nil, services.ErrInvalidToken
	}
	user, ok := f[token]
	if !ok {
		return nil, services.ErrSessionExpired
	}
	return user, nil
}

func TestAuthMiddleware(t *testing.T) {
	translator := i18n.NewTranslator("en")
	verifier := fakeVerifier{"good": {ID: "u1", Username: "lan"}}

	r := gin.New()
	r.Use(LocaleMiddleware(translator))
	r.GET("/me", AuthMiddleware(verifier), func(c *gin.Context) {
		user, err := GetUserFromRequest(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, user.ID)
	})

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Basic abc", http.StatusUnauthorized},
		{"Bearer forged", http.StatusForbidden},
		{"Bearer revoked", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
		{"bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Errorf("%q: expected %d, got %d", tc.header, tc.status, w.Code)
		}
	}
}
