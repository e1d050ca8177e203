package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"viemind/config"
	"viemind/metrics"
	"viemind/models"
	"viemind/storage"
	"viemind/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// SessionCacheKeyPrefix maps a token id to its user id
	SessionCacheKeyPrefix = "session:"
	// UserCacheKeyPrefix holds the serialized user of active sessions
	UserCacheKeyPrefix = "user_session:"

	cacheTTL = 5 * time.Minute
)

// Claims are the JWT claims issued at login; the registered ID is the session token
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// RegisterInput holds the fields accepted at registration
type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
	Locale   string
}

// AuthService issues and verifies bearer tokens backed by stored sessions
type AuthService struct {
	store  storage.Storage
	cache  storage.Cache
	mailer WelcomeMailer
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService builds the service; mailer may be nil when SMTP is not configured
func NewAuthService(cfg *config.Config, store storage.Storage, cache storage.Cache, mailer WelcomeMailer) *AuthService {
	if cache == nil {
		cache = storage.NopCache{}
	}
	return &AuthService{
		store:  store,
		cache:  cache,
		mailer: mailer,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

// Register creates a user with a hashed password and issues a first token
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, "", ErrInvalidRequest
	}

	// Step 1: check uniqueness, email first
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, "", err
	}
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, "", err
	}

	// Step 2: hash and insert; a concurrent registration is caught by the unique indexes
	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		Email:    email,
		Username: username,
		Password: hashed,
		FullName: strings.TrimSpace(in.FullName),
		Role:     models.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			if strings.Contains(err.Error(), "username") {
				return nil, "", wrap(ErrUsernameTaken, err)
			}
			return nil, "", wrap(ErrEmailTaken, err)
		}
		return nil, "", err
	}
	metrics.Registrations.Inc()

	// Step 3: issue the token
	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	if s.mailer != nil {
		go func(to, name, locale string) {
			if err := s.mailer.SendWelcomeEmail(to, name, locale); err != nil {
				log.WithField("user_id", user.ID).Warnf("Failed to send welcome email: %v", err)
			}
		}(user.Email, displayName(user), in.Locale)
	}

	return user, token, nil
}

// Login verifies credentials and opens a new session; earlier sessions stay valid
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.Logins.WithLabelValues("failure").Inc()
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	metrics.Logins.WithLabelValues("success").Inc()
	return user, token, nil
}

// IssueToken signs a token for user and records its session
func (s *AuthService) IssueToken(ctx context.Context, user *models.User) (string, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	sessionID := uuid.NewString()

	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	session := &models.Session{UserID: user.ID, Token: sessionID, ExpiresAt: expiresAt}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", err
	}
	return signed, nil
}

func (s *AuthService) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.ID == "" || claims.UserID == "" {
		return nil, wrap(ErrInvalidToken, err)
	}
	return claims, nil
}

// Verify resolves a bearer token to its user. A malformed, forged or expired
// token is Forbidden; a revoked session or a deleted user is Unauthorized.
func (s *AuthService) Verify(ctx context.Context, raw string) (*models.User, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	claims, err := s.parse(raw)
	if err != nil {
		return nil, err
	}

	userID, err := s.sessionUser(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if userID != claims.UserID {
		return nil, ErrInvalidToken
	}
	return s.cachedUser(ctx, userID)
}

func (s *AuthService) sessionUser(ctx context.Context, sessionID string) (string, error) {
	key := SessionCacheKeyPrefix + sessionID
	if userID, ok := s.cache.Get(ctx, key); ok {
		return userID, nil
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrSessionExpired
		}
		return "", err
	}
	now := s.now()
	if session.Expired(now) {
		return "", ErrSessionExpired
	}

	ttl := cacheTTL
	if remaining := session.ExpiresAt.Sub(now); remaining < ttl {
		ttl = remaining
	}
	if err := s.cache.Set(ctx, key, session.UserID, ttl); err != nil {
		log.Printf("Failed to cache session: %v", err)
	}
	return session.UserID, nil
}

func (s *AuthService) cachedUser(ctx context.Context, userID string) (*models.User, error) {
	key := UserCacheKeyPrefix + userID
	if cached, ok := s.cache.Get(ctx, key); ok {
		var user models.User
		if err := utils.UnmarshalJSON(cached, &user); err == nil {
			return &user, nil
		}
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// the password hash is not serialized, which is what the middleware needs
	if data, err := utils.MarshalJSON(user); err == nil {
		if err := s.cache.Set(ctx, key, data, cacheTTL); err != nil {
			log.Printf("Failed to cache user: %v", err)
		}
	}
	return user, nil
}

// Logout revokes the session of a token that already passed Verify
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	claims, err := s.parse(raw)
	if err != nil {
		return err
	}
	if err := s.cache.Del(ctx, SessionCacheKeyPrefix+claims.ID); err != nil {
		log.Printf("Failed to drop cached session: %v", err)
	}
	return s.store.DeleteSession(ctx, claims.ID)
}

// InvalidateUser drops the cached copy of a user after it changed
func (s *AuthService) InvalidateUser(ctx context.Context, userID string) {
	if err := s.cache.Del(ctx, UserCacheKeyPrefix+userID); err != nil {
		log.Printf("Failed to invalidate cached user %s: %v", userID, err)
	}
}

// SweepExpiredSessions deletes sessions past their expiry
func (s *AuthService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx, s.now())
}

// StartSessionSweeper runs SweepExpiredSessions every interval until ctx is done
func (s *AuthService) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.SweepExpiredSessions(ctx)
				if err != nil {
					log.Printf("Session sweep failed: %v", err)
					continue
				}
				if removed > 0 {
					log.WithField("removed", removed).Info("Expired sessions removed")
				}
			}
		}
	}()
}

func displayName(user *models.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}
