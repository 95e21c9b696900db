package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"travelers/internal/apperror"
	"travelers/internal/config"
	"travelers/internal/models"
	"travelers/internal/repository"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	SessionIDCookie    = "sessionId"

	tokenBytes = 30
)

type SessionService interface {
	CreateSession(ctx context.Context, userID string) (*models.Session, error)
	SetSessionCookies(w http.ResponseWriter, session *models.Session)
	ClearSessionCookies(w http.ResponseWriter)
	ResolveUser(ctx context.Context, accessToken string) (*models.User, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	cfg         *config.Config
	now         func() time.Time
	random      io.Reader
}

func NewSessionService(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, cfg *config.Config) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		now:         time.Now,
		random:      rand.Reader,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, userID string) (*models.Session, error) {
	accessToken, err := s.token()
	if err != nil {
		return nil, apperror.Internal("Failed to create session", err)
	}
	refreshToken, err := s.token()
	if err != nil {
		return nil, apperror.Internal("Failed to create session", err)
	}

	now := s.now().UTC()
	session := &models.Session{
		SessionID:              uuid.New().String(),
		UserID:                 userID,
		AccessToken:            accessToken,
		RefreshToken:           refreshToken,
		AccessTokenValidUntil:  now.Add(s.cfg.AccessTokenDuration),
		RefreshTokenValidUntil: now.Add(s.cfg.RefreshTokenDuration),
		CreatedAt:              now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, apperror.Internal("Failed to create session", err)
	}

	return session, nil
}

func (s *sessionService) token() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

func (s *sessionService) SetSessionCookies(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, s.cookie(AccessTokenCookie, session.AccessToken, s.cfg.AccessTokenDuration))
	http.SetCookie(w, s.cookie(RefreshTokenCookie, session.RefreshToken, s.cfg.RefreshTokenDuration))
	http.SetCookie(w, s.cookie(SessionIDCookie, session.SessionID, s.cfg.RefreshTokenDuration))
}

func (s *sessionService) ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, SessionIDCookie} {
		cookie := s.cookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		http.SetCookie(w, cookie)
	}
}

func (s *sessionService) cookie(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.cfg.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

// ResolveUser maps an access token to its user without touching the session.
// Every "no identity" outcome is Unauthorized; storage failures are Internal.
func (s *sessionService) ResolveUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, apperror.Unauthorized("Access token missing")
	}

	session, err := s.sessionRepo.GetByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("Session not found")
		}
		return nil, apperror.Internal("Failed to resolve session", err)
	}

	if session.AccessExpired(s.now()) {
		return nil, apperror.Unauthorized("Access token expired")
	}

	user, err := s.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, apperror.Internal("Failed to resolve session", err)
	}

	return user, nil
}
