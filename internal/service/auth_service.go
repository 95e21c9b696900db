package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelers/internal/apperror"
	"travelers/internal/models"
	"travelers/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, *models.Session, error)
	Login(ctx context.Context, email, password string) (*models.User, *models.Session, error)
	Logout(ctx context.Context, sessionID, accessToken string) error
	RefreshSession(ctx context.Context, sessionID, refreshToken string) (*models.Session, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	sessions    SessionService
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, sessions SessionService) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessions:    sessions,
		now:         time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, *models.Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return nil, nil, apperror.Conflict("Email in use")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperror.Internal("Failed to register user", err)
	}

	user := &models.User{
		Name:  strings.TrimSpace(req.Name),
		Email: email,
	}

	err = s.userRepo.CreateUser(ctx, user, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, nil, apperror.Conflict("Email in use")
		}
		return nil, nil, apperror.Internal("Failed to register user", err)
	}

	session, err := s.sessions.CreateSession(ctx, user.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	user, err := s.userRepo.VerifyPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidPassword) {
			return nil, nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, nil, apperror.Internal("Failed to log in", err)
	}

	// one active session per user
	if err := s.sessionRepo.DeleteByUserID(ctx, user.UserID); err != nil {
		return nil, nil, apperror.Internal("Failed to log in", err)
	}

	session, err := s.sessions.CreateSession(ctx, user.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Logout deletes the session named by the session cookie and the one the access
// token belongs to. Malformed or unknown values are treated as no session.
func (s *authService) Logout(ctx context.Context, sessionID, accessToken string) error {
	var ids []string
	if validSessionID(sessionID) {
		ids = append(ids, sessionID)
	}

	if accessToken != "" {
		session, err := s.sessionRepo.GetByAccessToken(ctx, accessToken)
		switch {
		case err == nil:
			if session.SessionID != sessionID {
				ids = append(ids, session.SessionID)
			}
		case !errors.Is(err, repository.ErrNotFound):
			return apperror.Internal("Failed to log out", err)
		}
	}

	for _, id := range ids {
		if err := s.sessionRepo.DeleteByID(ctx, id); err != nil {
			return apperror.Internal("Failed to log out", err)
		}
	}
	return nil
}

// RefreshSession rotates the session: the old record is deleted before a new one is issued.
func (s *authService) RefreshSession(ctx context.Context, sessionID, refreshToken string) (*models.Session, error) {
	if !validSessionID(sessionID) || refreshToken == "" {
		return nil, apperror.Unauthorized("Session not found")
	}

	session, err := s.sessionRepo.GetByIDAndRefreshToken(ctx, sessionID, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("Session not found")
		}
		return nil, apperror.Internal("Failed to refresh session", err)
	}

	if session.RefreshExpired(s.now()) {
		return nil, apperror.Unauthorized("Session token expired")
	}

	if err := s.sessionRepo.DeleteByID(ctx, session.SessionID); err != nil {
		return nil, apperror.Internal("Failed to refresh session", err)
	}

	return s.sessions.CreateSession(ctx, session.UserID)
}

// validSessionID rejects cookie values the sessions table could never hold.
func validSessionID(sessionID string) bool {
	_, err := uuid.Parse(sessionID)
	return err == nil
}
