package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/record-service/internal/auth"
	"github.com/spec-kit/record-service/internal/domain"
	"github.com/spec-kit/record-service/internal/events"
	"github.com/spec-kit/record-service/internal/repository"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

// RegisterParams carries the fields needed to create an account.
type RegisterParams struct {
	UserName string
	Password string
	Email    string
	Phone    string
	Avatar   string
	Remark   string
}

// AuthService coordinates credential checks and account flows; the
// token lifecycle itself is delegated to the session manager.
type AuthService struct {
	users      repository.UserRepository
	sessions   *auth.SessionManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, sessions *auth.SessionManager, dispatcher events.Dispatcher, bcryptCost int) *AuthService {
	return &AuthService{users: users, sessions: sessions, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// Login authenticates by username, email or phone and issues a token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, *auth.Session, error) {
	user, err := s.users.GetByLoginIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, nil, apperrors.NewUnauthorized("user disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	session, err := s.sessions.Login(user.ID, nil)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserLogin, user.ID, events.LoginPayload{ExpiresAt: session.ExpiresAt})
	return user, session, nil
}

// Register creates a new account and logs it in.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*domain.User, *auth.Session, error) {
	if params.Email == "" && params.Phone == "" {
		return nil, nil, apperrors.NewBadRequest("email or phone required")
	}

	if taken, err := s.userNameTaken(ctx, params.UserName); err != nil {
		return nil, nil, err
	} else if taken {
		return nil, nil, apperrors.NewConflict("username already exists")
	}
	if params.Email != "" {
		if taken, err := s.users.ExistsByEmail(ctx, params.Email); err != nil {
			return nil, nil, err
		} else if taken {
			return nil, nil, apperrors.NewConflict("email already registered")
		}
	}
	if params.Phone != "" {
		if taken, err := s.users.ExistsByPhone(ctx, params.Phone); err != nil {
			return nil, nil, err
		} else if taken {
			return nil, nil, apperrors.NewConflict("phone already registered")
		}
	}

	hash, err := auth.HashPassword(params.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		UserName:     params.UserName,
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: hash,
		Avatar:       params.Avatar,
		Remark:       params.Remark,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := s.sessions.Login(user.ID, nil)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, nil)
	return user, session, nil
}

// Logout revokes the caller's current token.
func (s *AuthService) Logout(ctx context.Context, subjectID, token string) error {
	if err := s.sessions.Logout(token); err != nil {
		return err
	}
	s.publish(ctx, events.EventUserLogout, subjectID, nil)
	return nil
}

// Refresh issues a new token for the presented one.
func (s *AuthService) Refresh(ctx context.Context, token string) (*auth.Session, error) {
	session, err := s.sessions.Refresh(token)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventTokenRefreshed, session.Subject, events.LoginPayload{ExpiresAt: session.ExpiresAt})
	return session, nil
}

// ValidateToken reports whether the token is currently active.
func (s *AuthService) ValidateToken(token string) bool {
	return s.sessions.Validate(token)
}

// IsUserNameAvailable reports whether the username is unclaimed.
func (s *AuthService) IsUserNameAvailable(ctx context.Context, userName string) (bool, error) {
	taken, err := s.userNameTaken(ctx, userName)
	return !taken, err
}

// IsEmailAvailable reports whether the email is unclaimed.
func (s *AuthService) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	taken, err := s.users.ExistsByEmail(ctx, email)
	return !taken, err
}

// IsPhoneAvailable reports whether the phone is unclaimed.
func (s *AuthService) IsPhoneAvailable(ctx context.Context, phone string) (bool, error) {
	taken, err := s.users.ExistsByPhone(ctx, phone)
	return !taken, err
}

// GetProfile returns the account for the authenticated subject.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, err
	}
	return user, nil
}

// ProfileUpdate carries mutable profile fields.
type ProfileUpdate struct {
	Email  *string
	Phone  *string
	Avatar *string
	Remark *string
}

// UpdateProfile applies the given fields to the subject's account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.Remark != nil {
		user.Remark = *update.Remark
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) userNameTaken(ctx context.Context, userName string) (bool, error) {
	return s.users.ExistsByUserName(ctx, userName)
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
