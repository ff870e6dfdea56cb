package service

import (
	"context"
	"errors"

	"espacios-api/internal/models"
	"espacios-api/internal/repository"
	"espacios-api/internal/token"
	"espacios-api/monitoring"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken string
	ExpiresIn   int64
	User        *models.User
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context, userID uint) (*models.User, error)
	Refresh(ctx context.Context, claims *token.Claims) (*Session, error)
	Logout(ctx context.Context, claims *token.Claims) error
}

type authService struct {
	users    repository.UserRepository
	tokens   *token.Manager
	denylist *token.Denylist
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager, denylist *token.Denylist) AuthService {
	return &authService{users: users, tokens: tokens, denylist: denylist}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique index catches the race two concurrent registrations
		// can win past the lookup above.
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.TrackLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		monitoring.TrackLogin(false)
		return nil, ErrInvalidCredentials
	}

	signed, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	monitoring.TrackLogin(true)
	return &Session{
		AccessToken: signed,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        user,
	}, nil
}

func (s *authService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Refresh issues a fresh token for the same subject and revokes the one
// presented, so a refreshed token cannot be replayed.
func (s *authService) Refresh(ctx context.Context, claims *token.Claims) (*Session, error) {
	user, err := s.Me(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	signed, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.denylist.Revoke(ctx, claims); err != nil {
		return nil, err
	}

	return &Session{
		AccessToken: signed,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        user,
	}, nil
}

func (s *authService) Logout(ctx context.Context, claims *token.Claims) error {
	return s.denylist.Revoke(ctx, claims)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
