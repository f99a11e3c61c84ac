package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservice/internal/auth"
	"github.com/spec-kit/homeservice/internal/config"
	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/mailer"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/pkg/util"
)

// AuthService handles registration, login and the password lifecycle.
type AuthService struct {
	users  repository.UserRepository
	otps   repository.OTPStore
	mail   mailer.Mailer
	tokens *auth.TokenManager
	cfg    config.AuthConfig
	logger *zap.Logger
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	OTPStore     repository.OTPStore
	Mailer       mailer.Mailer
	TokenManager *auth.TokenManager
	Config       config.AuthConfig
	Logger       *zap.Logger
}

// RegisterInput describes a signup payload.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     domain.Role
}

// Session is an issued access token with its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:  deps.UserRepo,
		otps:   deps.OTPStore,
		mail:   deps.Mailer,
		tokens: deps.TokenManager,
		cfg:    deps.Config,
		logger: deps.Logger,
	}
}

// Register creates an account. Admin accounts cannot be self-registered.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if role != domain.RoleCustomer && role != domain.RoleProvider {
		return nil, util.NewValidationError("role must be customer or provider", map[string]any{"role": role})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.users.ExistsByEmailOrPhone(ctx, email, input.Phone)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	if exists {
		return nil, util.NewConflict("an account with this email or phone already exists", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("an account with this email or phone already exists", nil)
		}
		return nil, util.NewInternalError(err)
	}
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Session{}, util.NewUnauthorized("invalid email or password")
		}
		return nil, Session{}, util.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, Session{}, util.NewUnauthorized("invalid email or password")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, Session{}, util.NewInternalError(err)
	}
	return user, Session{Token: token, ExpiresAt: expiresAt}, nil
}

// ForgotPassword issues a one-time passcode to the account email. Unknown
// emails succeed silently so the endpoint cannot be used for enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info("password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		return util.NewInternalError(err)
	}

	code, err := generateOTP()
	if err != nil {
		return util.NewInternalError(err)
	}
	ttl := time.Duration(s.cfg.OTPTTLMinutes) * time.Minute
	if err := s.otps.Set(ctx, user.Email, code, ttl); err != nil {
		return util.NewInternalError(err)
	}
	if err := s.mail.SendOTP(ctx, user.Email, code, s.cfg.OTPTTLMinutes); err != nil {
		s.logger.Error("failed to send otp email", zap.String("email", user.Email), zap.Error(err))
		return util.NewInternalError(err)
	}
	return nil
}

// VerifyOTP checks a passcode without consuming it.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	return s.checkOTP(ctx, strings.ToLower(strings.TrimSpace(email)), code)
}

// ResetPassword consumes a valid passcode and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.checkOTP(ctx, email, code); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewUnauthorized("invalid or expired code")
		}
		return util.NewInternalError(err)
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return util.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return util.NewInternalError(err)
	}
	if err := s.otps.Delete(ctx, email); err != nil {
		s.logger.Warn("failed to delete consumed otp", zap.String("email", email), zap.Error(err))
	}
	if err := s.mail.SendPasswordChanged(ctx, email); err != nil {
		s.logger.Warn("failed to send password-changed email", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// ChangePassword rotates the password of an authenticated user.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("user")
		}
		return util.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return util.NewUnauthorized("current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return util.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return util.NewInternalError(err)
	}
	return nil
}

func (s *AuthService) checkOTP(ctx context.Context, email, code string) error {
	stored, err := s.otps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return util.NewUnauthorized("invalid or expired code")
		}
		return util.NewInternalError(err)
	}
	if stored != code {
		return util.NewUnauthorized("invalid or expired code")
	}
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
