package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservice/internal/auth"
	"github.com/spec-kit/homeservice/internal/config"
	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/service"
)

type authFixture struct {
	svc    *service.AuthService
	users  *stubUserRepo
	otps   *stubOTPStore
	mailer *stubMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		users:  newStubUserRepo(),
		otps:   newStubOTPStore(),
		mailer: &stubMailer{},
	}
	f.svc = service.NewAuthService(service.AuthDependencies{
		UserRepo:     f.users,
		OTPStore:     f.otps,
		Mailer:       f.mailer,
		TokenManager: auth.NewTokenManager("test-secret", time.Hour),
		Config: config.AuthConfig{
			BcryptCost:    4, // min cost keeps the suite fast
			OTPTTLMinutes: 10,
		},
		Logger: zap.NewNop(),
	})
	return f
}

func (f *authFixture) register(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Jordan Smith",
		Email:    email,
		Phone:    "555-0100",
		Password: "s3cret-pass",
		Role:     domain.RoleCustomer,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Jordan Smith",
		Email:    "Jordan@Example.com",
		Phone:    "555-0100",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.Equal(t, "jordan@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Jordan Smith",
		Email:    "jordan@example.com",
		Phone:    "555-0100",
		Password: "s3cret-pass",
		Role:     domain.RoleAdmin,
	})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jordan@example.com")

	_, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Other",
		Email:    "jordan@example.com",
		Phone:    "555-0199",
		Password: "another-pass",
	})
	requireDomainCode(t, err, "CONFLICT")
}

func TestLoginIssuesSession(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jordan@example.com")

	user, session, err := f.svc.Login(context.Background(), "jordan@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", user.Email)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jordan@example.com")

	_, _, err := f.svc.Login(context.Background(), "jordan@example.com", "wrong")
	requireDomainCode(t, err, "UNAUTHORIZED")

	// Unknown accounts get the same answer as bad passwords.
	_, _, err = f.svc.Login(context.Background(), "nobody@example.com", "s3cret-pass")
	requireDomainCode(t, err, "UNAUTHORIZED")
}

func TestForgotPasswordStoresAndMailsCode(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jordan@example.com")

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "jordan@example.com"))

	code, err := f.otps.Get(context.Background(), "jordan@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "otp", f.mailer.sent[0].Kind)
	assert.Equal(t, code, f.mailer.sent[0].Payload)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "nobody@example.com"))
	assert.Empty(t, f.mailer.sent)
}

func TestVerifyOTP(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jordan@example.com")
	require.NoError(t, f.svc.ForgotPassword(context.Background(), "jordan@example.com"))
	code := f.mailer.sent[0].Payload

	require.NoError(t, f.svc.VerifyOTP(context.Background(), "jordan@example.com", code))

	err := f.svc.VerifyOTP(context.Background(), "jordan@example.com", "000000")
	requireDomainCode(t, err, "UNAUTHORIZED")

	// Verification does not consume the code.
	require.NoError(t, f.svc.VerifyOTP(context.Background(), "jordan@example.com", code))
}

func TestResetPasswordConsumesCode(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jordan@example.com")
	require.NoError(t, f.svc.ForgotPassword(context.Background(), "jordan@example.com"))
	code := f.mailer.sent[0].Payload

	require.NoError(t, f.svc.ResetPassword(context.Background(), "jordan@example.com", code, "new-pass-123"))

	_, _, err := f.svc.Login(context.Background(), "jordan@example.com", "s3cret-pass")
	requireDomainCode(t, err, "UNAUTHORIZED")
	_, _, err = f.svc.Login(context.Background(), "jordan@example.com", "new-pass-123")
	require.NoError(t, err)

	// The code is single-use.
	err = f.svc.ResetPassword(context.Background(), "jordan@example.com", code, "another-pass")
	requireDomainCode(t, err, "UNAUTHORIZED")
}

func TestResetPasswordRejectsWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jordan@example.com")
	require.NoError(t, f.svc.ForgotPassword(context.Background(), "jordan@example.com"))

	err := f.svc.ResetPassword(context.Background(), "jordan@example.com", "999999", "new-pass-123")
	requireDomainCode(t, err, "UNAUTHORIZED")
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "jordan@example.com")

	err := f.svc.ChangePassword(context.Background(), user.ID, "wrong", "new-pass-123")
	requireDomainCode(t, err, "UNAUTHORIZED")

	require.NoError(t, f.svc.ChangePassword(context.Background(), user.ID, "s3cret-pass", "new-pass-123"))

	_, _, err = f.svc.Login(context.Background(), "jordan@example.com", "new-pass-123")
	require.NoError(t, err)
}
