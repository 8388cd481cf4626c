package accounts_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/accounts"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/auth"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/auth/session"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/config"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
)

type stubSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	if provided != "refresh-"+oldAccessID {
		return "", "", session.ErrInvalidRefreshToken
	}
	newID := session.NewAccessID()
	return newID, "refresh-" + newID, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "nailsbyabri-test",
		ExpirationMinutes: 15,
	}
}

func newService(t *testing.T) (accounts.Service, *stubSessions) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	sessions := &stubSessions{}
	svc, err := accounts.NewService(accounts.NewRepository(db), sessions, testJWTConfig(), nil)
	require.NoError(t, err)
	return svc, sessions
}

func adultInput(email string) accounts.RegisterInput {
	return accounts.RegisterInput{
		Email:       email,
		Password:    "correct-horse",
		FullName:    "Jordan Rivers",
		DateOfBirth: time.Date(1998, 4, 12, 0, 0, 0, 0, time.UTC),
	}
}

func minorInput(email string) accounts.RegisterInput {
	input := adultInput(email)
	input.DateOfBirth = time.Now().UTC().AddDate(-14, 0, 0)
	return input
}

func TestRegisterAdult(t *testing.T) {
	svc, _ := newService(t)

	user, err := svc.Register(context.Background(), adultInput("Jordan@Example.COM "))
	require.NoError(t, err)

	assert.Equal(t, "jordan@example.com", user.Email, "emails are normalized")
	assert.Equal(t, enums.UserRoleCustomer, user.Role)
	assert.Nil(t, user.GuardianName)
	assert.Nil(t, user.ConsentGrantedAt)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
}

func TestRegisterMinorRequiresConsent(t *testing.T) {
	svc, _ := newService(t)

	// Missing guardian details.
	_, err := svc.Register(context.Background(), minorInput("kid@example.com"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// Guardian details present but consent not granted.
	input := minorInput("kid@example.com")
	input.GuardianName = "Pat Rivers"
	input.GuardianEmail = "pat@example.com"
	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// Full consent recorded.
	input.ConsentGranted = true
	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, user.GuardianName)
	assert.Equal(t, "Pat Rivers", *user.GuardianName)
	require.NotNil(t, user.GuardianEmail)
	assert.Equal(t, "pat@example.com", *user.GuardianEmail)
	assert.NotNil(t, user.ConsentGrantedAt)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name   string
		mutate func(*accounts.RegisterInput)
	}{
		{"blank email", func(i *accounts.RegisterInput) { i.Email = " " }},
		{"malformed email", func(i *accounts.RegisterInput) { i.Email = "not-an-email" }},
		{"short password", func(i *accounts.RegisterInput) { i.Password = "short" }},
		{"blank name", func(i *accounts.RegisterInput) { i.FullName = "  " }},
		{"zero birth date", func(i *accounts.RegisterInput) { i.DateOfBirth = time.Time{} }},
		{"future birth date", func(i *accounts.RegisterInput) { i.DateOfBirth = time.Now().AddDate(1, 0, 0) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := adultInput("valid@example.com")
			tc.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), adultInput("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), adultInput("DUP@example.com"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestLogin(t *testing.T) {
	svc, sessions := newService(t)
	_, err := svc.Register(context.Background(), adultInput("login@example.com"))
	require.NoError(t, err)

	sess, err := svc.Login(context.Background(), "login@example.com", "correct-horse")
	require.NoError(t, err)

	assert.NotEmpty(t, sess.Tokens.AccessToken)
	assert.NotEmpty(t, sess.Tokens.RefreshToken)
	assert.False(t, sess.Policy.IsAdmin())
	require.Len(t, sessions.generated, 1)

	claims, err := auth.ParseAccessToken(testJWTConfig(), sess.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleCustomer, claims.Role)
	assert.Equal(t, sessions.generated[0], claims.ID, "jti keys the refresh session")
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Register(context.Background(), adultInput("login@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "login@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	_, err = svc.Login(context.Background(), "ghost@example.com", "correct-horse")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code(),
		"unknown accounts and bad passwords are indistinguishable")
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Register(context.Background(), adultInput("refresh@example.com"))
	require.NoError(t, err)

	sess, err := svc.Login(context.Background(), "refresh@example.com", "correct-horse")
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), sess.Tokens.AccessToken, sess.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, sess.Tokens.RefreshToken, pair.RefreshToken)
}

func TestRefreshRejectsWrongToken(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Register(context.Background(), adultInput("refresh@example.com"))
	require.NoError(t, err)

	sess, err := svc.Login(context.Background(), "refresh@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), sess.Tokens.AccessToken, "stolen-token")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLogout(t *testing.T) {
	svc, sessions := newService(t)
	_, err := svc.Register(context.Background(), adultInput("bye@example.com"))
	require.NoError(t, err)

	sess, err := svc.Login(context.Background(), "bye@example.com", "correct-horse")
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(testJWTConfig(), sess.Tokens.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), claims.ID))
	assert.Equal(t, []string{claims.ID}, sessions.revoked)
}

func TestProfile(t *testing.T) {
	svc, _ := newService(t)
	created, err := svc.Register(context.Background(), adultInput("me@example.com"))
	require.NoError(t, err)

	got, err := svc.Profile(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)

	_, err = svc.Profile(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
