// Package accounts owns registration, login, and session lifecycle.
// Registration is age-gated: minors register with recorded parental consent
// rather than being turned away.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/auth"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/auth/session"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/config"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
)

// consentAge is the age below which a guardian must sign off on the account.
const consentAge = 16

const minPasswordLength = 8

// RegisterInput is everything registration needs. Guardian fields are
// required only when the date of birth puts the customer under the consent
// age.
type RegisterInput struct {
	Email          string
	Password       string
	FullName       string
	DateOfBirth    time.Time
	GuardianName   string
	GuardianEmail  string
	ConsentGranted bool
}

// TokenPair is the credential set issued at login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is an authenticated login result.
type Session struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
	Policy Policy       `json:"-"`
}

type userStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service handles account and session operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (Session, error)
	Refresh(ctx context.Context, expiredAccessToken, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, accessID string) error
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type service struct {
	repo     userStore
	sessions sessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the account service.
func NewService(repo userStore, sessions sessionManager, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Register creates an account. Customers under the consent age must arrive
// with guardian details and a granted consent flag; the grant time is
// recorded on the row.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	now := s.now().UTC()
	if input.DateOfBirth.IsZero() || input.DateOfBirth.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid date of birth is required")
	}

	user := models.User{
		Email:       email,
		FullName:    strings.TrimSpace(input.FullName),
		DateOfBirth: input.DateOfBirth.UTC(),
		Role:        enums.UserRoleCustomer,
	}

	if ageAt(input.DateOfBirth, now) < consentAge {
		guardianName := strings.TrimSpace(input.GuardianName)
		guardianEmail := strings.ToLower(strings.TrimSpace(input.GuardianEmail))
		if guardianName == "" || guardianEmail == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				"guardian name and email are required for customers under 16")
		}
		if !input.ConsentGranted {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "parental consent has not been granted")
		}
		user.GuardianName = &guardianName
		user.GuardianEmail = &guardianEmail
		user.ConsentGrantedAt = &now
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "account lookup failed")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "password hashing failed")
	}
	user.PasswordHash = string(hash)

	created, err := s.repo.Create(ctx, &user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "account creation failed")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, created.ID.String()), "account registered")
	}
	return created, nil
}

// Login verifies credentials and opens a session: a short-lived JWT carrying
// the resolved role plus a refresh token held in the session store.
func (s *service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "account lookup failed")
	}
	if user == nil {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	accessID := session.NewAccessID()
	accessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "token minting failed")
	}
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session creation failed")
	}

	return Session{
		User:   user,
		Tokens: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		Policy: PolicyFor(user.Role),
	}, nil
}

// Refresh rotates the session: the expired access token proves which session
// the refresh token belongs to, and both credentials are reissued.
func (s *service) Refresh(ctx context.Context, expiredAccessToken, refreshToken string) (TokenPair, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, expiredAccessToken)
	if err != nil {
		return TokenPair{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return TokenPair{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return TokenPair{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session rotation failed")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return TokenPair{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "account lookup failed")
	}

	accessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return TokenPair{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "token minting failed")
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes the session behind the given access ID.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session revocation failed")
	}
	return nil
}

// Profile returns the account row.
func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "account lookup failed")
	}
	return user, nil
}

// ageAt computes whole years between birth and the reference instant.
func ageAt(birth, at time.Time) int {
	birth, at = birth.UTC(), at.UTC()
	years := at.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
