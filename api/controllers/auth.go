package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/api/middleware"
	"github.com/shorebytelabs/nailsbyabri-sub003/api/responses"
	"github.com/shorebytelabs/nailsbyabri-sub003/api/validators"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/accounts"
	pkgAuth "github.com/shorebytelabs/nailsbyabri-sub003/pkg/auth"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/config"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
)

const dateOnlyFormat = "2006-01-02"

type registerRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FullName       string `json:"full_name" validate:"required"`
	DateOfBirth    string `json:"date_of_birth" validate:"required"`
	GuardianName   string `json:"guardian_name,omitempty"`
	GuardianEmail  string `json:"guardian_email,omitempty" validate:"omitempty,email"`
	ConsentGranted bool   `json:"consent_granted,omitempty"`
}

func (p registerRequest) toInput() (accounts.RegisterInput, error) {
	dob, err := time.Parse(dateOnlyFormat, strings.TrimSpace(p.DateOfBirth))
	if err != nil {
		return accounts.RegisterInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date_of_birth must be YYYY-MM-DD")
	}
	return accounts.RegisterInput{
		Email:          p.Email,
		Password:       p.Password,
		FullName:       p.FullName,
		DateOfBirth:    dob,
		GuardianName:   p.GuardianName,
		GuardianEmail:  p.GuardianEmail,
		ConsentGranted: p.ConsentGranted,
	}, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	FullName         string     `json:"full_name"`
	DateOfBirth      string     `json:"date_of_birth"`
	Role             string     `json:"role"`
	GuardianName     *string    `json:"guardian_name,omitempty"`
	GuardianEmail    *string    `json:"guardian_email,omitempty"`
	ConsentGrantedAt *time.Time `json:"consent_granted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func newUserResponse(user *models.User) *userResponse {
	if user == nil {
		return nil
	}
	return &userResponse{
		ID:               user.ID,
		Email:            user.Email,
		FullName:         user.FullName,
		DateOfBirth:      user.DateOfBirth.Format(dateOnlyFormat),
		Role:             string(user.Role),
		GuardianName:     user.GuardianName,
		GuardianEmail:    user.GuardianEmail,
		ConsentGrantedAt: user.ConsentGrantedAt,
		CreatedAt:        user.CreatedAt,
	}
}

type sessionResponse struct {
	User   *userResponse      `json:"user"`
	Tokens accounts.TokenPair `json:"tokens"`
}

// AuthRegister creates the account and logs it straight in so the storefront
// lands the new customer in an authenticated state.
func AuthRegister(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.Register(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{
			User:   newUserResponse(session.User),
			Tokens: session.Tokens,
		})
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sessionResponse{
			User:   newUserResponse(session.User),
			Tokens: session.Tokens,
		})
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthRefresh rotates the refresh token and issues a new access token. The
// expired access token still travels in the Authorization header so the
// session id can be recovered from it.
func AuthRefresh(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		var body refreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tokens, err := svc.Refresh(r.Context(), token, body.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tokens)
	}
}

// AuthLogout revokes the refresh mapping tied to the presented access token.
// An already-expired token is still accepted; only the session id matters.
func AuthLogout(svc accounts.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := pkgAuth.ParseAccessTokenAllowExpired(jwtCfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}
		if claims.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if err := svc.Logout(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthProfile returns the authenticated account.
func AuthProfile(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Profile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*userResponse{"user": newUserResponse(user)})
	}
}

func parseBearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}

func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}
