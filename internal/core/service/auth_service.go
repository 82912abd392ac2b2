package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/launchbase/accounts-api/internal/core/authz"
	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/internal/core/ports"
	"github.com/launchbase/accounts-api/pkg/logger"
)

const minPasswordLen = 8

// AuthService implements sign-up, sign-in, sign-out and token resolution on
// top of the identity and profile stores. Session tokens are HS256 JWTs;
// sign-out revokes the token's jti until its natural expiry.
type AuthService struct {
	identities ports.IdentityRepository
	profiles   ports.ProfileRepository
	sessions   ports.SessionRevoker
	policy     *authz.Policy
	log        *logger.Audit
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAuthService(
	identities ports.IdentityRepository,
	profiles ports.ProfileRepository,
	sessions ports.SessionRevoker,
	policy *authz.Policy,
	log *logger.Audit,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		identities: identities,
		profiles:   profiles,
		sessions:   sessions,
		policy:     policy,
		log:        log,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

// SignUp creates an identity and its matching profile. New accounts always
// start with the plain user role; promotion to admin is an operator action
// on the profile store.
func (s *AuthService) SignUp(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	const source = "service.auth.SignUp"

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.identities.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.log.Warn(source, "sign up rejected, email already registered", domain.CodeValidationError,
				map[string]any{"email": email}, nil)
			return nil, err
		}
		s.log.Error(source, "failed to create identity", domain.CodeDatabaseError,
			map[string]any{"email": email}, err)
		return nil, err
	}

	profile := &domain.Profile{
		ID:        user.ID,
		Email:     email,
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if fullName != "" {
		profile.FullName = &fullName
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		s.log.Error(source, "identity created but profile creation failed", domain.CodeDatabaseError,
			map[string]any{"userId": user.ID}, err)
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.log.Info(source, "user signed up", domain.CodeSuccess, map[string]any{"userId": user.ID})
	return user, nil
}

// SignIn verifies credentials and issues a session token. An authenticated
// identity without a profile is the critical PROFILE_MISSING case: no token
// is issued and the caller surfaces the invalid-account state.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	const source = "service.auth.SignIn"

	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn(source, "sign in failed", domain.CodeUnauthorized,
				map[string]any{"email": email}, nil)
			return nil, domain.ErrInvalidCredentials
		}
		s.log.Error(source, "identity lookup failed", domain.CodeDatabaseError,
			map[string]any{"email": email}, err)
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Warn(source, "sign in failed", domain.CodeUnauthorized,
			map[string]any{"email": email}, nil)
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.fetchProfile(ctx, source, user)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user, profile)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(source, "user signed in", domain.CodeSuccess, map[string]any{"email": email})
	return &ports.Session{Token: token, User: user, Profile: profile}, nil
}

// SignOut revokes the session token. Expired or malformed tokens are not a
// failure; the session is already unusable.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	const source = "service.auth.SignOut"

	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	ttl := s.tokenTTL
	if exp, perr := claims.GetExpirationTime(); perr == nil && exp != nil {
		ttl = time.Until(exp.Time)
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.sessions.Revoke(ctx, jti, ttl); err != nil {
		s.log.Error(source, "failed to revoke session", domain.CodeExternalAPIError,
			map[string]any{"jti": jti}, err)
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info(source, "user signed out", domain.CodeSuccess, nil)
	return nil
}

// Authenticate resolves a session token to its user and profile. Used by the
// session middleware on every request carrying a token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*ports.Session, error) {
	const source = "service.auth.Authenticate"

	claims, err := s.parseToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	jti, _ := claims["jti"].(string)
	if jti != "" {
		revoked, rerr := s.sessions.IsRevoked(ctx, jti)
		if rerr != nil {
			s.log.Error(source, "revocation check failed", domain.CodeExternalAPIError,
				map[string]any{"jti": jti}, rerr)
			return nil, fmt.Errorf("revocation check: %w", rerr)
		}
		if revoked {
			return nil, domain.ErrSessionRevoked
		}
	}

	sub, _ := claims["sub"].(string)
	user, err := s.identities.FindByID(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		s.log.Error(source, "identity lookup failed", domain.CodeDatabaseError,
			map[string]any{"userId": sub}, err)
		return nil, err
	}

	profile, err := s.fetchProfile(ctx, source, user)
	if err != nil {
		return nil, err
	}

	return &ports.Session{Token: token, User: user, Profile: profile}, nil
}

// fetchProfile loads the profile for an authenticated user, classifying a
// missing record as PROFILE_MISSING (logged by the policy engine) and any
// other storage fault as PROFILE_FETCH_ERROR.
func (s *AuthService) fetchProfile(ctx context.Context, source string, user *domain.User) (*domain.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, s.policy.RequireProfile(user, nil, source)
		}
		s.log.Error(source, "profile fetch failed", domain.CodeProfileFetch,
			map[string]any{"userId": user.ID}, err)
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return profile, nil
}

func (s *AuthService) issueToken(user *domain.User, profile *domain.Profile) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  profile.Role,
		"jti":   uuid.NewString(),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseToken(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
