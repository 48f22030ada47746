package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess        TokenType = "access"
	TokenTypeImpersonation TokenType = "impersonation"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Claims represents custom JWT claims. ImpersonatorID is set only on
// impersonation tokens and carries the platform admin's identity.
type Claims struct {
	jwt.RegisteredClaims
	TenantID       string    `json:"tenant_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role,omitempty"`
	TokenType      TokenType `json:"token_type"`
	ImpersonatorID string    `json:"impersonator_id,omitempty"`
}

// JWTService handles JWT token operations
type JWTService struct {
	secret                  []byte
	accessExpiration        time.Duration
	impersonationExpiration time.Duration
	issuer                  string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:                  []byte(cfg.Secret),
		accessExpiration:        cfg.AccessTokenExpiration,
		impersonationExpiration: cfg.ImpersonationExpiration,
		issuer:                  cfg.Issuer,
	}
}

// GenerateAccessToken generates a tenant-scoped access token
func (s *JWTService) GenerateAccessToken(tenantID, userID uuid.UUID, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessExpiration)

	claims := &Claims{
		RegisteredClaims: s.registeredClaims(userID, now, expiresAt),
		TenantID:         tenantID.String(),
		UserID:           userID.String(),
		Role:             role,
		TokenType:        TokenTypeAccess,
	}

	token, err := s.generateToken(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// IssueImpersonationToken generates a tenant-scoped token that acts as
// the target user while recording the impersonating admin in the
// impersonator_id claim. Implements the audit application's TokenIssuer.
func (s *JWTService) IssueImpersonationToken(adminID, tenantID, userID uuid.UUID, userRole string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.impersonationExpiration)

	claims := &Claims{
		RegisteredClaims: s.registeredClaims(userID, now, expiresAt),
		TenantID:         tenantID.String(),
		UserID:           userID.String(),
		Role:             userRole,
		TokenType:        TokenTypeImpersonation,
		ImpersonatorID:   adminID.String(),
	}

	token, err := s.generateToken(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *JWTService) registeredClaims(subject uuid.UUID, now, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    s.issuer,
		Subject:   subject.String(),
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

// generateToken creates a signed JWT token
func (s *JWTService) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a token of either type and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != TokenTypeAccess && claims.TokenType != TokenTypeImpersonation {
		return nil, ErrInvalidTokenType
	}
	if claims.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}

	return claims, nil
}

// GetTenantUUID extracts and parses the tenant ID from claims
func (c *Claims) GetTenantUUID() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

// GetUserUUID extracts and parses the user ID from claims
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// GetImpersonatorUUID extracts the impersonating admin ID, if present
func (c *Claims) GetImpersonatorUUID() (uuid.UUID, bool, error) {
	if c.ImpersonatorID == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(c.ImpersonatorID)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

// IsImpersonation reports whether the token was minted for an
// impersonation session
func (c *Claims) IsImpersonation() bool {
	return c.TokenType == TokenTypeImpersonation
}
