// Package auth verifies bearer tokens and applies the role policy.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/config"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("not permitted")
)

func forbidden(id *Identity, what, action string) error {
	return fmt.Errorf("%w: role %s cannot %s %s", ErrForbidden, id.Role, action, what)
}

// Identity is an authenticated user.
type Identity struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	ProfileID uint   `json:"profile_id,omitempty"`
}

// Authenticator turns a bearer token into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// ProfileLookup finds the profile of a user.
type ProfileLookup interface {
	ProfileByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// JWTProvider verifies HS256 tokens and reads roles from profiles.
type JWTProvider struct {
	secret   []byte
	issuer   string
	profiles ProfileLookup
}

func NewJWTProvider(cfg config.Auth, profiles ProfileLookup) *JWTProvider {
	return &JWTProvider{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		profiles: profiles,
	}
}

// Authenticate verifies the token. Users without a profile are members.
func (p *JWTProvider) Authenticate(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims", ErrUnauthenticated)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrUnauthenticated)
	}

	id := &Identity{UserID: sub, Role: RoleMembro}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}

	profile, err := p.profiles.ProfileByUserID(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile != nil {
		id.ProfileID = profile.ID
		id.Name = profile.Name
		if profile.Email != "" {
			id.Email = profile.Email
		}
		if role, ok := ParseRole(profile.Role); ok {
			id.Role = role
		}
	}
	return id, nil
}

// MintToken signs a token for sub, valid for ttl.
func MintToken(secret, issuer, sub string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("secret cannot be empty")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if issuer != "" {
		claims["iss"] = issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GormProfiles reads profiles from the record store.
type GormProfiles struct {
	db *gorm.DB
}

func NewGormProfiles(db *gorm.DB) *GormProfiles {
	return &GormProfiles{db: db}
}

func (g *GormProfiles) ProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
