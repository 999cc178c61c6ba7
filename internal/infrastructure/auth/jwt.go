package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned for any bearer token that cannot be trusted
var ErrInvalidToken = errors.New("invalid token")

// DefaultTokenTTL is the lifetime of tokens minted by Issuer when none is configured
const DefaultTokenTTL = 8 * time.Hour

// Claims is the BPMS token payload: the registered claims plus the user profile
type Claims struct {
	jwt.RegisteredClaims
	Email        string               `json:"email"`
	Partner      string               `json:"partner"`
	Applications []entity.Application `json:"application"`
}

// User converts the claims into the domain user
func (c *Claims) User() *entity.User {
	return &entity.User{
		Email:        c.Email,
		Partner:      c.Partner,
		Applications: c.Applications,
	}
}

// Config holds token signing settings
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// JWTVerifier implements port.TokenVerifier for HS256 tokens
type JWTVerifier struct {
	secret []byte
	issuer string
	now    func() time.Time
	logger *zap.Logger
}

// NewJWTVerifier creates a verifier for tokens signed with cfg.Secret
func NewJWTVerifier(cfg Config, logger *zap.Logger) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		now:    time.Now,
		logger: logger,
	}
}

// Verify parses token and returns the user it was issued for
func (v *JWTVerifier) Verify(ctx context.Context, token string) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		v.logger.Debug("Rejected bearer token", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}

	return claims.User(), nil
}

// Issuer mints tokens with the same secret, for local development and tests
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates a token issuer
func NewIssuer(cfg Config) *Issuer {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for user
func (i *Issuer) Issue(user *entity.User) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email:        user.Email,
		Partner:      user.Partner,
		Applications: user.Applications,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("JWT signing: %w", err)
	}
	return signed, nil
}

var _ port.TokenVerifier = (*JWTVerifier)(nil)
