// Package token issues and verifies the signed bearer tokens that prove
// possession of a valid session. Tokens are ephemeral: they exist only as
// short-lived credentials and are never persisted.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer is the iss claim used when none is configured.
const DefaultIssuer = "curvaqz"

// Config holds signing configuration with environment variable support.
type Config struct {
	// Secret signs tokens with HMAC-SHA256. An empty secret makes Issue fail;
	// an unsigned token is a security hole, so this is never defaulted.
	Secret   string        `env:"AUTH_SECRET"`
	Issuer   string        `env:"JWT_ISSUER" envDefault:"curvaqz"`
	Audience string        `env:"JWT_AUDIENCE"`
	TTL      time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
}

// Claims is the full claim set carried by an access token.
// Sid ties the token to its session; Subject is set when a user is attached.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access tokens. Stateless and safe for concurrent use.
type Issuer struct {
	cfg Config
}

// NewIssuer creates an Issuer from config, filling in the default issuer name
// and TTL when unset. A missing secret is not an error here: it surfaces on
// the first Issue call so the failure is tied to the request that needed it.
func NewIssuer(cfg Config) *Issuer {
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &Issuer{cfg: cfg}
}

// Issue builds and signs a token for the given session. userID, when non-nil,
// becomes the sub claim. Returns the compact token and its expiry.
func (i *Issuer) Issue(sessionID string, userID *string) (string, time.Time, error) {
	if i.cfg.Secret == "" {
		return "", time.Time{}, ErrMissingSecret
	}

	now := time.Now()
	exp := now.Add(i.cfg.TTL)

	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if i.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.cfg.Audience}
	}
	if userID != nil {
		claims.Subject = *userID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", time.Time{}, errors.Join(ErrSigningFailed, err)
	}

	return signed, exp, nil
}

// Verify parses a token and validates its signature and expiry, plus the
// issuer and audience claims when configured. Returns the decoded claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	if i.cfg.Secret == "" {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(i.cfg.Issuer),
	}
	if i.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(i.cfg.Audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(i.cfg.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
