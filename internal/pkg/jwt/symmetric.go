package jwt

import (
	"errors"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

const minSecretLen = 32

// Symmetric implements JWT signing and verification using an HMAC secret.
type Symmetric struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clocker
	uuid   generator
}

// NewHS256 constructs a Symmetric JWT implementation using HS256.
func NewHS256(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretRequired
	}

	if len(cfg.Secret) < minSecretLen {
		return nil, ErrSigningKeyTooShort
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Symmetric{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		ttl:    ttl,
		clock:  cfg.Clock,
		uuid:   cfg.UUID,
	}, nil
}

// Generate creates a signed JWT for the account.
func (s *Symmetric) Generate(username, role string) (string, error) {
	now := s.clock.Now()

	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS256, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        s.uuid.Generate(),
				Subject:   username,
				Issuer:    s.issuer,
				IssuedAt:  libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(now.Add(s.ttl)),
			},
			Role: role,
		}).
		SignedString(s.secret)
}

// Verify parses and validates a JWT string.
func (s *Symmetric) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS256.Alg()}),
		libJWT.WithTimeFunc(s.clock.Now),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, libJWT.WithIssuer(s.issuer))
	}

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != libJWT.SigningMethodHS256 {
				return nil, ErrInvalidSigningMethod
			}
			return s.secret, nil
		},
		opts...,
	)

	if err != nil {
		switch {
		case errors.Is(err, libJWT.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		case errors.Is(err, libJWT.ErrTokenMalformed):
			return Claims{}, ErrTokenMalformed
		case errors.Is(err, libJWT.ErrTokenSignatureInvalid):
			return Claims{}, ErrTokenSignatureInvalid
		default:
			return Claims{}, errors.Join(ErrInvalidToken, err)
		}
	}

	if !token.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
