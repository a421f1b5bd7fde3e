package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretRequired       = errors.New("JWT signing secret is required")
	ErrSigningKeyTooShort   = errors.New("HS256 signing key must be at least 32 bytes (256 bits)")
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")
	ErrTokenExpired         = errors.New("JWT token has expired")

	// ErrInvalidToken is the parent of every parse or signature failure.
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenMalformed        = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
)

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 30 * time.Minute

// JWT issues session tokens and verifies them.
type JWT interface {
	Generate(username, role string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config holds the signer inputs. Issuer is optional and TTL falls back to
// DefaultTTL.
type Config struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Clock  clocker
	// UUID generates the jti claim.
	UUID generator
}

// Claims wraps registered claims with the account role.
type Claims struct {
	jwt.RegisteredClaims
	// Role is the account role, ADMIN or USER.
	Role string `json:"role"`
}

// Username returns the token subject.
func (c Claims) Username() string {
	return c.Subject
}

// GetAuth returns the verified claims of the request, or nil.
func GetAuth(ctx context.Context) *Claims {
	if clm, ok := ctx.Value(jwtContextKey{}).(Claims); ok {
		return &clm
	}
	return nil
}

// SetAuth stores verified claims for downstream handlers.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
