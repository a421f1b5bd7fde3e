// Package jwt issues and verifies session tokens.
//
// Tokens are signed with HS256 and carry the username as subject plus the
// account role. Verification is pure: signature and expiry only, no lookups.
// Context helpers store the verified claims for downstream handlers.
package jwt
