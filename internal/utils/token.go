package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for auth tokens
    "encoding/hex"  // hex encoding functions
    "time"          // time utilities for generating expirations
)

// AuthToken represents an opaque bearer token bound to a single user.  The
// Raw field contains the random token string returned to the client once,
// at login.  The Exp field records when it expires.  In the database only a
// SHA-256 hash of the raw string is stored, so a leaked table cannot be
// replayed as live credentials.
type AuthToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewAuthToken returns a cryptographically secure random token and its
// expiration time.  The ttlHours parameter controls how many hours the
// token remains valid; resolution treats an expired token the same as an
// unknown one.
func NewAuthToken(ttlHours int) (AuthToken, error) {
    raw, err := randomHex(32) // 32 bytes -> 64 hex chars
    if err != nil {
        return AuthToken{}, err
    }
    return AuthToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour),
    }, nil
}

// HashTokenRaw returns the SHA-256 hash of the raw token as a hex string.
// Only this value is persisted; lookups hash the presented token and match
// on the digest.
func HashTokenRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
