package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Credentials is the auth material for one connection attempt. It is derived
// from the stored bearer token every time a connect starts and never persisted.
type Credentials struct {
	SubjectID string
	Role      string
	Bearer    string
}

// DeriveCredentials decodes the claims segment of the bearer token without
// signature verification and extracts the subject identifier. The server is
// the verifying party; the client only needs the identity for the handshake.
func DeriveCredentials(store Store, role string) (*Credentials, error) {
	bearer, err := store.Token()
	if err != nil {
		return nil, fmt.Errorf("acquiring bearer token: %w", err)
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(bearer, claims); err != nil {
		return nil, fmt.Errorf("decoding bearer token claims: %w", err)
	}

	subject := claimString(claims, "sub", "user_id", "userId", "id")
	if subject == "" {
		return nil, fmt.Errorf("bearer token carries no subject identifier")
	}

	return &Credentials{
		SubjectID: subject,
		Role:      role,
		Bearer:    bearer,
	}, nil
}

// claimString returns the first present, non-blank string claim among keys.
func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
