package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

const maxGameID = 99999999

// GenerateNewSessionID - generates a new unique sessionID.
func GenerateNewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateGameID - generates a short numeric identifier players can share.
func GenerateGameID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxGameID))
	if err != nil {
		return "", fmt.Errorf("failed to generate game id: %w", err)
	}

	return n.String(), nil
}
