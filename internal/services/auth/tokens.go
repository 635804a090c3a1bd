package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	APIKeyPrefix     = "tindai_"
	ClaimTokenPrefix = "tindai_claim_"

	apiKeyBodyLength     = 32
	claimTokenBodyLength = 24

	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

func NewAPIKey() (string, error) {
	body, err := randomString(apiKeyBodyLength)
	if err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return APIKeyPrefix + body, nil
}

func NewClaimToken() (string, error) {
	body, err := randomString(claimTokenBodyLength)
	if err != nil {
		return "", fmt.Errorf("generate claim token: %w", err)
	}
	return ClaimTokenPrefix + body, nil
}

// LooksLikeAPIKey checks the key shape before any store lookup.
func LooksLikeAPIKey(key string) bool {
	if !strings.HasPrefix(key, APIKeyPrefix) || strings.HasPrefix(key, ClaimTokenPrefix) {
		return false
	}
	body := strings.TrimPrefix(key, APIKeyPrefix)
	if len(body) != apiKeyBodyLength {
		return false
	}
	for _, r := range body {
		if !strings.ContainsRune(tokenAlphabet, r) {
			return false
		}
	}
	return true
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid token size")
	}

	limit := big.NewInt(int64(len(tokenAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = tokenAlphabet[idx.Int64()]
	}
	return string(b), nil
}
