package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const (
	ApiKeyPrefix    = "fs_"
	apiKeyShownHead = 10
)

func GenerateRandomKey(length int) (string, error) {
	b := make([]byte, length)
	// err == nil only if we read len(b) bytes
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateApiKey returns a new plaintext key and the short prefix that is
// safe to display in listings.
func GenerateApiKey() (key, prefix string, err error) {
	random, err := GenerateRandomKey(24)
	if err != nil {
		return "", "", err
	}

	key = ApiKeyPrefix + random
	return key, key[:apiKeyShownHead], nil
}

// HashKey is the lookup form of an API key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
