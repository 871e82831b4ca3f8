package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// APIKeyConfig holds the bcrypt hash of the key clients exchange for a bearer token.
type APIKeyConfig struct {
	Hash       string
	BcryptCost int
}

// NewAPIKeyConfig reads AUTOFILL_API_KEY_HASH (required) and BCRYPT_COST (default: 12).
func NewAPIKeyConfig() (*APIKeyConfig, error) {
	hash := os.Getenv("AUTOFILL_API_KEY_HASH")
	if hash == "" {
		return nil, fmt.Errorf("AUTOFILL_API_KEY_HASH is required but not set")
	}
	cost, err := bcryptCostFromEnv()
	if err != nil {
		return nil, err
	}
	return &APIKeyConfig{Hash: hash, BcryptCost: cost}, nil
}

func bcryptCostFromEnv() (int, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		return 12, nil
	}
	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return 0, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}
	if cost < bcrypt.MinCost || cost > 14 {
		return 0, fmt.Errorf("bcrypt cost out of range: %d (must be %d-14)", cost, bcrypt.MinCost)
	}
	return cost, nil
}

// HashAPIKey hashes a raw key for storage in AUTOFILL_API_KEY_HASH.
func HashAPIKey(key string, cost int) (string, error) {
	if key == "" {
		return "", fmt.Errorf("api key is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether key matches the configured hash.
func (c *APIKeyConfig) Verify(key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(key)) == nil
}
