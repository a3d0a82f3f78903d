package keys

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

var (
	InitPublicKey = sync.OnceValues(func() (*rsa.PublicKey, error) {
		verifyBytes, err := decodeEnv("RSA_PUBLIC_KEY")
		if err != nil {
			return nil, err
		}
		return jwt.ParseRSAPublicKeyFromPEM(verifyBytes)
	})

	InitPrivateKey = sync.OnceValues(func() (*rsa.PrivateKey, error) {
		signBytes, err := decodeEnv("RSA_PRIVATE_KEY")
		if err != nil {
			return nil, err
		}
		return jwt.ParseRSAPrivateKeyFromPEM(signBytes)
	})
)

// decodeEnv reads a base64 encoded PEM block from the environment.
func decodeEnv(key string) ([]byte, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, fmt.Errorf("env %s is required", key)
	}
	response, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("env %s: %w", key, err)
	}
	return response, nil
}
