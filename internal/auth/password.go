// Package auth implements the credential layer: argon2id password hashing
// and verification, kept apart from the user record.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/gamingrealm/backend/pkg/config"
)

// Params are the argon2id cost parameters baked into each hash
type Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// ParamsFromConfig builds hashing parameters from configuration
func ParamsFromConfig(cfg *config.AuthConfig) Params {
	return Params{
		Memory:  cfg.Argon2Memory,
		Time:    cfg.Argon2Time,
		Threads: cfg.Argon2Threads,
		KeyLen:  cfg.Argon2KeyLen,
		SaltLen: cfg.Argon2SaltLen,
	}
}

// DefaultParams are sensible interactive-login costs
func DefaultParams() Params {
	return Params{
		Memory:  64 * 1024,
		Time:    4,
		Threads: 2,
		KeyLen:  32,
		SaltLen: 16,
	}
}

// HashPassword derives a salted argon2id hash and returns it in the
// self-describing encoded form. The salt is random per call and lives
// inside the encoding; no separate salt column exists anywhere.
func HashPassword(plaintext string, p Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// VerifyPassword compares plaintext against an encoded argon2id hash in
// constant time. Any malformed or foreign encoding verifies as false.
func VerifyPassword(plaintext, encoded string) bool {
	p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, fmt.Errorf("not an argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, fmt.Errorf("malformed version: %w", err)
	}
	if version != argon2.Version {
		return Params{}, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return Params{}, nil, nil, fmt.Errorf("malformed parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("malformed salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("malformed key: %w", err)
	}

	return p, salt, key, nil
}
