package cryptography

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"
	"github.com/MGTheTrain/notes-app/internal/pkg/validators"
	"golang.org/x/crypto/argon2"
)

// Argon2Params are the cost parameters of argon2id
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the parameters used for new hashes
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      19 * 1024,
		Iterations:  2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// argon2Hasher struct that implements the PasswordHasher interface
type argon2Hasher struct {
	params Argon2Params
	logger logger.Logger
}

// NewArgon2Hasher creates and returns a new instance of argon2Hasher
func NewArgon2Hasher(params Argon2Params, logger logger.Logger) (users.PasswordHasher, error) {
	if params.Iterations == 0 || params.Memory == 0 || params.Parallelism == 0 {
		return nil, fmt.Errorf("argon2 parameters must be positive")
	}
	if params.SaltLength < 8 || params.KeyLength < 16 {
		return nil, fmt.Errorf("argon2 salt must be at least 8 and key at least 16 bytes")
	}
	return &argon2Hasher{
		params: params,
		logger: logger,
	}, nil
}

func checkPassword(password string) error {
	if password == "" {
		return users.ErrEmptyPassword
	}
	if len(password) > validators.MaxPasswordLength {
		return &users.ExceededMaxPasswordLengthError{Max: validators.MaxPasswordLength}
	}
	return nil
}

// Hash derives a PHC formatted argon2id hash of password using a random salt
func (h *argon2Hasher) Hash(password string) (string, error) {
	if err := checkPassword(password); err != nil {
		return "", err
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		h.logger.Error("Failed to read salt: ", err)
		return "", users.ErrHashing
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Compare checks password against a PHC formatted hash. The cost parameters are read from the hash.
func (h *argon2Hasher) Compare(password, hash string) (bool, error) {
	if err := checkPassword(password); err != nil {
		return false, err
	}

	params, salt, key, err := decodeHash(hash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func decodeHash(hash string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params, nil, nil, users.ErrInvalidHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, users.ErrInvalidHashFormat
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, users.ErrInvalidHashFormat
	}
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return params, nil, nil, users.ErrInvalidHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, users.ErrInvalidHashFormat
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, users.ErrInvalidHashFormat
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))

	return params, salt, key, nil
}
