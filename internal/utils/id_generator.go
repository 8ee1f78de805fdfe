package utils

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math/big"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/weqtian/user_center/internal/apperrors"
)

const (
	idModulus = 10_000_000_000
	// DefaultIDAttempts is the retry budget used during registration.
	DefaultIDAttempts = 5
)

// IDGenerator produces candidate identifiers.
type IDGenerator func() string

// IDExistsFunc reports whether a candidate identifier is already taken.
type IDExistsFunc func(ctx context.Context, id string) (bool, error)

var hostIdentifier = sync.OnceValue(func() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "unknown-host"
	}
	return host
})

// GenerateID returns a 10 digit numeric identifier derived from the current
// microsecond timestamp, eight random digits and the host name.
func GenerateID() string {
	digits, err := SecureRandomInt(10_000_000, 99_999_999)
	if err != nil {
		digits = rand.Int64N(90_000_000) + 10_000_000
	}
	seed := fmt.Sprintf("%d%d%s", time.Now().UnixMicro(), digits, hostIdentifier())
	sum := sha256.Sum256([]byte(seed))

	n := new(big.Int).SetBytes(sum[:])
	n.Mod(n, big.NewInt(idModulus))
	return fmt.Sprintf("%010d", n.Int64())
}

// GenerateUniqueID draws candidates from generate until exists reports one as
// free. It gives up with a system error after maxAttempts candidates.
func GenerateUniqueID(ctx context.Context, idName string, generate IDGenerator, exists IDExistsFunc, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultIDAttempts
	}
	logger := zerolog.Ctx(ctx)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate := generate()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", apperrors.System(fmt.Errorf("checking %s uniqueness: %w", idName, err))
		}
		if !taken {
			return candidate, nil
		}
		logger.Debug().Str("id_name", idName).Int("attempt", attempt).Msg("Generated identifier already exists, retrying")
	}

	logger.Error().Str("id_name", idName).Int("attempts", maxAttempts).Msg("Exhausted identifier generation attempts")
	return "", apperrors.System(fmt.Errorf("failed to generate a unique %s after %d attempts", idName, maxAttempts))
}
