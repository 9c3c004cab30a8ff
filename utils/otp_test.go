package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "non-digit %q in code %q", r, code)
		}
	}
}

func TestGenerateOTPNotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP(6)
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "repeated draws produced a single code")
}

func TestCheckResendThrottleWithoutRedis(t *testing.T) {
	// No Redis means no throttle rather than no service.
	err := CheckResendThrottle(context.Background(), nil, "6285157300793", time.Minute)
	assert.NoError(t, err)
}
