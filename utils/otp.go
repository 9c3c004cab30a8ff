// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"log"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/rwahyudi/galeri_backend/models"
)

// GenerateOTP returns a numeric one-time code of the given length, drawn from
// crypto/rand. Each digit is sampled independently so there is no modulo bias.
func GenerateOTP(length int) (string, error) {
	const digits = "0123456789"

	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[n.Int64()]
	}

	return string(code), nil
}

// CheckResendThrottle enforces a minimum interval between OTP issuances per
// phone number. The first caller within the window wins the SETNX; everyone
// else gets ErrRateLimited. A missing or failing Redis disables the throttle
// rather than blocking authentication.
func CheckResendThrottle(ctx context.Context, rdb *redis.Client, phone string, interval time.Duration) error {
	if rdb == nil {
		return nil
	}

	key := "otp_resend:" + phone
	ok, err := rdb.SetNX(ctx, key, time.Now().Unix(), interval).Result()
	if err != nil {
		log.Printf("Warning: OTP throttle check failed for %s: %v", phone, err)
		return nil
	}
	if !ok {
		return models.ErrRateLimited
	}

	return nil
}
