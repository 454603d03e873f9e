package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
)

const otpKeyPrefix = "otp:"

// OTPStore keeps pending verifications in Redis, one hash per handle. Codes
// are stored as bcrypt hashes and expire with the key.
type OTPStore struct {
	client      *redis.Client
	ttl         time.Duration
	maxAttempts int
}

func NewOTPStore(client *redis.Client, ttl time.Duration, maxAttempts int) *OTPStore {
	return &OTPStore{client: client, ttl: ttl, maxAttempts: maxAttempts}
}

func otpKey(handle string) string {
	return otpKeyPrefix + handle
}

// Save records code as the pending code for handle.
func (s *OTPStore) Save(ctx context.Context, handle, phone, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}
	key := otpKey(handle)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "phone", phone, "hash", string(hash), "attempts", 0)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// claimAttempt counts one attempt against a pending code and returns its
// phone, hash and the attempt number. An exhausted record is deleted and
// reported as attempt -1. Missing keys return nil and are never recreated.
var claimAttempt = redis.NewScript(`
local f = redis.call('HMGET', KEYS[1], 'phone', 'hash', 'attempts')
if not f[2] then
	return false
end
local max = tonumber(ARGV[1])
local n = tonumber(f[3]) or 0
if max > 0 and n >= max then
	redis.call('DEL', KEYS[1])
	return {f[1], f[2], -1}
end
n = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
return {f[1], f[2], n}
`)

// Check compares code against the pending code for handle and returns the
// phone number it was sent to. A matching code is consumed by exactly one
// caller. Every check counts as an attempt; a mismatch that reaches
// maxAttempts discards the handle.
func (s *OTPStore) Check(ctx context.Context, handle, code string) (string, error) {
	key := otpKey(handle)
	res, err := claimAttempt.Run(ctx, s.client, []string{key}, s.maxAttempts).Slice()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeExpired
	}
	if err != nil {
		return "", fmt.Errorf("failed to read otp: %w", err)
	}
	if len(res) != 3 {
		return "", fmt.Errorf("failed to read otp: unexpected reply %v", res)
	}
	phone, _ := res[0].(string)
	hash, _ := res[1].(string)
	attempt, _ := res[2].(int64)
	if attempt < 0 {
		return "", ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		if s.maxAttempts > 0 && attempt >= int64(s.maxAttempts) {
			s.client.Del(ctx, key)
		}
		return "", ErrInvalidCode
	}

	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to consume otp: %w", err)
	}
	if n != 1 {
		return "", ErrCodeExpired
	}
	return phone, nil
}
