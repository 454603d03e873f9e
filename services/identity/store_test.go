package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPStoreCheckConsumesCode(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewOTPStore(client, 5*time.Minute, 3)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "h1", "+919876543210", "123456"))
	assert.True(t, mr.Exists("otp:h1"))
	assert.NotEqual(t, "123456", mr.HGet("otp:h1", "hash"))

	phone, err := store.Check(ctx, "h1", "123456")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", phone)

	_, err = store.Check(ctx, "h1", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestOTPStoreExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewOTPStore(client, time.Minute, 3)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "h1", "+919876543210", "123456"))
	mr.FastForward(2 * time.Minute)

	_, err := store.Check(ctx, "h1", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestOTPStoreMaxAttempts(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewOTPStore(client, 5*time.Minute, 2)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "h1", "+919876543210", "123456"))

	_, err := store.Check(ctx, "h1", "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, "1", mr.HGet("otp:h1", "attempts"))

	_, err = store.Check(ctx, "h1", "111111")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.False(t, mr.Exists("otp:h1"))

	_, err = store.Check(ctx, "h1", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestOTPStoreRejectsExhaustedHandle(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewOTPStore(client, 5*time.Minute, 3)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "h1", "+919876543210", "123456"))
	mr.HSet("otp:h1", "attempts", "3")

	_, err := store.Check(ctx, "h1", "123456")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.False(t, mr.Exists("otp:h1"))
}

func concurrentChecks(store *OTPStore, n int, handle, code string) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Check(context.Background(), handle, code)
		}(i)
	}
	wg.Wait()
	return errs
}

func TestOTPStoreCodeConsumedOnceUnderConcurrency(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewOTPStore(client, 5*time.Minute, 10)
	require.NoError(t, store.Save(context.Background(), "h1", "+919876543210", "123456"))

	succeeded := 0
	for _, err := range concurrentChecks(store, 6, "h1", "123456") {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrCodeExpired)
	}
	assert.Equal(t, 1, succeeded)
}

func TestOTPStoreAttemptLimitHoldsUnderConcurrency(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewOTPStore(client, 5*time.Minute, 3)
	require.NoError(t, store.Save(context.Background(), "h1", "+919876543210", "123456"))

	invalid := 0
	for _, err := range concurrentChecks(store, 10, "h1", "000000") {
		if errors.Is(err, ErrInvalidCode) {
			invalid++
		}
	}
	assert.Equal(t, 3, invalid)
	assert.False(t, mr.Exists("otp:h1"))

	_, err := store.Check(context.Background(), "h1", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestOTPStoreCheckKeepsExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewOTPStore(client, time.Minute, 3)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "h1", "+919876543210", "123456"))
	_, err := store.Check(ctx, "h1", "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, time.Minute, mr.TTL("otp:h1"))

	_, err = store.Check(ctx, "h2", "000000")
	assert.ErrorIs(t, err, ErrCodeExpired)
	assert.False(t, mr.Exists("otp:h2"))
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]{6}$`, code)
	}
}
