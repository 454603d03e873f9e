package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"booknest/services/session"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestGateway(t *testing.T, cfg Config) (*Gateway, *recordingSender) {
	t.Helper()
	_, client := newTestRedis(t)
	sender := &recordingSender{}
	g := NewGateway(
		NewOTPStore(client, 5*time.Minute, 3),
		sender,
		StaticAccounts{},
		NewTokens("secret", time.Hour),
		cfg,
		zaptest.NewLogger(t),
	)
	return g, sender
}

func TestGatewaySendAndSignIn(t *testing.T) {
	g, sender := newTestGateway(t, Config{})
	ctx := context.Background()

	v, err := g.StartVerification(ctx, "+919876543210", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, v.AutoVerified)
	require.NotEmpty(t, v.Handle)

	sent := sender.last()
	assert.Equal(t, "+919876543210", sent.phone)

	_, err = g.SignIn(ctx, g.CredentialFromHandle(v.Handle, "wrong"))
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, "Invalid OTP.", err.Error())

	acct, err := g.SignIn(ctx, g.CredentialFromHandle(v.Handle, sent.code))
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", acct.PhoneNumber)
	assert.NotEmpty(t, acct.UID)
	assert.NotEmpty(t, acct.Token)

	resumed, err := g.ResumeSession(ctx, acct.Token)
	require.NoError(t, err)
	assert.Equal(t, acct, resumed)
}

func TestGatewayTestNumbersAutoVerify(t *testing.T) {
	g, sender := newTestGateway(t, Config{TestNumbers: map[string]string{"+911234567890": "111111"}})
	ctx := context.Background()

	v, err := g.StartVerification(ctx, "+911234567890", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, v.AutoVerified)
	assert.Equal(t, "111111", v.AutoVerified.SMSCode)
	assert.Empty(t, sender.sent)

	_, err = g.SignIn(ctx, *v.AutoVerified)
	require.NoError(t, err)
}

func TestGatewayRejectsMalformedPhone(t *testing.T) {
	g, sender := newTestGateway(t, Config{})

	for _, phone := range []string{"", "+91", "919876543210", "+91 98765 43210", "+91abc"} {
		_, err := g.StartVerification(context.Background(), phone, time.Minute)
		assert.ErrorIs(t, err, ErrInvalidPhone, phone)
	}
	assert.Empty(t, sender.sent)
}

func TestGatewayThrottlesSends(t *testing.T) {
	g, _ := newTestGateway(t, Config{SendsPerHour: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := g.StartVerification(ctx, "+919876543210", time.Minute)
		require.NoError(t, err)
	}
	_, err := g.StartVerification(ctx, "+919876543210", time.Minute)
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = g.StartVerification(ctx, "+919876543211", time.Minute)
	assert.NoError(t, err)
}

func TestGatewayPrunesRefilledLimiters(t *testing.T) {
	g, _ := newTestGateway(t, Config{SendsPerHour: 2})
	now := time.Now()
	g.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := g.StartVerification(ctx, "+919876543210", time.Minute)
	require.NoError(t, err)
	_, err = g.StartVerification(ctx, "+919812345678", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 0, g.PruneLimiters())
	assert.Len(t, g.limiters, 2)

	now = now.Add(31 * time.Minute)
	assert.Equal(t, 2, g.PruneLimiters())
	assert.Empty(t, g.limiters)

	for i := 0; i < 2; i++ {
		_, err = g.StartVerification(ctx, "+919876543210", time.Minute)
		require.NoError(t, err)
	}
	_, err = g.StartVerification(ctx, "+919876543210", time.Minute)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGatewaySendFailure(t *testing.T) {
	g, sender := newTestGateway(t, Config{})
	sender.err = errors.New("sms provider down")

	_, err := g.StartVerification(context.Background(), "+919876543210", time.Minute)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotContains(t, err.Error(), "sms provider down")
}

func TestGatewayHidesStoreFailures(t *testing.T) {
	mr, client := newTestRedis(t)
	core, logs := observer.New(zap.ErrorLevel)
	g := NewGateway(
		NewOTPStore(client, 5*time.Minute, 3),
		&recordingSender{},
		StaticAccounts{},
		NewTokens("secret", time.Hour),
		Config{},
		zap.New(core),
	)
	mr.Close()

	_, err := g.StartVerification(context.Background(), "+919876543210", time.Minute)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, ErrUnavailable.Error(), err.Error())

	_, err = g.SignIn(context.Background(), g.CredentialFromHandle("h1", "123456"))
	require.ErrorIs(t, err, ErrUnavailable)

	entries := logs.FilterMessage("Identity operation failed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "saveOtp", entries[0].ContextMap()["op"])
	assert.Equal(t, "checkOtp", entries[1].ContextMap()["op"])
}

func TestGatewayRejectsForeignToken(t *testing.T) {
	g, _ := newTestGateway(t, Config{})
	_, err := g.ResumeSession(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOTPDeliveryTaskRoundTrip(t *testing.T) {
	task, err := NewOTPDeliveryTask("+919876543210", "123456", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, TypeOTPDeliver, task.Type())

	d, err := ParseOTPDelivery(task)
	require.NoError(t, err)
	assert.Equal(t, OTPDelivery{Phone: "+919876543210", Code: "123456"}, d)

	_, err = ParseOTPDelivery(asynq.NewTask(TypeOTPDeliver, []byte("{")))
	assert.Error(t, err)
}

var _ session.IdentityGateway = (*Gateway)(nil)
