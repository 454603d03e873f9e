package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"booknest/services/identity"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type captureSender struct {
	phone, code string
	err         error
}

func (s *captureSender) SendCode(_ context.Context, phone, code string) error {
	s.phone, s.code = phone, code
	return s.err
}

func TestHandleOTPDelivery(t *testing.T) {
	sender := &captureSender{}
	handler := HandleOTPDelivery(sender, zaptest.NewLogger(t))

	task, err := identity.NewOTPDeliveryTask("+919876543210", "123456", time.Minute)
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	assert.Equal(t, "+919876543210", sender.phone)
	assert.Equal(t, "123456", sender.code)
}

func TestHandleOTPDeliveryErrors(t *testing.T) {
	sender := &captureSender{err: errors.New("sms gateway timeout")}
	handler := HandleOTPDelivery(sender, zaptest.NewLogger(t))

	task, err := identity.NewOTPDeliveryTask("+919876543210", "123456", time.Minute)
	require.NoError(t, err)
	err = handler(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))

	err = handler(context.Background(), asynq.NewTask(identity.TypeOTPDeliver, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
