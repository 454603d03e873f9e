package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeOTPDeliver is the asynq task type carrying an OTP to be texted.
const TypeOTPDeliver = "otp:deliver"

// Sender delivers a verification code to a phone number.
type Sender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// OTPDelivery is the payload of a TypeOTPDeliver task.
type OTPDelivery struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// NewOTPDeliveryTask builds the task QueueSender enqueues.
func NewOTPDeliveryTask(phone, code string, ttl time.Duration) (*asynq.Task, error) {
	payload, err := json.Marshal(OTPDelivery{Phone: phone, Code: code})
	if err != nil {
		return nil, err
	}
	// A code delivered after it expired is useless, so stop retrying then.
	return asynq.NewTask(TypeOTPDeliver, payload, asynq.MaxRetry(3), asynq.Deadline(time.Now().Add(ttl))), nil
}

// ParseOTPDelivery decodes a TypeOTPDeliver task payload.
func ParseOTPDelivery(task *asynq.Task) (OTPDelivery, error) {
	var d OTPDelivery
	if err := json.Unmarshal(task.Payload(), &d); err != nil {
		return OTPDelivery{}, fmt.Errorf("invalid %s payload: %w", TypeOTPDeliver, err)
	}
	return d, nil
}

// QueueSender hands codes to the background delivery worker.
type QueueSender struct {
	client *asynq.Client
	ttl    time.Duration
}

func NewQueueSender(client *asynq.Client, codeTTL time.Duration) *QueueSender {
	return &QueueSender{client: client, ttl: codeTTL}
}

func (s *QueueSender) SendCode(ctx context.Context, phone, code string) error {
	task, err := NewOTPDeliveryTask(phone, code, s.ttl)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to queue otp delivery: %w", err)
	}
	return nil
}

// LogSender writes codes to the log instead of texting them. It is used in
// development and by the delivery worker until an SMS provider is configured.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) SendCode(_ context.Context, phone, code string) error {
	s.Logger.Info("Sending OTP", zap.String("phone", phone), zap.String("code", code))
	return nil
}
