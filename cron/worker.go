package cron

import (
	"context"
	"errors"
	"time"

	"booknest/services/identity"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// OTPWorker delivers the codes queued by identity.QueueSender.
type OTPWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewOTPWorker builds a worker that hands each queued code to sender.
func NewOTPWorker(redisOpt asynq.RedisClientOpt, sender identity.Sender, logger *zap.Logger) *OTPWorker {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(identity.TypeOTPDeliver, HandleOTPDelivery(sender, logger))

	return &OTPWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying a failed start with
// a growing delay.
func (w *OTPWorker) Start() {
	go func() {
		w.logger.Info("[OTPWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			if errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			w.logger.Warn("[OTPWorker] Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("[OTPWorker] Max retry attempts reached, OTP delivery is disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight deliveries and stops the worker.
func (w *OTPWorker) Shutdown() {
	w.srv.Shutdown()
}

// HandleOTPDelivery decodes an OTP delivery task and sends the code.
func HandleOTPDelivery(sender identity.Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		d, err := identity.ParseOTPDelivery(task)
		if err != nil {
			logger.Error("[OTPHandler] Invalid payload", zap.Error(err))
			// Retrying cannot fix a malformed payload.
			return errors.Join(err, asynq.SkipRetry)
		}

		if err := sender.SendCode(ctx, d.Phone, d.Code); err != nil {
			logger.Warn("[OTPHandler] Failed to deliver OTP", zap.String("phone", d.Phone), zap.Error(err))
			return err
		}
		return nil
	}
}
