package session

import (
	"context"

	"go.uber.org/zap"
)

// checkAuthentication resolves the LOADING auth status. A session token
// presented at creation is handed to the identity provider; without one the
// session is unauthenticated.
func (c *Controller) checkAuthentication() {
	c.update(func(s State) State {
		s.AuthStatus = AuthLoading
		return s
	})

	token := c.opts.sessionToken
	c.launch(func(ctx context.Context, epoch uint64) {
		status := AuthUnauthenticated
		var account *Account
		if token != "" {
			acct, err := c.identity.ResumeSession(ctx, token)
			if err != nil {
				c.logger.Info("session: stored token rejected", zap.Error(err))
			} else {
				status = AuthAuthenticated
				account = &acct
			}
		}

		c.mu.Lock()
		if c.epoch == epoch && account != nil {
			c.account = account
		}
		c.mu.Unlock()

		c.complete(epoch, func(s State) State {
			s.AuthStatus = status
			return s
		})
	})
}

func (c *Controller) sendOtp() {
	s := c.update(func(s State) State {
		s.IsLoading = true
		s.IsOtpSent = true
		s.ResendTimer = c.opts.resendSeconds
		return s
	})
	c.restartCountdown()

	phone := "+" + c.opts.countryPrefix + s.PhoneNumber
	timeout := c.opts.verifyTimeout
	c.logger.Debug("session: sending otp", zap.String("phone", phone))

	c.launch(func(ctx context.Context, epoch uint64) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		v, err := c.identity.StartVerification(ctx, phone, timeout)
		if err != nil {
			c.fail(epoch, "sendOtp", err)
			return
		}

		if v.AutoVerified != nil {
			cred := *v.AutoVerified
			c.storeHandle(epoch, cred.VerificationID)
			c.complete(epoch, func(s State) State {
				s.IsLoading = false
				s.IsVerificationSuccess = true
				s.Otp = cred.SMSCode
				return s
			})
			return
		}

		c.storeHandle(epoch, v.Handle)
		if c.complete(epoch, func(s State) State {
			s.IsLoading = false
			s.ResendTimer = c.opts.resendSeconds
			return s
		}) {
			c.restartCountdown()
		}
	})
}

// storeHandle keeps the verification handle out of the snapshot; only the
// controller needs it to build a credential later.
func (c *Controller) storeHandle(epoch uint64, handle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch == epoch {
		c.verificationID = handle
	}
}

func (c *Controller) verifyOtp(cred Credential) {
	c.update(func(s State) State {
		s.IsLoading = true
		return s
	})

	c.launch(func(ctx context.Context, epoch uint64) {
		acct, err := c.identity.SignIn(ctx, cred)
		if err != nil {
			msg := err.Error()
			if msg == "" {
				msg = MsgInvalidOtp
			}
			c.logger.Info("session: sign-in failed", zap.Error(err))
			c.complete(epoch, func(s State) State {
				s.IsLoading = false
				s.ErrorMessage = message(msg)
				return s
			})
			return
		}

		c.mu.Lock()
		if c.epoch == epoch {
			c.account = &acct
		}
		c.mu.Unlock()

		c.complete(epoch, func(s State) State {
			s.IsLoading = false
			s.IsVerificationSuccess = true
			s.ErrorMessage = nil
			s.AuthStatus = AuthAuthenticated
			return s
		})
	})
}

// VerifyOtpManually checks a code typed by the user against the handle of
// the last code sent. Without a handle no gateway call is made.
func (c *Controller) VerifyOtpManually(code string) {
	c.mu.Lock()
	handle := c.verificationID
	c.mu.Unlock()

	if handle == "" {
		c.update(func(s State) State {
			s.ErrorMessage = message(MsgVerifyNotStarted)
			return s
		})
		return
	}
	c.Dispatch(VerifyOtpWithCredential{Credential: c.identity.CredentialFromHandle(handle, code)})
}
