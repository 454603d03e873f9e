package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"booknest/services/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var phonePattern = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)

// Config tunes the OTP flow.
type Config struct {
	// SendsPerHour caps codes sent to one number; zero means unlimited.
	SendsPerHour int
	// TestNumbers maps phone numbers to fixed codes. Sends to these numbers
	// are verified at once and nothing is delivered.
	TestNumbers map[string]string
}

// Gateway is the SMS-OTP identity provider behind the session controller.
type Gateway struct {
	store    *OTPStore
	sender   Sender
	accounts Accounts
	tokens   *Tokens
	cfg      Config
	logger   *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

var _ session.IdentityGateway = (*Gateway)(nil)

func NewGateway(store *OTPStore, sender Sender, accounts Accounts, tokens *Tokens, cfg Config, logger *zap.Logger) *Gateway {
	return &Gateway{
		store:    store,
		sender:   sender,
		accounts: accounts,
		tokens:   tokens,
		cfg:      cfg,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// hide logs infrastructure failures and replaces them with ErrUnavailable so
// driver errors never reach the user.
func (g *Gateway) hide(op string, err error) error {
	if isUserError(err) || errors.Is(err, context.Canceled) {
		return err
	}
	g.logger.Error("Identity operation failed", zap.String("op", op), zap.Error(err))
	return ErrUnavailable
}

func (g *Gateway) allowSend(phone string) bool {
	if g.cfg.SendsPerHour <= 0 {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.limiters[phone]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Hour/time.Duration(g.cfg.SendsPerHour)), g.cfg.SendsPerHour)
		g.limiters[phone] = l
	}
	return l.AllowN(g.now(), 1)
}

// PruneLimiters forgets numbers whose send allowance has fully refilled. A
// fresh limiter for such a number starts out identical.
func (g *Gateway) PruneLimiters() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	pruned := 0
	for phone, l := range g.limiters {
		if l.TokensAt(now) >= float64(l.Burst()) {
			delete(g.limiters, phone)
			pruned++
		}
	}
	return pruned
}

// StartVerification sends a fresh code to phone. timeout bounds the delivery
// hand-off.
func (g *Gateway) StartVerification(ctx context.Context, phone string, timeout time.Duration) (session.Verification, error) {
	if !phonePattern.MatchString(phone) {
		return session.Verification{}, ErrInvalidPhone
	}
	if !g.allowSend(phone) {
		g.logger.Warn("OTP send throttled", zap.String("phone", phone))
		return session.Verification{}, ErrRateLimited
	}

	handle := uuid.NewString()
	if code, ok := g.cfg.TestNumbers[phone]; ok {
		if err := g.store.Save(ctx, handle, phone, code); err != nil {
			return session.Verification{}, g.hide("saveOtp", err)
		}
		g.logger.Debug("Test number verified instantly", zap.String("phone", phone))
		return session.Verification{
			AutoVerified: &session.Credential{VerificationID: handle, SMSCode: code},
		}, nil
	}

	code, err := generateCode()
	if err != nil {
		return session.Verification{}, g.hide("generateOtp", err)
	}
	if err := g.store.Save(ctx, handle, phone, code); err != nil {
		return session.Verification{}, g.hide("saveOtp", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := g.sender.SendCode(ctx, phone, code); err != nil {
		return session.Verification{}, g.hide("sendOtp", fmt.Errorf("failed to send verification code: %w", err))
	}
	g.logger.Info("Verification code sent", zap.String("phone", phone), zap.String("handle", handle))
	return session.Verification{Handle: handle}, nil
}

// SignIn consumes the code in cred and returns the signed-in account.
func (g *Gateway) SignIn(ctx context.Context, cred session.Credential) (session.Account, error) {
	phone, err := g.store.Check(ctx, cred.VerificationID, cred.SMSCode)
	if err != nil {
		return session.Account{}, g.hide("checkOtp", err)
	}
	uid, err := g.accounts.UIDForPhone(ctx, phone)
	if err != nil {
		return session.Account{}, g.hide("resolveAccount", err)
	}
	token, err := g.tokens.Issue(uid, phone)
	if err != nil {
		return session.Account{}, g.hide("issueToken", fmt.Errorf("failed to issue session token: %w", err))
	}
	g.logger.Info("Phone sign-in succeeded", zap.String("uid", uid))
	return session.Account{UID: uid, PhoneNumber: phone, Token: token}, nil
}

func (g *Gateway) CredentialFromHandle(handle, code string) session.Credential {
	return session.Credential{VerificationID: handle, SMSCode: code}
}

// ResumeSession accepts a token previously returned by SignIn.
func (g *Gateway) ResumeSession(_ context.Context, token string) (session.Account, error) {
	uid, phone, err := g.tokens.Parse(token)
	if err != nil {
		return session.Account{}, err
	}
	return session.Account{UID: uid, PhoneNumber: phone, Token: token}, nil
}
