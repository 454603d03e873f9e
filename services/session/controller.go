package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCountryPrefix = "91"
	defaultVerifyTimeout = 60 * time.Second
	defaultResendSeconds = 60
	defaultCountdownTick = time.Second
)

type options struct {
	logger        *zap.Logger
	countryPrefix string
	verifyTimeout time.Duration
	resendSeconds int
	countdownTick time.Duration
	sessionToken  string
	newTicker     func(d time.Duration) (<-chan time.Time, func())
}

// Option configures a Controller.
type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCountryPrefix sets the dialling code prepended to the phone number, without "+".
func WithCountryPrefix(prefix string) Option {
	return func(o *options) { o.countryPrefix = prefix }
}

func WithVerificationTimeout(d time.Duration) Option {
	return func(o *options) { o.verifyTimeout = d }
}

// WithResendSeconds sets the value the resend timer restarts from on every send.
func WithResendSeconds(n int) Option {
	return func(o *options) { o.resendSeconds = n }
}

// WithCountdownTick sets the resend countdown period. Zero disables the
// automatic countdown; DecrementResendTimer must then be dispatched by hand.
func WithCountdownTick(d time.Duration) Option {
	return func(o *options) { o.countdownTick = d }
}

// WithSessionToken sets the token the startup check tries to resume.
func WithSessionToken(token string) Option {
	return func(o *options) { o.sessionToken = token }
}

func systemTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Controller owns one session's State. Every change is applied as
// "replace the snapshot with f(snapshot)" under a single lock, whether it
// comes from Dispatch or from a finished gateway call.
type Controller struct {
	identity IdentityGateway
	data     DataGateway
	opts     options
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// dispatchMu keeps intents from interleaving with each other.
	dispatchMu sync.Mutex

	mu             sync.Mutex
	state          State
	epoch          uint64 // bumped on logout; stale completions are dropped
	verificationID string
	account        *Account
	subs           map[int]chan State
	nextSub        int
	closed         bool

	countdownMu     sync.Mutex
	countdownID     uint64
	countdownCancel context.CancelFunc

	wg        sync.WaitGroup // gateway calls
	countdown sync.WaitGroup
	startOnce sync.Once
}

// New builds a controller holding the default state. Nothing is fetched
// until Start is called.
func New(identity IdentityGateway, data DataGateway, opts ...Option) *Controller {
	o := options{
		logger:        zap.L(),
		countryPrefix: defaultCountryPrefix,
		verifyTimeout: defaultVerifyTimeout,
		resendSeconds: defaultResendSeconds,
		countdownTick: defaultCountdownTick,
		newTicker:     systemTicker,
	}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		identity: identity,
		data:     data,
		opts:     o,
		logger:   o.logger,
		ctx:      ctx,
		cancel:   cancel,
		state:    NewState(),
		subs:     make(map[int]chan State),
	}
}

// Start runs the startup authentication check and loads the hotel and
// places feeds. Only the first call has an effect.
func (c *Controller) Start() {
	c.startOnce.Do(func() {
		c.checkAuthentication()
		c.Dispatch(FetchHotels{})
		c.Dispatch(FetchBestPlaces{})
	})
}

// Current returns a copy of the latest snapshot.
func (c *Controller) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Dispatch applies an intent. It never blocks on gateway calls; their
// outcome shows up in a later snapshot.
func (c *Controller) Dispatch(in Intent) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()
	if c.isClosed() {
		return
	}

	switch in := in.(type) {
	case SendOtpClicked:
		c.sendOtp()
	case VerifyOtpWithCredential:
		c.verifyOtp(in.Credential)
	case LogoutClicked:
		c.logout()
	case FetchHotels:
		c.fetchHotels()
	case HotelSelected:
		c.fetchRoomsForHotel(in.Hotel)
	case SearchClicked:
		c.searchHotels()
	case FetchBestPlaces:
		c.fetchBestPlaces()
	case FetchPlaceDetailsByID:
		c.fetchPlaceDetailsByID(in.ID)
	default:
		c.update(func(s State) State { return reduce(s, in) })
	}
}

// Subscribe returns a channel that always holds the latest snapshot. Slow
// readers skip intermediate snapshots. The channel is closed by the returned
// func or when the controller closes.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state.clone()
	c.mu.Unlock()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Account returns the account established by sign-in or by the startup check.
func (c *Controller) Account() (Account, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.account == nil {
		return Account{}, false
	}
	return *c.account, true
}

// Wait blocks until every gateway call started so far has been applied.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels outstanding work, waits for it and closes all subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	c.cancel()
	c.stopCountdown()
	c.wg.Wait()
	c.countdown.Wait()
	for _, ch := range subs {
		close(ch)
	}
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// update replaces the snapshot with f(snapshot) and returns the result.
func (c *Controller) update(f func(State) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state
	}
	c.state = f(c.state)
	c.publishLocked()
	return c.state
}

// complete is update for gateway results: it is a no-op when the session
// was logged out after the call was started.
func (c *Controller) complete(epoch uint64, f func(State) State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.epoch != epoch {
		return false
	}
	c.state = f(c.state)
	c.publishLocked()
	return true
}

// fail records a gateway failure as the session's error message.
func (c *Controller) fail(epoch uint64, op string, err error) {
	c.logger.Warn("session: gateway call failed", zap.String("op", op), zap.Error(err))
	c.complete(epoch, func(s State) State {
		s.IsLoading = false
		s.ErrorMessage = message(err.Error())
		return s
	})
}

func (c *Controller) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	snap := c.state.clone()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// launch runs fn on its own goroutine with the epoch current at call time.
func (c *Controller) launch(fn func(ctx context.Context, epoch uint64)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	epoch := c.epoch
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		fn(c.ctx, epoch)
	}()
}

func (c *Controller) snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) logout() {
	c.stopCountdown()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.verificationID = ""
	c.account = nil
	c.state = reduce(c.state, LogoutClicked{})
	c.publishLocked()
	c.logger.Info("session: logged out")
}
