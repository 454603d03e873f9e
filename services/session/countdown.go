package session

import "context"

// restartCountdown stops any running resend countdown and starts a new one.
// A stopped loop can never decrement again, even if one of its ticks is
// already pending.
func (c *Controller) restartCountdown() {
	if c.opts.countdownTick <= 0 {
		return
	}

	c.countdownMu.Lock()
	defer c.countdownMu.Unlock()
	if c.countdownCancel != nil {
		c.countdownCancel()
	}
	if c.isClosed() {
		c.countdownCancel = nil
		return
	}
	c.countdownID++
	id := c.countdownID
	ctx, cancel := context.WithCancel(c.ctx)
	c.countdownCancel = cancel

	ticks, stop := c.opts.newTicker(c.opts.countdownTick)
	c.countdown.Add(1)
	go func() {
		defer c.countdown.Done()
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
			}
			if !c.countdownStep(id) {
				return
			}
		}
	}()
}

func (c *Controller) stopCountdown() {
	c.countdownMu.Lock()
	defer c.countdownMu.Unlock()
	if c.countdownCancel != nil {
		c.countdownCancel()
		c.countdownCancel = nil
	}
	c.countdownID++
}

// countdownStep decrements the resend timer if loop id is still the current
// one. It reports whether the loop should keep running.
func (c *Controller) countdownStep(id uint64) bool {
	c.countdownMu.Lock()
	defer c.countdownMu.Unlock()
	if c.countdownID != id {
		return false
	}
	next := c.update(func(s State) State { return reduce(s, DecrementResendTimer{}) })
	return next.ResendTimer > 0
}
