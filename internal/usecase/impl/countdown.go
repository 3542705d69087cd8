package impl

// countdown is the OTP resend timer. It only moves when Tick is called, so the
// caller decides what a tick is.
type countdown struct {
	remaining int
}

func (c *countdown) start(ticks int) {
	c.remaining = max(ticks, 0)
}

func (c *countdown) tick() int {
	if c.remaining > 0 {
		c.remaining--
	}

	return c.remaining
}

func (c *countdown) ready() bool {
	return c.remaining == 0
}

func (c *countdown) reset() {
	c.remaining = 0
}
