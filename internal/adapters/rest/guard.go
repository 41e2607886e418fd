package rest

import "time"

// scheduleAuthExpired fires the registered session-expiry handler once
// per auth failure, after the failing call stack has unwound. The
// logout endpoint is exempt: its own 401 must not recurse into another
// logout.
func (c *Client) scheduleAuthExpired(path string) {
	if path == c.logoutPath {
		return
	}

	c.mu.Lock()
	fn := c.onAuthExpired
	if fn == nil || c.authPending {
		c.mu.Unlock()
		return
	}
	c.authPending = true
	c.mu.Unlock()

	time.AfterFunc(authFireDelay, func() {
		c.mu.Lock()
		c.authPending = false
		c.mu.Unlock()
		fn()
	})
}
