package rest

import (
	"context"
	"time"
)

// inflightCall is one shared GET execution. Joiners block on done and
// then read the settled result.
type inflightCall struct {
	done chan struct{}
	env  *Envelope
	err  error
}

// joinInflight collapses concurrent identical GETs onto a single
// transport call. The entry outlives settlement by dedupHold before
// eviction so a burst straddling completion still coalesces.
func (c *Client) joinInflight(ctx context.Context, key string, run func() (*Envelope, error)) (*Envelope, error) {
	c.mu.Lock()
	if in, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-in.done:
			return in.env, in.err
		case <-ctx.Done():
			return nil, classifyTransportErr(ctx, ctx.Err())
		}
	}

	in := &inflightCall{done: make(chan struct{})}
	c.inflight[key] = in
	c.mu.Unlock()

	in.env, in.err = run()
	close(in.done)

	time.AfterFunc(dedupHold, func() {
		c.mu.Lock()
		if c.inflight[key] == in {
			delete(c.inflight, key)
		}
		c.mu.Unlock()
	})

	return in.env, in.err
}
