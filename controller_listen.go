package goSession

import "context"

// Start attaches the controller to the backend's session change stream.
// A refreshed session with an identity reloads the profile; an absent
// identity clears the store. Start is idempotent per controller: a second
// call replaces the previous listener.
//
// The supplied context bounds the profile reloads triggered by the
// listener.
func (c *Controller) Start(ctx context.Context) {
	if c.backend == nil {
		return
	}

	if c.stopListen != nil {
		c.stopListen()
	}

	c.stopListen = c.backend.OnSessionChange(func(event SessionEvent, identity *Identity) {
		switch event {
		case SessionSignedOut:
			c.flowMu.Lock()
			c.setIdentity(nil)
			c.sessions.Set(nil)
			c.flowMu.Unlock()
		case SessionSignedIn, SessionTokenRefreshed:
			c.flowMu.Lock()
			if identity == nil {
				c.setIdentity(nil)
				c.sessions.Set(nil)
			} else {
				c.setIdentity(identity)
				c.loadProfileLocked(ctx, identity)
			}
			c.flowMu.Unlock()
		}
	})
}

// Close detaches the session change listener and drains the audit
// dispatcher. The controller must not be used after Close.
func (c *Controller) Close() {
	if c.stopListen != nil {
		c.stopListen()
		c.stopListen = nil
	}
	c.audit.Close()
}
