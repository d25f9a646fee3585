package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// loginRate allows roughly one login attempt every 6 seconds per client.
	loginRate = rate.Limit(10.0 / 60.0)
	// loginBurst is how many attempts a client can make back to back.
	loginBurst = 5
	// limiterTTL is how long an idle client's limiter is kept before cleanup.
	limiterTTL = 15 * time.Minute
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	stopCh   chan struct{}
}

// NewLoginLimiter creates a login limiter and starts its cleanup loop.
func NewLoginLimiter() *LoginLimiter {
	ll := &LoginLimiter{
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go ll.cleanupLoop()

	return ll
}

// Stop terminates the background cleanup goroutine.
func (ll *LoginLimiter) Stop() {
	close(ll.stopCh)
}

// Allow reports whether the client identified by ip may attempt a login now.
func (ll *LoginLimiter) Allow(ip string) bool {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	cl, ok := ll.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(loginRate, loginBurst)}
		ll.limiters[ip] = cl
	}
	cl.lastAccess = time.Now()

	return cl.limiter.Allow()
}

func (ll *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ll.stopCh:
			return
		case <-ticker.C:
			ll.mu.Lock()
			cutoff := time.Now().Add(-limiterTTL)
			for ip, cl := range ll.limiters {
				if cl.lastAccess.Before(cutoff) {
					delete(ll.limiters, ip)
				}
			}
			ll.mu.Unlock()
		}
	}
}
