package auth

import (
	"sync"
	"time"

	"github.com/Crabmann2025/Book-Alchemy/internal/config"
)

const (
	defaultMaxLoginAttempts = 5
	defaultRateLimitWindow  = 15 * time.Minute
	defaultLockoutDuration  = 30 * time.Minute
	limiterCleanupInterval  = 5 * time.Minute
)

// RateLimiter counts failed logins per client IP and username and locks the
// pair out once too many fail inside the window.
type RateLimiter struct {
	mu       sync.Mutex
	failures map[string]*failureRecord

	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type failureRecord struct {
	count       int
	windowStart time.Time
	lockedUntil time.Time
}

// NewRateLimiter starts a limiter configured from the auth settings. Zero
// values fall back to 5 attempts per 15 minutes and a 30 minute lockout.
// Call Stop to end the background sweep.
func NewRateLimiter(cfg config.Auth) *RateLimiter {
	rl := newRateLimiter(cfg, time.Now)
	go rl.sweepLoop(limiterCleanupInterval)
	return rl
}

func newRateLimiter(cfg config.Auth, now func() time.Time) *RateLimiter {
	rl := &RateLimiter{
		failures:    make(map[string]*failureRecord),
		maxAttempts: cfg.MaxLoginAttempts,
		window:      cfg.RateLimitWindow,
		lockout:     cfg.LockoutDuration,
		now:         now,
		stop:        make(chan struct{}),
	}
	if rl.maxAttempts <= 0 {
		rl.maxAttempts = defaultMaxLoginAttempts
	}
	if rl.window <= 0 {
		rl.window = defaultRateLimitWindow
	}
	if rl.lockout <= 0 {
		rl.lockout = defaultLockoutDuration
	}
	return rl
}

func limiterKey(ip, username string) string {
	return ip + "|" + username
}

// Allow reports whether a login attempt may proceed. When it may not, the
// second value is how long the caller should wait.
func (rl *RateLimiter) Allow(ip, username string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, ok := rl.failures[limiterKey(ip, username)]
	if !ok {
		return true, 0
	}

	now := rl.now()
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed login and starts the lockout when the
// limit is reached.
func (rl *RateLimiter) RecordFailure(ip, username string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	key := limiterKey(ip, username)
	record, ok := rl.failures[key]
	if !ok || (now.Sub(record.windowStart) > rl.window && !now.Before(record.lockedUntil)) {
		record = &failureRecord{windowStart: now}
		rl.failures[key] = record
	}

	record.count++
	if record.count >= rl.maxAttempts {
		record.lockedUntil = now.Add(rl.lockout)
	}
}

// RecordSuccess forgets the failures of a pair after a good login.
func (rl *RateLimiter) RecordSuccess(ip, username string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.failures, limiterKey(ip, username))
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// sweep drops records whose window and lockout have both run out.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, record := range rl.failures {
		if now.Sub(record.windowStart) > rl.window && !now.Before(record.lockedUntil) {
			delete(rl.failures, key)
		}
	}
}
