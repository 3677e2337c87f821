package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lambdakit/lambdakit/core/handler"
)

const (
	// maxTrackedKeys bounds the limiter table; idle keys are pruned when the
	// table would grow past it.
	maxTrackedKeys = 4096
	// keyIdleTTL is how long a key may sit unused before pruning.
	keyIdleTTL = 3 * time.Minute
)

// RateLimitConfig configures the in-process rate limiting middleware. State
// lives in the function instance, so limits apply per instance; use it to
// shield downstreams from bursts, not as a billing-grade quota.
type RateLimitConfig struct {
	// Skip exempts matching requests.
	Skip func(r *handler.Request) bool

	// RPS is the sustained allowance per key. Required.
	RPS float64

	// Burst is the instantaneous allowance per key. Default: RPS rounded up.
	Burst int

	// KeyExtractor buckets requests. Default: client IP from X-Forwarded-For,
	// falling back to the envelope's source IP, then one shared bucket.
	KeyExtractor func(r *handler.Request) string

	// ErrorHandler builds the rejection. Default: 429 with a Retry-After
	// header.
	ErrorHandler func(r *handler.Request, retryAfter time.Duration) (*handler.Response, error)

	// SetHeaders adds X-RateLimit-Limit and X-RateLimit-Remaining to every
	// response that passes through.
	SetHeaders bool
}

// RateLimit creates a rate limiting middleware. Panics without a positive
// RPS; a misconfigured limit must fail at startup.
func RateLimit(cfg RateLimitConfig) handler.Middleware {
	if cfg.RPS <= 0 {
		panic("ratelimit middleware: positive RPS is required")
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(math.Ceil(cfg.RPS))
	}
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(r *handler.Request) string {
			if ip := ClientIP(r); ip != "" {
				return ip
			}
			return "global"
		}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(r *handler.Request, retryAfter time.Duration) (*handler.Response, error) {
			resp := handler.NewResponse(
				map[string]any{"error": "Too many requests"},
				handler.WithStatus(http.StatusTooManyRequests),
			)
			resp.Headers["Retry-After"] = retryAfterSeconds(retryAfter)
			return resp, nil
		}
	}

	limiters := &keyLimiters{
		rate:    rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		entries: make(map[string]*limiterEntry),
	}

	return func(r *handler.Request, ctx *handler.Context, next handler.Next) (*handler.Response, error) {
		if cfg.Skip != nil && cfg.Skip(r) {
			return next()
		}

		now := time.Now()
		limiter := limiters.get(cfg.KeyExtractor(r), now)

		reservation := limiter.ReserveN(now, 1)
		if delay := reservation.DelayFrom(now); delay > 0 {
			reservation.CancelAt(now)
			resp, err := cfg.ErrorHandler(r, delay)
			if cfg.SetHeaders && resp != nil {
				setRateHeaders(resp, cfg.Burst, limiter, now)
			}
			return resp, err
		}

		resp, err := next()
		if cfg.SetHeaders && err == nil && resp != nil {
			setRateHeaders(resp, cfg.Burst, limiter, now)
		}
		return resp, err
	}
}

// ClientIP extracts the caller's IP: the first X-Forwarded-For hop when the
// envelope passed through a proxy, otherwise the source IP recorded by API
// Gateway in the raw envelope. Empty when neither is present.
func ClientIP(r *handler.Request) string {
	if fwd := r.Header("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}

	reqCtx, ok := r.RawEvent["requestContext"].(map[string]any)
	if !ok {
		return ""
	}
	identity, ok := reqCtx["identity"].(map[string]any)
	if !ok {
		return ""
	}
	ip, _ := identity["sourceIp"].(string)
	return ip
}

func retryAfterSeconds(delay time.Duration) string {
	secs := int(math.Ceil(delay.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func setRateHeaders(resp *handler.Response, burst int, limiter *rate.Limiter, now time.Time) {
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	remaining := int(limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	resp.Headers["X-RateLimit-Limit"] = strconv.Itoa(burst)
	resp.Headers["X-RateLimit-Remaining"] = strconv.Itoa(remaining)
}

// keyLimiters is a mutex-guarded limiter table with opportunistic pruning.
// Lambda freezes background goroutines between invocations, so cleanup has to
// happen on the request path.
type keyLimiters struct {
	mu      sync.Mutex
	rate    rate.Limit
	burst   int
	entries map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (k *keyLimiters) get(key string, now time.Time) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if e, ok := k.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}

	if len(k.entries) >= maxTrackedKeys {
		k.prune(now)
	}

	e := &limiterEntry{limiter: rate.NewLimiter(k.rate, k.burst), lastSeen: now}
	k.entries[key] = e
	return e.limiter
}

func (k *keyLimiters) prune(now time.Time) {
	for key, e := range k.entries {
		if now.Sub(e.lastSeen) > keyIdleTTL {
			delete(k.entries, key)
		}
	}
}
