package services

import (
	"context"
	"errors"
	"time"

	"github.com/shawnadoherty9/travelogie-sub001/dto"
	"github.com/shawnadoherty9/travelogie-sub001/model"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultStoreTimeout = 2 * time.Second

	decisionAllowed  = "allowed"
	decisionDenied   = "denied"
	decisionFailOpen = "fail_open"
)

// RateLimitStore counts one request for (identifier, endpoint) and reports
// whether it fits in the window. Implementations must make the
// read-increment-write atomic for a single pair.
type RateLimitStore interface {
	GetAndUpdate(ctx context.Context, identifier, endpoint string, now time.Time, window time.Duration, maxRequests int) (*model.RateLimit, bool, error)
}

type RateLimiterOpts struct {
	TimeProvider func() time.Time
	StoreTimeout time.Duration
	Logger       *log.Logger
}

// RateLimiter applies a fixed window quota per (identifier, endpoint). Any
// failure of the store resolves to "allowed".
type RateLimiter struct {
	store        RateLimitStore
	timeProvider func() time.Time
	storeTimeout time.Duration
	logger       *log.Logger
}

func NewRateLimiter(store RateLimitStore, opts *RateLimiterOpts) *RateLimiter {
	l := &RateLimiter{
		store:        store,
		timeProvider: time.Now,
		storeTimeout: DefaultStoreTimeout,
		logger:       log.StandardLogger(),
	}
	if opts != nil {
		if opts.TimeProvider != nil {
			l.timeProvider = opts.TimeProvider
		}
		if opts.StoreTimeout > 0 {
			l.storeTimeout = opts.StoreTimeout
		}
		if opts.Logger != nil {
			l.logger = opts.Logger
		}
	}
	return l
}

// Check reports whether a request from identifier to endpoint is within
// maxRequests per windowMinutes.
func (l *RateLimiter) Check(ctx context.Context, identifier, endpoint string, maxRequests, windowMinutes int) bool {
	return l.Evaluate(ctx, identifier, endpoint, maxRequests, windowMinutes).Allowed
}

// Evaluate is Check with the quota details callers put in response headers.
func (l *RateLimiter) Evaluate(ctx context.Context, identifier, endpoint string, maxRequests, windowMinutes int) *dto.RateLimitInfo {
	if identifier == "" {
		identifier = shared.AnonymousIdentifier
	}

	if endpoint == "" || maxRequests <= 0 || windowMinutes <= 0 {
		return l.failOpen(identifier, endpoint, maxRequests, errors.New("invalid rate limit policy"))
	}

	if l.store == nil {
		return l.failOpen(identifier, endpoint, maxRequests, errors.New("rate limit store not configured"))
	}

	window := time.Duration(windowMinutes) * time.Minute
	now := l.timeProvider().UTC()

	storeCtx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	record, allowed, err := l.store.GetAndUpdate(storeCtx, identifier, endpoint, now, window, maxRequests)
	if err != nil {
		return l.failOpen(identifier, endpoint, maxRequests, err)
	}

	info := &dto.RateLimitInfo{
		Allowed: allowed,
		Limit:   maxRequests,
	}
	if record != nil {
		resetTime := record.ResetAt(window)
		info.ResetTime = &resetTime
		info.Remaining = maxRequests - record.RequestCount
		if info.Remaining < 0 {
			info.Remaining = 0
		}
	}

	if allowed {
		rateLimitDecisionsTotal.WithLabelValues(endpoint, decisionAllowed).Inc()
	} else {
		rateLimitDecisionsTotal.WithLabelValues(endpoint, decisionDenied).Inc()
		l.logger.WithFields(log.Fields{
			"identifier": identifier,
			"endpoint":   endpoint,
			"limit":      maxRequests,
		}).Info("Rate limit exceeded")
	}

	return info
}

func (l *RateLimiter) failOpen(identifier, endpoint string, maxRequests int, err error) *dto.RateLimitInfo {
	rateLimitDecisionsTotal.WithLabelValues(endpoint, decisionFailOpen).Inc()
	l.logger.WithFields(log.Fields{
		"identifier": identifier,
		"endpoint":   endpoint,
	}).WithError(err).Warn("Rate limit check failed, allowing request")

	return &dto.RateLimitInfo{
		Allowed:   true,
		Limit:     maxRequests,
		Remaining: -1,
		FailOpen:  true,
	}
}
