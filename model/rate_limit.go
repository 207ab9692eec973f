package model

import "time"

// RateLimit is the counter for one (identifier, endpoint) pair.
type RateLimit struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Identifier   string    `json:"identifier" gorm:"not null;size:255;uniqueIndex:idx_rate_limits_identifier_endpoint"`
	Endpoint     string    `json:"endpoint" gorm:"not null;size:50;uniqueIndex:idx_rate_limits_identifier_endpoint"`
	RequestCount int       `json:"request_count" gorm:"default:0;not null"`
	WindowStart  time.Time `json:"window_start" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null"`
}

// Hit counts one request made at now against a fixed window starting at
// WindowStart. An expired or unset window restarts at now with a count of 1.
// A denied request leaves the record untouched.
func (r *RateLimit) Hit(now time.Time, window time.Duration, maxRequests int) bool {
	if r.WindowStart.IsZero() || now.Sub(r.WindowStart) >= window {
		r.WindowStart = now
		r.RequestCount = 1
		return true
	}

	if r.RequestCount < maxRequests {
		r.RequestCount++
		return true
	}

	return false
}

// ResetAt is the instant the current window expires.
func (r *RateLimit) ResetAt(window time.Duration) time.Time {
	return r.WindowStart.Add(window)
}

type RateLimitConfig struct {
	ID            string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Endpoint      string    `json:"endpoint" gorm:"uniqueIndex;not null;size:50"`
	MaxRequests   int       `json:"max_requests" gorm:"not null"`
	WindowMinutes int       `json:"window_minutes" gorm:"not null"`
	Description   string    `json:"description" gorm:"type:text"`
	IsActive      bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null"`
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}
