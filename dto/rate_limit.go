package dto

import "time"

type RateLimitInfo struct {
	Allowed   bool       `json:"allowed"`
	Limit     int        `json:"limit"`
	Remaining int        `json:"remaining"`
	ResetTime *time.Time `json:"reset_time,omitempty"`
	// FailOpen marks a decision taken without consulting storage.
	FailOpen bool `json:"fail_open,omitempty"`
}

type CheckRateLimitRequest struct {
	Endpoint string `json:"endpoint" validate:"required,max=50"`
}

func (r CheckRateLimitRequest) Validate() error {
	return validate.Struct(r)
}

type UpdateRateLimitConfigRequest struct {
	MaxRequests   int   `json:"max_requests" validate:"omitempty,min=1"`
	WindowMinutes int   `json:"window_minutes" validate:"omitempty,min=1"`
	IsActive      *bool `json:"is_active"`
}

func (r UpdateRateLimitConfigRequest) Validate() error {
	return validate.Struct(r)
}

type RateLimitConfigResponse struct {
	Endpoint      string `json:"endpoint"`
	MaxRequests   int    `json:"max_requests"`
	WindowMinutes int    `json:"window_minutes"`
	Description   string `json:"description"`
	IsActive      bool   `json:"is_active"`
}

type RateLimitStats struct {
	Backend       string                    `json:"backend"`
	Configs       []RateLimitConfigResponse `json:"configs"`
	TotalRecords  int64                     `json:"total_records"`
	ActiveRecords int64                     `json:"active_records"`
	Timestamp     time.Time                 `json:"timestamp"`
}
